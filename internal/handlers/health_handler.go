package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/workhive/workhive-backend/internal/database"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/realtime"
)

type HealthHandler struct {
	hub *realtime.Hub
}

func NewHealthHandler(hub *realtime.Hub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Clients:   h.hub.ClientCount(),
	})
}
