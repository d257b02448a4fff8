package realtime

import (
	"errors"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/config"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/models"
	"gorm.io/gorm"
)

// Upgrade authenticates the handshake with the same bearer token the
// HTTP API uses and refuses the upgrade for invalid tokens or
// deactivated accounts.
func Upgrade(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		user, err := authenticate(c, db, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Error: "Unauthorized: invalid or expired token",
			})
		}

		c.Locals("socket_user", user)
		return c.Next()
	}
}

// Serve runs the socket session for an authenticated connection.
func Serve(hub *Hub, db *gorm.DB) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		user, ok := conn.Locals("socket_user").(*models.User)
		if !ok {
			conn.Close()
			return
		}

		client := NewClient(hub, conn, user.ID, user.Name, func(projectID uuid.UUID) bool {
			return canJoinProject(db, user, projectID)
		})

		hub.register <- client
		go client.WritePump()
		client.ReadPump()
	})
}

func authenticate(c *fiber.Ctx, db *gorm.DB, cfg *config.Config) (*models.User, error) {
	raw := c.Query("token")
	if raw == "" {
		raw = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	}
	if raw == "" {
		return nil, errors.New("missing token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("missing sub claim")
	}

	var user models.User
	if err := db.Scopes(models.ActiveUsers).First(&user, "id = ?", userID).Error; err != nil {
		return nil, errors.New("account missing or deactivated")
	}
	return &user, nil
}

// Admins may join any project room; everyone else needs a membership
// row.
func canJoinProject(db *gorm.DB, user *models.User, projectID uuid.UUID) bool {
	if user.IsAdmin() {
		return true
	}
	var count int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, user.ID).
		Count(&count)
	return count > 0
}
