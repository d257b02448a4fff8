package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/workhive/workhive-backend/internal/config"
	"github.com/workhive/workhive-backend/internal/handlers"
	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/realtime"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Project      *handlers.ProjectHandler
	Task         *handlers.TaskHandler
	Message      *handlers.MessageHandler
	File         *handlers.FileHandler
	Notification *handlers.NotificationHandler
	Health       *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, hub *realtime.Hub, h Handlers) {
	api := app.Group("/api")

	// General API rate limit: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:          60,
		Expiration:   1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth — public, with a stricter 10 req/min limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:          10,
		Expiration:   1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// Everything below requires a valid token and an active account.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.LoadUser(db))

	protected.Post("/auth/logout", h.Auth.Logout)
	protected.Get("/auth/me", h.Auth.Me)

	protected.Get("/users", h.User.List)
	protected.Put("/users/me", h.User.UpdateProfile)

	protected.Post("/projects", h.Project.Create)
	protected.Get("/projects", h.Project.List)
	protected.Get("/projects/:id", h.Project.Get)
	protected.Put("/projects/:id", h.Project.Update)
	protected.Delete("/projects/:id", h.Project.Delete)
	protected.Post("/projects/:id/members", h.Project.AddMember)
	protected.Delete("/projects/:id/members/:user_id", h.Project.RemoveMember)
	protected.Post("/projects/:id/transfer/:user_id", h.Project.TransferOwnership)

	protected.Post("/tasks", h.Task.Create)
	protected.Get("/tasks", h.Task.List)
	protected.Get("/tasks/:id", h.Task.Get)
	protected.Put("/tasks/:id", h.Task.Update)
	protected.Patch("/tasks/:id/toggle", h.Task.ToggleStatus)
	protected.Delete("/tasks/:id", h.Task.Delete)

	protected.Post("/projects/:id/messages", h.Message.Send)
	protected.Get("/projects/:id/messages", h.Message.List)
	protected.Put("/messages/:id", h.Message.Edit)
	protected.Delete("/messages/:id", h.Message.Delete)

	protected.Post("/projects/:id/files", h.File.Upload)
	protected.Get("/projects/:id/files", h.File.List)
	protected.Get("/files/:id/download", h.File.Download)
	protected.Delete("/files/:id", h.File.Delete)

	protected.Get("/notifications", h.Notification.List)
	protected.Get("/notifications/unread", h.Notification.UnreadCount)
	protected.Put("/notifications/read-all", h.Notification.MarkAllRead)
	protected.Put("/notifications/:id/read", h.Notification.MarkRead)
	protected.Delete("/notifications/clear", h.Notification.Clear)
	protected.Delete("/notifications/:id", h.Notification.Delete)

	// Admin user management
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.LoadUser(db), middleware.AdminRequired())
	admin.Put("/users/:id/deactivate", h.User.Deactivate)
	admin.Put("/users/:id/reactivate", h.User.Reactivate)

	// WebSocket endpoint; the upgrade handler authenticates before the
	// connection is hijacked.
	app.Get("/ws", realtime.Upgrade(db, cfg), realtime.Serve(hub, db))
}
