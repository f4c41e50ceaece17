package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kstack-dev/content-service/internal/api/http/handlers"
	"github.com/kstack-dev/content-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Content        *handlers.ContentHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Auth.Login)
	authGroup.Post("/staff/otp/request", cfg.Auth.RequestCode)
	authGroup.Post("/staff/otp/verify", cfg.Auth.VerifyCode)
	authGroup.Post("/staff/otp/login", cfg.Auth.LoginWithOTP)
	authGroup.Post("/password/reset", cfg.Auth.ResetPassword)
	authGroup.Post("/password/reset/token", cfg.Auth.IssueResetToken)
	authGroup.Post("/password/reset/redeem", cfg.Auth.RedeemResetToken)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	content := app.Group("/content", cfg.AuthMiddleware.Handle)
	content.Get("/:kind", cfg.Content.List)
	content.Get("/:kind/:id", cfg.Content.Get)
	content.Post("/:kind", cfg.Content.Create)
	content.Put("/:kind/:id", cfg.Content.Replace)
	content.Delete("/:kind/:id", cfg.Content.Delete)
	content.Post("/:kind/:id/media", cfg.Content.AttachMedia)
}
