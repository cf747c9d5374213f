package routes

import (
	"time"

	"github.com/findin/findin-backend/internal/config"
	"github.com/findin/findin-backend/internal/handlers"
	"github.com/findin/findin-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	commentHandler *handlers.CommentHandler,
	verificationHandler *handlers.VerificationHandler,
	inviteHandler *handlers.InviteHandler,
	notificationHandler *handlers.NotificationHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", handlers.Health)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Invite redemption is public: the bearer of a valid token has no account yet.
	api.Post("/invites/accept", inviteHandler.Accept)

	// Protected routes (JWT required) - apply middleware to individual routes
	// so it does not affect the public ones above.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	api.Get("/reports", middleware.JWTProtected(cfg), reportHandler.List)
	api.Get("/reports/:id", middleware.JWTProtected(cfg), reportHandler.Get)
	api.Post("/reports", middleware.JWTProtected(cfg), reportHandler.Create)
	api.Post("/reports/:id/abuse", middleware.JWTProtected(cfg), reportHandler.ReportAbuse)
	api.Post("/comments", middleware.JWTProtected(cfg), commentHandler.Create)
	api.Get("/notifications", middleware.JWTProtected(cfg), notificationHandler.List)
	api.Put("/notifications/:id/read", middleware.JWTProtected(cfg), notificationHandler.MarkRead)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/verification/queue", verificationHandler.Queue)
	admin.Put("/verification/:id", verificationHandler.Decide)
	admin.Post("/invites", inviteHandler.Create)
	admin.Put("/reports/:id/status", reportHandler.UpdateStatus)
	admin.Put("/reports/:id/radius", reportHandler.ExpandRadius)
}
