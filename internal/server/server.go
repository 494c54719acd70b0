// Package server assembles the HTTP application: middleware chain, public
// and admin route groups, static uploads and the health check.
package server

import (
	"errors"
	"time"

	"maninews/internal/config"
	"maninews/internal/handlers"
	"maninews/internal/middleware"
	"maninews/internal/repositories"
	"maninews/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services bundles the business services behind the routes.
type Services struct {
	Auth       *services.AuthService
	Categories *services.CategoryService
	Articles   *services.ArticleService
	SiteConfig *services.SiteConfigService
	Stats      *services.StatsService
	Uploads    *services.UploadService
}

// NewServices wires every service to store. publisher may be nil.
func NewServices(cfg *config.Config, store repositories.Storage, publisher services.EventPublisher) *Services {
	return &Services{
		Auth:       services.NewAuthService(store, cfg.JWTSecret, cfg.JWTTTL),
		Categories: services.NewCategoryService(store),
		Articles:   services.NewArticleService(store, publisher),
		SiteConfig: services.NewSiteConfigService(store),
		Stats:      services.NewStatsService(store),
		Uploads: services.NewUploadService(services.UploadConfig{
			Dir:       cfg.UploadDir,
			URLPrefix: cfg.UploadURLPrefix,
			MaxWidth:  cfg.UploadMaxWidth,
			MaxBytes:  int64(cfg.UploadMaxBytes),
		}),
	}
}

// New builds the Fiber app.
func New(cfg *config.Config, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "maninews",
		BodyLimit:    cfg.UploadMaxBytes + 1<<20,
		ErrorHandler: errorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.RequestTimeout(cfg.QueryTimeout))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	app.Static(cfg.UploadURLPrefix, cfg.UploadDir)

	authHandler := handlers.NewAuthHandler(svc.Auth, loginGuards(cfg)...)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	articleHandler := handlers.NewArticleHandler(svc.Articles)
	siteConfigHandler := handlers.NewSiteConfigHandler(svc.SiteConfig)

	// --- Public API ---
	api := app.Group("/api")
	categoryHandler.RegisterRoutes(api)
	articleHandler.RegisterRoutes(api)
	siteConfigHandler.RegisterRoutes(api)

	// --- Admin API ---
	// Login and registration are registered before the gate and stay open.
	admin := api.Group("/admin")
	authHandler.RegisterRoutes(admin)
	admin.Use(middleware.Authenticate(svc.Auth))

	authHandler.RegisterAdminRoutes(admin)
	categoryHandler.RegisterAdminRoutes(admin)
	articleHandler.RegisterAdminRoutes(admin)
	siteConfigHandler.RegisterAdminRoutes(admin)
	handlers.NewStatsHandler(svc.Stats).RegisterAdminRoutes(admin)
	handlers.NewUploadHandler(svc.Uploads, int64(cfg.UploadMaxBytes)).RegisterAdminRoutes(admin)
	handlers.NewUserHandler(svc.Auth).RegisterAdminRoutes(admin)

	return app
}

// loginGuards throttles login attempts per client IP.
func loginGuards(cfg *config.Config) []fiber.Handler {
	if cfg.LoginRateLimit <= 0 {
		return nil
	}
	return []fiber.Handler{limiter.New(limiter.Config{
		Max:        cfg.LoginRateLimit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many login attempts, try again later",
			})
		},
	})}
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes or oversized bodies, as JSON.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}
	return c.Status(code).JSON(fiber.Map{"message": message})
}
