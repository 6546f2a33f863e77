package api

import (
	"errors"

	"ohs-consultant/docs"
	"ohs-consultant/internal/api/handlers"
	"ohs-consultant/pkg/auth"
	"ohs-consultant/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Admin  *handlers.AdminHandler
	Health *handlers.HealthHandler
}

func SetupRouter(
	h Handlers,
	jwtManager *auth.JWTManager,
	throttle *middleware.Throttle,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ohs-consultant admin",
		ErrorHandler: ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())
	app.Use(middleware.Metrics())

	app.Get("/health", h.Health.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// docs registers the generated spec in its init
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")
	if throttle != nil {
		api.Use(throttle.Handler(appLogger))
	}

	// Auth routes (public)
	authGroup := api.Group("/admin/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(jwtManager, appLogger))

	protected.Get("/stats", h.Admin.Stats)
	protected.Get("/users", h.Admin.ListUsers)
	protected.Patch("/users/:id", h.Admin.UpdateUser)
	protected.Get("/queries", h.Admin.ListQueries)
	protected.Get("/analytics/anonymized", h.Admin.AnonymizedAnalytics)
	protected.Get("/export/queries", h.Admin.ExportQueries)
	protected.Get("/audit", h.Admin.AuditLogs)

	settings := protected.Group("/settings")
	settings.Get("", h.Admin.ListSettings)
	settings.Get("/:key", h.Admin.GetSetting)
	settings.Post("/:key", h.Admin.SetSetting)

	faq := protected.Group("/faq")
	faq.Get("/stats", h.Admin.FAQStats)
	faq.Get("/search", h.Admin.FAQSearch)
	faq.Post("/reload", h.Admin.FAQReload)

	limits := protected.Group("/ratelimit")
	limits.Get("/policies", h.Admin.RateLimitPolicies)
	limits.Get("/users/:id", h.Admin.UserRateLimit)
	limits.Delete("/users/:id", h.Admin.ClearUserRateLimit)

	return app
}

// ErrorHandler renders *fiber.Error codes and hides everything else behind 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
