package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/spec-kit/jobfinder-service/internal/api/http/handlers"
	"github.com/spec-kit/jobfinder-service/internal/auth"
	"github.com/spec-kit/jobfinder-service/internal/config"
	"github.com/spec-kit/jobfinder-service/internal/domain"
	"github.com/spec-kit/jobfinder-service/internal/observability"
)

// RouterDependencies collects everything the HTTP layer needs.
type RouterDependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware

	Health        *handlers.HealthHandler
	Users         *handlers.UserHandler
	Jobs          *handlers.JobHandler
	Applications  *handlers.ApplicationHandler
	Notifications *handlers.NotificationHandler
}

// NewServer builds the fiber app and mounts all routes.
func NewServer(deps RouterDependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.Config.App.Name,
		ReadTimeout:  deps.Config.App.RequestTimeout(),
		WriteTimeout: deps.Config.App.RequestTimeout(),
		ErrorHandler: NewErrorHandler(deps.Logger, deps.Metrics),
	})

	app.Use(recover.New())
	app.Use(observability.RequestLogger(deps.Logger, deps.Metrics))

	app.Get("/health/live", deps.Health.Live)
	app.Get("/health/ready", deps.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	api := app.Group("/api/v1")
	authed := deps.AuthMiddleware.Handle
	userOnly := auth.RequireRole(domain.RoleUser)
	orgOnly := auth.RequireRole(domain.RoleOrganization)

	users := api.Group("/users")
	users.Post("/register", deps.Users.Register)
	users.Post("/login", deps.Users.Login)
	users.Post("/logout", authed, deps.Users.Logout)
	users.Get("/me", authed, deps.Users.Me)
	users.Put("/me", authed, deps.Users.UpdateMe)
	users.Put("/me/password", authed, deps.Users.ChangePassword)

	jobs := api.Group("/jobs", authed)
	jobs.Get("/", deps.Jobs.List)
	jobs.Post("/", orgOnly, deps.Jobs.Create)
	jobs.Get("/mine", orgOnly, deps.Jobs.ListOwn)
	jobs.Get("/liked", userOnly, deps.Jobs.ListLiked)
	jobs.Get("/:id", deps.Jobs.Get)
	jobs.Put("/:id", orgOnly, deps.Jobs.Update)
	jobs.Delete("/:id", orgOnly, deps.Jobs.Delete)
	jobs.Patch("/:id/activate", orgOnly, deps.Jobs.Activate)
	jobs.Patch("/:id/deactivate", orgOnly, deps.Jobs.Deactivate)
	jobs.Post("/:id/like", userOnly, deps.Jobs.Like)
	jobs.Delete("/:id/like", userOnly, deps.Jobs.Unlike)

	applications := api.Group("/applications", authed)
	applications.Post("/", userOnly, deps.Applications.Apply)
	applications.Get("/mine", userOnly, deps.Applications.ListOwn)
	applications.Get("/job/:jobId", orgOnly, deps.Applications.ListForJob)
	applications.Patch("/:id/status", orgOnly, deps.Applications.UpdateStatus)

	notifications := api.Group("/notifications", authed)
	notifications.Get("/", deps.Notifications.List)
	notifications.Get("/:id", deps.Notifications.MarkRead)

	return app
}
