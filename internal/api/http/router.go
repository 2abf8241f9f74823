package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/http/handlers"
	"github.com/spec-kit/facility-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Teams          *handlers.TeamsHandler
	Rooms          *handlers.RoomsHandler
	Tasks          *handlers.TasksHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api/v1")
	api.Post("/users", cfg.Users.Register)
	api.Post("/users/login", cfg.Users.Login)
	api.Post("/rooms/:roomId/feedback", cfg.Rooms.SubmitFeedback)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	manager := auth.RequireManager()

	protected.Get("/users", cfg.Users.List)

	protected.Get("/teams", cfg.Teams.List)
	protected.Post("/teams", manager, cfg.Teams.Create)
	protected.Post("/teams/join", cfg.Teams.Join)
	protected.Get("/teams/by-code/:code", cfg.Teams.GetByCode)
	protected.Get("/teams/by-employee/:employeeId", cfg.Teams.GetByEmployee)
	protected.Get("/teams/:managerId", cfg.Teams.GetByManager)
	protected.Post("/teams/:managerId/employees", manager, cfg.Teams.AddEmployee)
	protected.Delete("/teams/:managerId/employees/:employeeId", manager, cfg.Teams.RemoveEmployee)

	protected.Get("/rooms", cfg.Rooms.List)
	protected.Post("/rooms", manager, cfg.Rooms.Create)
	protected.Delete("/rooms/:roomId", manager, cfg.Rooms.Delete)
	protected.Get("/rooms/:roomId/feedback", cfg.Rooms.ListFeedback)

	protected.Get("/tasks", cfg.Tasks.List)
	protected.Post("/tasks", manager, cfg.Tasks.Create)
	protected.Get("/tasks/:taskId", cfg.Tasks.Get)
	protected.Put("/tasks/:taskId", manager, cfg.Tasks.Update)
	protected.Delete("/tasks/:taskId", manager, cfg.Tasks.Delete)
	protected.Put("/tasks/:taskId/complete", cfg.Tasks.Complete)
	protected.Get("/tasks/:taskId/status", cfg.Tasks.Status)
	protected.Post("/tasks/:taskId/questionnaire", cfg.Tasks.SubmitQuestionnaire)
	protected.Post("/tasks/:taskId/image", cfg.Tasks.UploadImage)

	protected.Get("/reports/tasks.xlsx", manager, cfg.Reports.TaskReport)
}
