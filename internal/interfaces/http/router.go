package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/precast-api/internal/application/tracking"
	"github.com/jhoicas/precast-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Transitions *tracking.TransitionUseCase
	Components  *tracking.ComponentUseCase
	Aggregates  *tracking.AggregateUseCase
	JWTSecret   string
	// Metrics handler de /metrics (promhttp); nil = sin endpoint.
	Metrics nethttp.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleOperator)

	components := api.Group("/other-components")
	h := NewOtherComponentHandler(deps.Transitions, deps.Components, deps.Aggregates)
	components.Post("/", writers, h.Create)
	components.Get("/projects-with-other-components", h.ProjectsWithComponents)
	components.Get("/project/:projectId", h.ListByProject)
	components.Get("/:componentId", h.GetByID)
	components.Put("/:componentId/status", writers, h.UpdateStatus)
	components.Put("/:componentId/details", writers, h.UpdateDetails)
	components.Post("/:componentId/reset", adminOnly, h.Reset)
	components.Get("/:componentId/history", h.History)
	components.Delete("/:componentId", adminOnly, h.Delete)

	projects := api.Group("/projects")
	ph := NewProjectHandler(deps.Aggregates)
	projects.Get("/:projectId/aggregate", ph.Aggregate)
	projects.Get("/:projectId/report.pdf", ph.Report)
}
