package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/api/http/handlers"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/identity"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Tickets  *handlers.TicketsHandler
	Workflow *handlers.WorkflowHandler
	Identity *identity.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/workflow/diagram", cfg.Identity.Handle, cfg.Workflow.GetDiagram)

	tickets := app.Group("/tickets", cfg.Identity.Handle)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/transitions", cfg.Tickets.ApplyTransition)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)
	tickets.Get("/:id/diagram", cfg.Workflow.GetTicketDiagram)
}
