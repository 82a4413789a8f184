package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/service"
)

// WorkflowHandler serves workflow diagrams.
type WorkflowHandler struct {
	flowcharts *service.FlowchartService
}

// NewWorkflowHandler constructs handler.
func NewWorkflowHandler(flowcharts *service.FlowchartService) *WorkflowHandler {
	return &WorkflowHandler{flowcharts: flowcharts}
}

// GetDiagram GET /workflow/diagram renders the transition graph,
// optionally scoped by ?flow_type=.
func (h *WorkflowHandler) GetDiagram(c *fiber.Ctx) error {
	var flowTypeID *int64
	if raw := c.Query("flow_type"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			flowTypeID = &id
		}
	}
	graph := h.flowcharts.RenderFlow(c.UserContext(), flowTypeID, c.Query("direction"))
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(graph)
}

// GetTicketDiagram GET /tickets/:id/diagram renders the ticket's flow
// with the current status highlighted.
func (h *WorkflowHandler) GetTicketDiagram(c *fiber.Ctx) error {
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	graph, err := h.flowcharts.RenderForTicket(c.UserContext(), ticketID, c.Query("direction"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(graph)
}
