package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/api/dto"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/identity"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/service"
	apperrors "github.com/salsus-balsus/ticket-tool-sub002/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	ident, ok := identity.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("identity required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.FlowTypeID == 0 || req.InitialStatusID == 0 {
		return apperrors.NewValidationError("title, flow_type_id, initial_status_id required", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), ident, service.TicketCreateInput{
		Title:           req.Title,
		Description:     req.Description,
		FlowTypeID:      req.FlowTypeID,
		InitialStatusID: req.InitialStatusID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ident, ok := identity.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("identity required")
	}
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	view, err := h.service.GetTicketView(c.UserContext(), ident, ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(view)})
}

// ApplyTransition POST /tickets/:id/transitions.
func (h *TicketsHandler) ApplyTransition(c *fiber.Ctx) error {
	ident, ok := identity.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("identity required")
	}
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.ApplyTransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.NextStatusID == 0 {
		return apperrors.NewValidationError("next_status_id required", nil)
	}
	ticket, err := h.service.ApplyTransition(c.UserContext(), ident, ticketID, req.NextStatusID, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListComments GET /tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	comments, err := h.service.ListComments(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponses(comments)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	ident, ok := identity.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("identity required")
	}
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.UserContext(), ident, ticketID, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":         comment.ID,
		"author":     comment.Author,
		"body":       comment.Body,
		"created_at": comment.CreatedAt,
	}})
}

// ListHistory GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	ticketID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	entries, err := h.service.ListHistory(c.UserContext(), ticketID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.HistoryEntryResponse{
			ID:           entry.ID,
			Actor:        entry.Actor,
			ActorRoleID:  entry.ActorRoleID,
			FromStatusID: entry.FromStatusID,
			ToStatusID:   entry.ToStatusID,
			Note:         entry.Note,
			CreatedAt:    entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:          ticket.ID,
		ExternalKey: ticket.ExternalKey,
		Title:       ticket.Title,
		FlowTypeID:  ticket.FlowTypeID,
		StatusID:    ticket.StatusID,
		OwnerRoleID: ticket.OwnerRoleID,
		LockKind:    ticket.LockKind,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

func commentResponses(comments []service.CommentView) []dto.CommentResponse {
	items := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, dto.CommentResponse{
			ID:             comment.Comment.ID,
			Author:         comment.Comment.Author,
			AuthorDisplay:  comment.AuthorDisplay,
			AuthorInitials: comment.AuthorInitials,
			Body:           comment.Comment.Body,
			CreatedAt:      comment.Comment.CreatedAt,
		})
	}
	return items
}

func ticketDetail(view *service.TicketView) dto.TicketDetailResponse {
	actions := make([]dto.TicketActionResponse, 0, len(view.Actions.Items))
	for _, action := range view.Actions.Items {
		actions = append(actions, dto.TicketActionResponse{
			NextStatusID:    action.NextStatusID,
			ButtonLabel:     action.ButtonLabel,
			NextStatusName:  action.NextStatusName,
			NextStatusColor: action.NextStatusColor,
		})
	}
	return dto.TicketDetailResponse{
		TicketSummary: ticketSummary(view.Ticket),
		Description:   view.Ticket.Description,
		Actions:       actions,
		Comments:      commentResponses(view.Comments),
	}
}
