package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/author"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/events"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/identity"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/observability"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/repository"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/workflow"
	apperrors "github.com/salsus-balsus/ticket-tool-sub002/pkg/util"
)

// TicketService coordinates ticket views and transition application. The
// workflow engine only answers "what can happen next"; the actual state
// change is written here.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	statuses   repository.StatusRepository
	history    repository.TicketHistoryRepository
	engine     *workflow.Engine
	authors    *author.Resolver
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	StatusRepo  repository.StatusRepository
	HistoryRepo repository.TicketHistoryRepository
	Engine      *workflow.Engine
	Authors     *author.Resolver
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title           string
	Description     string
	FlowTypeID      int64
	InitialStatusID int64
}

// CommentView is a comment with its author resolved for display.
type CommentView struct {
	Comment        domain.Comment
	AuthorDisplay  string
	AuthorInitials string
}

// TicketView is everything a ticket page needs: the ticket, the actions
// legal for the effective role, and the comment thread.
type TicketView struct {
	Ticket   *domain.Ticket
	Actions  workflow.TransitionSet
	Comments []CommentView
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		statuses:   deps.StatusRepo,
		history:    deps.HistoryRepo,
		engine:     deps.Engine,
		authors:    deps.Authors,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
	}
}

// CreateTicket creates a ticket in its initial status. The initial owner
// is the status's stage role when one is set, else the creator's role.
func (s *TicketService) CreateTicket(ctx context.Context, ident identity.Identity, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	ownerRoleID := ident.RoleID
	if status, err := s.statuses.GetByID(ctx, input.InitialStatusID); err == nil && status.StageRoleID != nil {
		ownerRoleID = *status.StageRoleID
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		FlowTypeID:  input.FlowTypeID,
		StatusID:    input.InitialStatusID,
		OwnerRoleID: ownerRoleID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorFromIdentity(ident),
		Payload: events.TicketCreatedPayload{
			FlowTypeID: ticket.FlowTypeID,
			StatusID:   ticket.StatusID,
			Title:      ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicketView assembles the ticket page for the effective identity.
func (s *TicketService) GetTicketView(ctx context.Context, ident identity.Identity, ticketID int64) (*TicketView, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	actions := s.engine.AllowedTransitions(ctx, ticket.StatusID, ticket.FlowTypeID, ident.RoleID)
	if actions.Degraded {
		s.metrics.RecordEngineDegraded()
	}
	comments, err := s.resolvedComments(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	return &TicketView{Ticket: ticket, Actions: actions, Comments: comments}, nil
}

// ApplyTransition moves a ticket to nextStatusID if the engine lists that
// move for the effective role, writes the new owner role, and records the
// change in the audit trail.
func (s *TicketService) ApplyTransition(ctx context.Context, ident identity.Identity, ticketID, nextStatusID int64, note string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	allowed := s.engine.AllowedTransitions(ctx, ticket.StatusID, ticket.FlowTypeID, ident.RoleID)
	if allowed.Degraded {
		s.metrics.RecordEngineDegraded()
	}
	item, ok := allowed.Find(nextStatusID)
	if !ok {
		return nil, apperrors.NewForbidden("transition not allowed")
	}

	fromStatusID := ticket.StatusID
	if err := s.tickets.UpdateWorkflowState(ctx, ticket.ID, nextStatusID, item.TargetOwnerRoleID, ticket.LockKind); err != nil {
		return nil, err
	}
	ticket.StatusID = nextStatusID
	ticket.OwnerRoleID = item.TargetOwnerRoleID

	if err := s.recordTransition(ctx, ident, ticket.ID, fromStatusID, nextStatusID, note); err != nil {
		return nil, err
	}
	s.metrics.RecordTransitionApplied(ticket.FlowTypeID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTransitionApplied,
		TicketID: ticket.ID,
		Actor:    actorFromIdentity(ident),
		Payload: events.TransitionAppliedPayload{
			FromStatusID: fromStatusID,
			ToStatusID:   nextStatusID,
			OwnerRoleID:  item.TargetOwnerRoleID,
			ButtonLabel:  item.ButtonLabel,
			Note:         note,
		},
	})
	return ticket, nil
}

// AddComment appends a comment authored by the effective identity.
func (s *TicketService) AddComment(ctx context.Context, ident identity.Identity, ticketID int64, body string) (*domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		TicketID: ticket.ID,
		Author:   ident.Username,
		Body:     strings.TrimSpace(body),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		Actor:    actorFromIdentity(ident),
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			Author:      comment.Author,
			BodyPreview: stringPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// ListComments returns the resolved comment thread for a ticket.
func (s *TicketService) ListComments(ctx context.Context, ticketID int64) ([]CommentView, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.resolvedComments(ctx, ticketID)
}

// ListHistory returns audit trail entries for a ticket.
func (s *TicketService) ListHistory(ctx context.Context, ticketID int64, limit, offset int) ([]domain.TicketHistory, error) {
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	return s.history.ListByTicket(ctx, ticketID, limit, offset)
}

func (s *TicketService) resolvedComments(ctx context.Context, ticketID int64) ([]CommentView, error) {
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, CommentView{
			Comment:        comment,
			AuthorDisplay:  s.authors.DisplayName(ctx, comment.Author, comment.ID),
			AuthorInitials: s.authors.Initials(ctx, comment.Author, comment.ID),
		})
	}
	return views, nil
}

func (s *TicketService) recordTransition(ctx context.Context, ident identity.Identity, ticketID, fromStatusID, toStatusID int64, note string) error {
	if s.history == nil {
		return nil
	}
	entry := &domain.TicketHistory{
		TicketID:     ticketID,
		Actor:        ident.Username,
		ActorRoleID:  ident.RoleID,
		FromStatusID: fromStatusID,
		ToStatusID:   toStatusID,
		Note:         note,
	}
	return s.history.Create(ctx, entry)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFromIdentity(ident identity.Identity) events.Actor {
	return events.Actor{
		Username:  ident.Username,
		AppUserID: ident.AppUserID,
		RoleID:    ident.RoleID,
	}
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
