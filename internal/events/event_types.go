package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated     EventType = "ticket_created"
	EventTransitionApplied EventType = "ticket_transition_applied"
	EventCommentAdded      EventType = "ticket_comment_added"
)

// Actor identifies who triggered an event.
type Actor struct {
	Username  string `json:"username"`
	AppUserID int64  `json:"app_user_id,omitempty"`
	RoleID    int64  `json:"role_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	FlowTypeID int64  `json:"flow_type_id"`
	StatusID   int64  `json:"status_id"`
	Title      string `json:"title"`
}

// TransitionAppliedPayload payload.
type TransitionAppliedPayload struct {
	FromStatusID int64  `json:"from_status_id"`
	ToStatusID   int64  `json:"to_status_id"`
	OwnerRoleID  int64  `json:"owner_role_id"`
	ButtonLabel  string `json:"button_label"`
	Note         string `json:"note,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   int64  `json:"comment_id"`
	Author      string `json:"author"`
	BodyPreview string `json:"body_preview"`
}
