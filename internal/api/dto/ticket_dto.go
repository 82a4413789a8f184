package dto

import (
	"time"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	FlowTypeID      int64  `json:"flow_type_id"`
	InitialStatusID int64  `json:"initial_status_id"`
}

// ApplyTransitionRequest payload.
type ApplyTransitionRequest struct {
	NextStatusID int64  `json:"next_status_id"`
	Note         string `json:"note"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// TicketActionResponse is one button the effective role may press.
type TicketActionResponse struct {
	NextStatusID    int64  `json:"next_status_id"`
	ButtonLabel     string `json:"button_label"`
	NextStatusName  string `json:"next_status_name,omitempty"`
	NextStatusColor string `json:"next_status_color,omitempty"`
}

// CommentResponse represents a thread entry with its author resolved.
type CommentResponse struct {
	ID             int64     `json:"id"`
	Author         string    `json:"author"`
	AuthorDisplay  string    `json:"author_display"`
	AuthorInitials string    `json:"author_initials"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          int64           `json:"id"`
	ExternalKey string          `json:"external_key"`
	Title       string          `json:"title"`
	FlowTypeID  int64           `json:"flow_type_id"`
	StatusID    int64           `json:"status_id"`
	OwnerRoleID int64           `json:"owner_role_id"`
	LockKind    domain.LockKind `json:"lock_kind,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TicketDetailResponse provides the full ticket page.
type TicketDetailResponse struct {
	TicketSummary
	Description string                 `json:"description"`
	Actions     []TicketActionResponse `json:"actions"`
	Comments    []CommentResponse      `json:"comments"`
}

// HistoryEntryResponse is one audit trail row.
type HistoryEntryResponse struct {
	ID           int64     `json:"id"`
	Actor        string    `json:"actor"`
	ActorRoleID  int64     `json:"actor_role_id"`
	FromStatusID int64     `json:"from_status_id"`
	ToStatusID   int64     `json:"to_status_id"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
