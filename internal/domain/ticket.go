package domain

import "time"

// LockKind marks a quality-hold overlay on a ticket's current status,
// distinct from ordinary "you are here" highlighting.
type LockKind string

const (
	LockNone        LockKind = ""
	LockObservation LockKind = "OBS"
	LockOnHold      LockKind = "ONH"
	LockRejected    LockKind = "RED"
)

// Ticket holds the request-scoped state the workflow engine evaluates. The
// engine itself never mutates a ticket; status changes are written by the
// ticket service.
type Ticket struct {
	ID          int64
	ExternalKey string
	Title       string
	Description string
	FlowTypeID  int64
	StatusID    int64
	OwnerRoleID int64
	LockKind    LockKind
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
}
