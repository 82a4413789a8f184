package domain

import "time"

// TicketHistory is an immutable audit trail entry for an applied transition.
type TicketHistory struct {
	ID           int64
	TicketID     int64
	Actor        string
	ActorRoleID  int64
	FromStatusID int64
	ToStatusID   int64
	Note         string
	CreatedAt    time.Time
}
