package domain

// EdgeKind classifies a transition for rendering only; it never affects
// eligibility.
type EdgeKind string

const (
	EdgeKindNormal   EdgeKind = "NORMAL"
	EdgeKindSuccess  EdgeKind = "SUCCESS"
	EdgeKindFallback EdgeKind = "FALLBACK"
)

// Transition is an edge in the workflow graph: from CurrentStatusID to
// NextStatusID, executable only by AllowedRoleID, handing the ticket to
// TargetOwnerRoleID. The transition table is reference data edited through
// administration, never by ticket processing.
type Transition struct {
	ID                int64
	FlowTypeID        int64
	CurrentStatusID   int64
	NextStatusID      int64
	AllowedRoleID     int64
	TargetOwnerRoleID int64
	ButtonLabel       string
	EdgeKind          EdgeKind
}
