package domain

// Role is the unit of permission scoping; every workflow transition is
// gated by exactly one role.
type Role struct {
	ID        int64
	Name      string
	ColorCode string
}
