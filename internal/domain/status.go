package domain

// Status is a node in the workflow graph.
type Status struct {
	ID          int64
	Name        string
	ColorCode   *string
	StageRoleID *int64
}
