package domain

// AppUser is a canonical identity in the user catalog. RoleID is the role
// the user acts as by default.
type AppUser struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Initials  string
	RoleID    int64
}
