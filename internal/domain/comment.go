package domain

import "time"

// Comment is a ticket thread entry. Author is the raw free-text author
// string as historically recorded; display resolution happens in the
// author package.
type Comment struct {
	ID        int64
	TicketID  int64
	Author    string
	Body      string
	CreatedAt time.Time
}

// AuthorOverride corrects the displayed author of a single comment without
// affecting other comments by the same raw author.
type AuthorOverride struct {
	CommentID   int64
	DisplayName string
}

// AuthorAlias maps a raw historical author string to a display name.
type AuthorAlias struct {
	AuthorRaw   string
	DisplayName string
}
