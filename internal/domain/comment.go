package domain

import "time"

// Comment belongs to exactly one ticket and one authoring user.
// Comments are append-only and ordered by creation time.
type Comment struct {
	ID        int64
	TicketID  int64
	UserID    int64
	Content   string
	CreatedAt time.Time
}
