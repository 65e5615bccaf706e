package model

import (
	"time"

	"github.com/google/uuid"
)

// Notice is a server-generated notification delivered to a single user.
// Read state is derived from the nullable read_at timestamp and is
// monotonic: once read, a notice never becomes unread again.
type Notice struct {
	ID        int64      `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	Message   string     `db:"message"`
	ReadAt    *time.Time `db:"read_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (n *Notice) IsRead() bool {
	return n.ReadAt != nil
}
