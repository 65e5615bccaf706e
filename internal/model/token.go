package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is an opaque bearer credential. A token is valid only while
// expires_at is in the future; expired rows are never returned by lookups
// and are left in place (no background sweep).
type AuthToken struct {
	ID        int64     `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
