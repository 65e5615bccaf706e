package model

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is a user-logged record of a completed personal event.
// AchievedAt is set by the database at insert time, never by the client.
type Achievement struct {
	ID         int64      `db:"id"`
	UserID     uuid.UUID  `db:"user_id"`
	Title      string     `db:"title"`
	StartTime  time.Time  `db:"start_time"`
	EndTime    *time.Time `db:"end_time"`
	AchievedAt time.Time  `db:"achieved_at"`
}
