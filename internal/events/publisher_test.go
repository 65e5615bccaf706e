package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/events"
)

func TestUserRegisteredEvent_Marshal(t *testing.T) {
	ev := events.UserRegisteredEvent{
		EventType:    "user.registered",
		UserID:       uuid.New(),
		Nickname:     "Rabbit",
		RegisteredAt: time.Now(),
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "user.registered", decoded["event_type"])
	require.Equal(t, "Rabbit", decoded["nickname"])
}

func TestAchievementLoggedEvent_Marshal(t *testing.T) {
	uid := uuid.New()
	ev := events.AchievementLoggedEvent{
		EventType:     "achievement.logged",
		AchievementID: 42,
		UserID:        uid,
		Title:         "Morning run",
		AchievedAt:    time.Now(),
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "achievement.logged", decoded["event_type"])
	require.Equal(t, float64(42), decoded["achievement_id"])
	require.Equal(t, uid.String(), decoded["user_id"])
}
