package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
)

type EventPublisher interface {
	PublishUserRegistered(userID uuid.UUID, nickname string) error
	PublishAchievementLogged(achievement *model.Achievement) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type UserRegisteredEvent struct {
	EventType    string    `json:"event_type"`
	UserID       uuid.UUID `json:"user_id"`
	Nickname     string    `json:"nickname"`
	RegisteredAt time.Time `json:"registered_at"`
}

type AchievementLoggedEvent struct {
	EventType     string    `json:"event_type"`
	AchievementID int64     `json:"achievement_id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	AchievedAt    time.Time `json:"achieved_at"`
}

func (p *NatsPublisher) PublishUserRegistered(userID uuid.UUID, nickname string) error {
	event := UserRegisteredEvent{
		EventType:    "user.registered",
		UserID:       userID,
		Nickname:     nickname,
		RegisteredAt: time.Now(),
	}

	eventJSON, err := json.Marshal(event)

	if err != nil {
		log.Printf("Error marshalling event JSON: %v", err)
		return err
	}

	subject := "user.registered"
	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	log.Printf("Published event to NATS on subject '%s'", subject)

	return nil
}

func (p *NatsPublisher) PublishAchievementLogged(achievement *model.Achievement) error {
	event := AchievementLoggedEvent{
		EventType:     "achievement.logged",
		AchievementID: achievement.ID,
		UserID:        achievement.UserID,
		Title:         achievement.Title,
		AchievedAt:    achievement.AchievedAt,
	}

	eventJSON, err := json.Marshal(event)

	if err != nil {
		return err
	}

	subject := "achievement.logged"
	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		log.Printf("Error publishing to NATS: %v", err)

		return err
	}

	log.Printf("Published event to NATS on subject '%s' for user '%s'", subject, achievement.UserID)

	return nil
}
