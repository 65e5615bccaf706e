package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/token"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/events"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/model"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/repository"
)

// Worker turns domain events into notice rows and, when APNs is
// configured, into push notifications. It is the only writer of the
// notices table; the API server just reads and marks read.
type Worker struct {
	natsConn   *nats.Conn
	apnsClient *apns2.Client
	noticeRepo repository.NoticeRepository
	userRepo   repository.UserRepository
}

func New(natsConn *nats.Conn, noticeRepo repository.NoticeRepository, userRepo repository.UserRepository) *Worker {
	return &Worker{
		natsConn:   natsConn,
		apnsClient: newAPNSClient(),
		noticeRepo: noticeRepo,
		userRepo:   userRepo,
	}
}

func newAPNSClient() *apns2.Client {
	authKeyPath := os.Getenv("APNS_AUTH_KEY_PATH")
	keyID := os.Getenv("APNS_KEY_ID")
	teamID := os.Getenv("APNS_TEAM_ID")

	if authKeyPath == "" || keyID == "" || teamID == "" {
		log.Println("APNs credentials not found. Worker will run in MOCK mode.")
		return nil
	}

	authKey, err := token.AuthKeyFromFile(authKeyPath)
	if err != nil {
		log.Printf("Failed to read APNs auth key, running in MOCK mode: %v", err)
		return nil
	}

	authToken := &token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	}

	if os.Getenv("APNS_MODE") == "production" {
		return apns2.NewTokenClient(authToken).Production()
	}
	return apns2.NewTokenClient(authToken).Development()
}

// Subscribe wires the worker to the subjects it handles. It returns once
// the subscriptions are registered; delivery happens on NATS callbacks.
func (w *Worker) Subscribe() error {
	if _, err := w.natsConn.Subscribe("user.registered", w.handleUserRegistered); err != nil {
		return err
	}

	if _, err := w.natsConn.Subscribe("achievement.logged", w.handleAchievementLogged); err != nil {
		return err
	}

	return nil
}

func (w *Worker) handleUserRegistered(msg *nats.Msg) {
	var event events.UserRegisteredEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("Error unmarshalling user.registered event: %v", err)
		return
	}

	log.Printf("Event received: user %s registered.", event.UserID)

	message := fmt.Sprintf("Welcome, %s! Your account is ready.", event.Nickname)
	w.deliver(event.UserID, message)
}

func (w *Worker) handleAchievementLogged(msg *nats.Msg) {
	var event events.AchievementLoggedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("Error unmarshalling achievement.logged event: %v", err)
		return
	}

	log.Printf("Event received: user %s logged achievement %d.", event.UserID, event.AchievementID)

	message := fmt.Sprintf("Achievement logged: %s", event.Title)
	w.deliver(event.UserID, message)
}

func (w *Worker) deliver(userID uuid.UUID, message string) {
	ctx := context.Background()

	notice := &model.Notice{
		UserID:  userID,
		Message: message,
	}

	if _, err := w.noticeRepo.Create(ctx, notice); err != nil {
		log.Printf("Failed to create notice for user %s: %v", userID, err)
		return
	}

	tokens, err := w.userRepo.GetDeviceTokens(ctx, userID)
	if err != nil {
		log.Printf("Failed to retrieve device tokens for user %s: %v", userID, err)
		return
	}

	if len(tokens) == 0 {
		return
	}

	payload := fmt.Sprintf(`{"aps":{"alert":%q,"sound":"default"}}`, message)

	for _, deviceToken := range tokens {
		notification := &apns2.Notification{
			DeviceToken: deviceToken,
			Topic:       os.Getenv("APNS_TOPIC"),
			Payload:     []byte(payload),
		}

		if w.apnsClient == nil {
			log.Printf("SUCCESS (mock): push notification sent to device %s", deviceToken)
			continue
		}

		res, err := w.apnsClient.Push(notification)
		if err != nil {
			log.Printf("FAILED to send notification: %v", err)
		} else if res.Sent() {
			log.Printf("SUCCESS: notification sent with APNS ID: %s", res.ApnsID)
		} else {
			log.Printf("FAILED: notification not sent. Reason: %s", res.Reason)
		}
	}
}
