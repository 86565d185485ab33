package services

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/utils"
)

// PushSender abstracts the webpush call so tests can substitute a fake.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// PushService fan-outs stored notifications to browser push subscriptions
// through a small worker pool. Delivery is best effort: a failed push is
// logged and the in-app notification row still stands.
type PushService struct {
	size    int
	jobs    chan uint
	db      *gorm.DB
	options *webpush.Options
	sender  PushSender
}

// NewPushService reads the VAPID keys from the environment. It returns nil
// when the keys are not configured, which disables push delivery entirely.
func NewPushService(db *gorm.DB, size int) *PushService {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	privateKey := os.Getenv("VAPID_PRIVATE_KEY")
	if publicKey == "" || privateKey == "" {
		utils.InfoLogger.Println("push: VAPID keys not set, web push disabled")
		return nil
	}

	subject := os.Getenv("VAPID_SUBJECT")
	if subject == "" {
		subject = "mailto:support@repairup.example"
	}
	if size <= 0 {
		size = 2
	}

	return &PushService{
		size: size,
		jobs: make(chan uint, 64),
		db:   db,
		options: &webpush.Options{
			Subscriber:      subject,
			VAPIDPublicKey:  publicKey,
			VAPIDPrivateKey: privateKey,
			TTL:             3600,
		},
		sender: &WebPushSender{},
	}
}

// VAPIDPublicKey exposes the public key for subscription registration.
func (ps *PushService) VAPIDPublicKey() string {
	return ps.options.VAPIDPublicKey
}

// Start launches the worker goroutines.
func (ps *PushService) Start(ctx context.Context) {
	for i := 0; i < ps.size; i++ {
		go ps.worker(ctx, i)
	}
}

func (ps *PushService) worker(ctx context.Context, id int) {
	for {
		select {
		case notifID := <-ps.jobs:
			ps.sendForNotification(ctx, notifID)
		case <-ctx.Done():
			utils.InfoLogger.Printf("push: worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a notification for push delivery without blocking the
// request path. When the queue is full the push is skipped.
func (ps *PushService) Dispatch(notifID uint) {
	select {
	case ps.jobs <- notifID:
	default:
		utils.ErrorLogger.Printf("push: queue full, dropping notification %d", notifID)
	}
}

type pushPayload struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	BookingID *uint  `json:"booking_id,omitempty"`
}

func (ps *PushService) sendForNotification(ctx context.Context, notifID uint) {
	var notif models.Notification
	if err := ps.db.WithContext(ctx).First(&notif, notifID).Error; err != nil {
		utils.ErrorLogger.Printf("push: notification %d not found: %v", notifID, err)
		return
	}
	if notif.UserID == nil {
		// Technician-only notifications have no browser subscription path.
		return
	}

	var subscriptions []models.PushSubscription
	if err := ps.db.WithContext(ctx).
		Where("user_id = ?", *notif.UserID).
		Find(&subscriptions).Error; err != nil {
		utils.ErrorLogger.Printf("push: fetching subscriptions for user %d: %v", *notif.UserID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{
		Title:     "RepairUp",
		Body:      notif.Message,
		BookingID: notif.BookingID,
	})
	if err != nil {
		utils.ErrorLogger.Printf("push: marshal payload: %v", err)
		return
	}

	for _, sub := range subscriptions {
		resp, err := ps.sender.Send(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, ps.options)
		if err != nil {
			utils.ErrorLogger.Printf("push: send to %s: %v", sub.Endpoint, err)
			continue
		}
		if resp != nil {
			resp.Body.Close()
			// Gone subscriptions are pruned so we stop retrying dead endpoints.
			if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
				if err := ps.db.Delete(&models.PushSubscription{}, "endpoint = ?", sub.Endpoint).Error; err != nil {
					utils.ErrorLogger.Printf("push: pruning subscription: %v", err)
				}
			}
		}
	}
}
