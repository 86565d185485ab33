package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/utils"
)

type fakeSender struct {
	mu       sync.Mutex
	status   int
	payloads []string
	targets  []string
}

func (f *fakeSender) Send(payload []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, string(payload))
	f.targets = append(f.targets, sub.Endpoint)
	status := f.status
	if status == 0 {
		status = http.StatusCreated
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func setupPushDB(t *testing.T) *gorm.DB {
	utils.InitLogger()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Notification{}, &models.PushSubscription{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func newPushServiceForTest(db *gorm.DB, sender PushSender) *PushService {
	return &PushService{
		size: 1,
		jobs: make(chan uint, 4),
		db:   db,
		options: &webpush.Options{
			Subscriber:      "mailto:support@repairup.example",
			VAPIDPublicKey:  "test-public",
			VAPIDPrivateKey: "test-private",
			TTL:             3600,
		},
		sender: sender,
	}
}

func TestPushSendsToEverySubscription(t *testing.T) {
	db := setupPushDB(t)
	sender := &fakeSender{}
	ps := newPushServiceForTest(db, sender)

	userID := uint(5)
	bookingID := uint(9)
	notif := models.Notification{
		UserID:    &userID,
		BookingID: &bookingID,
		Message:   "Your booking has been confirmed",
	}
	db.Create(&notif)
	db.Create(&models.PushSubscription{Endpoint: "https://push.example/a", UserID: userID, P256dh: "p", Auth: "a"})
	db.Create(&models.PushSubscription{Endpoint: "https://push.example/b", UserID: userID, P256dh: "p", Auth: "a"})
	// Another user's subscription must not receive anything.
	db.Create(&models.PushSubscription{Endpoint: "https://push.example/c", UserID: 99, P256dh: "p", Auth: "a"})

	ps.sendForNotification(context.Background(), notif.ID)

	assert.Len(t, sender.targets, 2)
	assert.NotContains(t, sender.targets, "https://push.example/c")
	assert.Contains(t, sender.payloads[0], "Your booking has been confirmed")
	assert.Contains(t, sender.payloads[0], `"booking_id":9`)
}

func TestPushSkipsTechnicianOnlyNotifications(t *testing.T) {
	db := setupPushDB(t)
	sender := &fakeSender{}
	ps := newPushServiceForTest(db, sender)

	techID := uint(3)
	notif := models.Notification{TechnicianID: &techID, Message: "You have a new booking"}
	db.Create(&notif)

	ps.sendForNotification(context.Background(), notif.ID)
	assert.Empty(t, sender.targets)
}

func TestPushPrunesGoneSubscriptions(t *testing.T) {
	db := setupPushDB(t)
	sender := &fakeSender{status: http.StatusGone}
	ps := newPushServiceForTest(db, sender)

	userID := uint(5)
	notif := models.Notification{UserID: &userID, Message: "hello"}
	db.Create(&notif)
	db.Create(&models.PushSubscription{Endpoint: "https://push.example/dead", UserID: userID, P256dh: "p", Auth: "a"})

	ps.sendForNotification(context.Background(), notif.ID)

	var count int64
	db.Model(&models.PushSubscription{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDispatchDropsWhenQueueFull(t *testing.T) {
	utils.InitLogger()
	ps := &PushService{jobs: make(chan uint, 1)}

	ps.Dispatch(1)
	ps.Dispatch(2) // queue full, must not block

	assert.Equal(t, uint(1), <-ps.jobs)
	select {
	case id := <-ps.jobs:
		t.Fatalf("unexpected queued notification %d", id)
	default:
	}
}
