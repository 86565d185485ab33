package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repairup/repairup-app/models"
)

func TestMonitorAssignsPendingBookingWhenTechnicianFreesUp(t *testing.T) {
	db := setupDispatchDB(t)
	ds := NewDispatchService(db)
	monitor := NewAssignmentMonitor(db, ds)

	booking := newPendingBooking(db, 7)

	// Nobody available yet: the sweep leaves the booking alone.
	monitor.checkPending()
	var fresh models.Booking
	db.First(&fresh, booking.ID)
	assert.Equal(t, models.BookingPending, fresh.Status)

	tech := models.Technician{FullName: "Ravi Kumar", Phone: "1", Status: models.TechnicianAvailable}
	db.Create(&tech)

	monitor.checkPending()
	db.First(&fresh, booking.ID)
	assert.Equal(t, models.BookingConfirmed, fresh.Status)
	if assert.NotNil(t, fresh.TechnicianID) {
		assert.Equal(t, tech.ID, *fresh.TechnicianID)
	}
}

// The monitor goes through Retry, so a booking picked up later must not get a
// second "request received" notification.
func TestMonitorDoesNotRepeatConfirmationNotification(t *testing.T) {
	db := setupDispatchDB(t)
	ds := NewDispatchService(db)
	monitor := NewAssignmentMonitor(db, ds)

	booking := newPendingBooking(db, 7)
	_, err := ds.Dispatch(booking)
	assert.ErrorIs(t, err, ErrNoTechnicianAvailable)

	db.Create(&models.Technician{FullName: "Ravi Kumar", Phone: "1", Status: models.TechnicianAvailable})
	monitor.checkPending()

	var messages []models.Notification
	db.Where("user_id = ?", 7).Order("id ASC").Find(&messages)
	if assert.Len(t, messages, 2) {
		assert.Contains(t, messages[0].Message, "has been registered successfully")
		assert.Contains(t, messages[1].Message, "has been accepted by")
	}
}

func TestMonitorProcessesOldestFirst(t *testing.T) {
	db := setupDispatchDB(t)
	ds := NewDispatchService(db)
	monitor := NewAssignmentMonitor(db, ds)

	first := newPendingBooking(db, 1)
	second := newPendingBooking(db, 2)

	// Only one technician: the older booking wins, the newer stays pending.
	db.Create(&models.Technician{FullName: "Ravi Kumar", Phone: "1", Status: models.TechnicianAvailable})
	monitor.checkPending()

	var a, b models.Booking
	db.First(&a, first.ID)
	db.First(&b, second.ID)
	assert.Equal(t, models.BookingConfirmed, a.Status)
	assert.Equal(t, models.BookingPending, b.Status)
}
