package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/utils"
)

// AssignmentMonitor periodically re-runs dispatch for bookings that are still
// pending without a technician, picking them up as technicians free up.
type AssignmentMonitor struct {
	DB       *gorm.DB
	Dispatch *DispatchService
	StopChan chan struct{}
	Interval time.Duration
}

func NewAssignmentMonitor(db *gorm.DB, dispatch *DispatchService) *AssignmentMonitor {
	return &AssignmentMonitor{
		DB:       db,
		Dispatch: dispatch,
		StopChan: make(chan struct{}),
		Interval: 30 * time.Second,
	}
}

func (am *AssignmentMonitor) Start() {
	go func() {
		ticker := time.NewTicker(am.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				am.checkPending()
			case <-am.StopChan:
				return
			}
		}
	}()
}

func (am *AssignmentMonitor) Stop() {
	close(am.StopChan)
}

func (am *AssignmentMonitor) checkPending() {
	var bookings []models.Booking
	if err := am.DB.
		Where("status = ? AND technician_id IS NULL", models.BookingPending).
		Order("created_at ASC").
		Limit(10).
		Find(&bookings).Error; err != nil {
		utils.ErrorLogger.Printf("assignment monitor: fetching pending bookings: %v", err)
		return
	}

	for i := range bookings {
		_, err := am.Dispatch.Retry(&bookings[i])
		if errors.Is(err, ErrNoTechnicianAvailable) {
			// Everyone is busy; the remaining bookings would fail the same way.
			return
		}
		if err != nil {
			utils.ErrorLogger.Printf("assignment monitor: dispatch for booking %d: %v", bookings[i].ID, err)
		}
	}
}
