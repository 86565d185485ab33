package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/realtime"
	"github.com/repairup/repairup-app/utils"
)

var (
	// ErrNoTechnicianAvailable is returned when no technician could be claimed.
	// The booking stays pending; the assignment monitor retries it later.
	ErrNoTechnicianAvailable = errors.New("no technician available")

	// ErrBookingUpdateFailed is returned when the booking row could not be
	// updated after a technician was claimed. The booking itself and any
	// notifications written before the failure remain persisted.
	ErrBookingUpdateFailed = errors.New("booking update failed")
)

// SideEffect records the outcome of one non-critical write in the dispatch
// flow. Failures here never abort the flow, but callers and tests can see them.
type SideEffect struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type DispatchResult struct {
	Assigned    bool               `json:"assigned"`
	Technician  *models.Technician `json:"technician,omitempty"`
	SideEffects []SideEffect       `json:"side_effects"`
}

func (r *DispatchResult) record(name string, err error) {
	effect := SideEffect{Name: name, OK: err == nil}
	if err != nil {
		effect.Error = err.Error()
		utils.ErrorLogger.Printf("dispatch: %s failed: %v", name, err)
	}
	r.SideEffects = append(r.SideEffects, effect)
}

// DispatchService matches a freshly created booking with an available
// technician and writes the notification rows for both parties.
type DispatchService struct {
	DB   *gorm.DB
	Push *PushService
}

func NewDispatchService(db *gorm.DB) *DispatchService {
	return &DispatchService{DB: db}
}

// Dispatch runs the full assignment flow for a booking that is already
// persisted with status pending. The steps are sequential and there is no
// rollback: a failure after the booking insert leaves the earlier writes in
// place.
func (ds *DispatchService) Dispatch(booking *models.Booking) (*DispatchResult, error) {
	result := &DispatchResult{}

	// Confirmation notification first, before any technician lookup.
	result.record("customer_confirmation", ds.notifyUser(booking.UserID, booking.ID,
		fmt.Sprintf("Your service request for %s has been registered successfully. We are assigning a technician.", booking.Appliance)))

	return ds.assign(booking, result)
}

// Retry attempts assignment again for a booking that stayed pending. The
// confirmation notification was already sent on the first dispatch and is not
// repeated.
func (ds *DispatchService) Retry(booking *models.Booking) (*DispatchResult, error) {
	return ds.assign(booking, &DispatchResult{})
}

func (ds *DispatchService) assign(booking *models.Booking, result *DispatchResult) (*DispatchResult, error) {
	tech, err := ds.claimTechnician()
	if err != nil {
		utils.ErrorLogger.Printf("dispatch: technician lookup failed for booking %d: %v", booking.ID, err)
		return result, ErrNoTechnicianAvailable
	}
	if tech == nil {
		utils.InfoLogger.Printf("dispatch: no technician available for booking %d, left pending", booking.ID)
		return result, ErrNoTechnicianAvailable
	}

	if err := ds.DB.Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Updates(map[string]interface{}{
			"technician_id": tech.ID,
			"status":        models.BookingConfirmed,
		}).Error; err != nil {
		// Release the claim so the technician is not stranded busy with
		// no booking attached. Best effort only.
		result.record("technician_release", ds.releaseTechnician(tech.ID))
		return result, fmt.Errorf("%w: %v", ErrBookingUpdateFailed, err)
	}

	booking.TechnicianID = &tech.ID
	booking.Status = models.BookingConfirmed
	result.Assigned = true
	result.Technician = tech

	realtime.BroadcastBookingUpdate(*booking)
	realtime.BroadcastTechnicianUpdate(*tech)

	result.record("customer_assignment", ds.notifyUser(booking.UserID, booking.ID,
		fmt.Sprintf("Your order for %s has been accepted by %s. The technician will arrive in your selected time slot: %s.",
			booking.Appliance, tech.FullName, booking.TimeSlot())))
	result.record("technician_assignment", ds.notifyTechnician(tech.ID, booking.ID,
		fmt.Sprintf("You have a new booking for %s at %s.", booking.Appliance, booking.TimeSlot())))

	utils.InfoLogger.Printf("dispatch: booking %d assigned to technician %d (%s)", booking.ID, tech.ID, tech.FullName)

	return result, nil
}

// claimTechnician picks the first available technician and flips them to busy
// with a conditional update, so two concurrent dispatches can never claim the
// same row: only the update that still sees status=available wins.
func (ds *DispatchService) claimTechnician() (*models.Technician, error) {
	var candidates []models.Technician
	if err := ds.DB.Where("status = ?", models.TechnicianAvailable).
		Order("id ASC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	for i := range candidates {
		res := ds.DB.Model(&models.Technician{}).
			Where("id = ? AND status = ?", candidates[i].ID, models.TechnicianAvailable).
			Update("status", models.TechnicianBusy)
		if res.Error != nil {
			utils.ErrorLogger.Printf("dispatch: claim on technician %d failed: %v", candidates[i].ID, res.Error)
			continue
		}
		if res.RowsAffected == 1 {
			candidates[i].Status = models.TechnicianBusy
			return &candidates[i], nil
		}
		// Someone else claimed this one between the read and the update;
		// move on to the next candidate.
	}

	return nil, nil
}

func (ds *DispatchService) releaseTechnician(techID uint) error {
	return ds.DB.Model(&models.Technician{}).
		Where("id = ? AND status = ?", techID, models.TechnicianBusy).
		Update("status", models.TechnicianAvailable).Error
}

func (ds *DispatchService) notifyUser(userID, bookingID uint, message string) error {
	notif := models.Notification{
		UserID:    &userID,
		BookingID: &bookingID,
		Message:   message,
		Type:      "in-app",
	}
	if err := ds.DB.Create(&notif).Error; err != nil {
		return err
	}
	realtime.BroadcastNotification(notif)
	if ds.Push != nil {
		ds.Push.Dispatch(notif.ID)
	}
	return nil
}

func (ds *DispatchService) notifyTechnician(techID, bookingID uint, message string) error {
	notif := models.Notification{
		TechnicianID: &techID,
		BookingID:    &bookingID,
		Message:      message,
		Type:         "in-app",
	}
	if err := ds.DB.Create(&notif).Error; err != nil {
		return err
	}
	realtime.BroadcastNotification(notif)
	return nil
}
