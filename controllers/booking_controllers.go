package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/realtime"
	"github.com/repairup/repairup-app/services"
	"github.com/repairup/repairup-app/utils"
)

type BookingController struct {
	DB       *gorm.DB
	Dispatch *services.DispatchService
}

func NewBookingController(db *gorm.DB, dispatch *services.DispatchService) *BookingController {
	return &BookingController{DB: db, Dispatch: dispatch}
}

// CreateBooking persists the service request and immediately runs the
// assignment flow. The booking insert is the only critical write: if it fails
// nothing else happens. A failed assignment still returns 201 with the booking
// left pending.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type request struct {
		CustomerName  string  `json:"customer_name" binding:"required"`
		Email         string  `json:"email" binding:"omitempty,email"`
		Phone         string  `json:"phone" binding:"required"`
		Address       string  `json:"address" binding:"required"`
		Location      string  `json:"location"`
		Category      string  `json:"category" binding:"required"`
		Appliance     string  `json:"appliance" binding:"required"`
		Problem       string  `json:"problem" binding:"required"`
		PreferredDate *string `json:"preferred_date"`
		PreferredTime *string `json:"preferred_time"`
		Urgency       string  `json:"urgency"`
		ServiceID     *uint   `json:"service_id"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking := models.Booking{
		UserID:        userID,
		CustomerName:  req.CustomerName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Location:      req.Location,
		Category:      req.Category,
		Appliance:     req.Appliance,
		Problem:       req.Problem,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Urgency:       req.Urgency,
		ServiceID:     req.ServiceID,
		Priority:      priorityFromUrgency(req.Urgency),
		Status:        models.BookingPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := bc.DB.Create(&booking).Error; err != nil {
		utils.ErrorLogger.Printf("creating booking for user %d: %v", userID, err)
		utils.RespondError(c, http.StatusInternalServerError, fmt.Errorf("could not create booking: %v", err))
		return
	}

	result, err := bc.Dispatch.Dispatch(&booking)
	switch {
	case errors.Is(err, services.ErrNoTechnicianAvailable):
		utils.RespondJSON(c, http.StatusCreated, "Booking created; all technicians are currently busy", gin.H{
			"booking":    booking,
			"assignment": result,
		})
		return
	case err != nil:
		// Booking and any earlier notifications stay persisted; no rollback.
		// The partial result shows which side effects still went through.
		utils.ErrorLogger.Printf("assignment for booking %d: %v", booking.ID, err)
		utils.RespondJSON(c, http.StatusInternalServerError,
			fmt.Sprintf("booking %d created but assignment failed: %v", booking.ID, err), gin.H{
				"booking":    booking,
				"assignment": result,
			})
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Booking created", gin.H{
		"booking":    booking,
		"assignment": result,
	})
}

// GetMyBookings lists the caller's bookings, newest first.
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var bookings []models.Booking
	if err := bc.DB.Preload("Technician").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My bookings", bookings)
}

// GetBookingByID returns one booking; owners see their own, admins see all.
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("booking_id"))

	var booking models.Booking
	if err := bc.DB.Preload("Technician").Preload("Service").First(&booking, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	userID, _ := currentUserID(c)
	role, _ := c.Get("role")
	if booking.UserID != userID && role != models.RoleAdmin && role != models.RoleManager {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your booking"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// CancelBooking lets the owner cancel while the work has not started. An
// assigned technician goes back to available.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	id, _ := strconv.Atoi(c.Param("booking_id"))

	var booking models.Booking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if booking.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your booking"))
		return
	}
	if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("booking in status %q cannot be cancelled", booking.Status))
		return
	}

	booking.Status = models.BookingCancelled
	if err := bc.DB.Save(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if booking.TechnicianID != nil {
		bc.releaseTechnician(*booking.TechnicianID, false)
	}

	realtime.BroadcastBookingUpdate(booking)
	utils.RespondJSON(c, http.StatusOK, "Booking cancelled", booking)
}

// GetAllBookings -> admin listing, optional ?status= filter.
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	query := bc.DB.Preload("Technician")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All bookings", bookings)
}

// UpdateBookingStatus drives the lifecycle after assignment:
// confirmed -> in-progress -> completed. Completing a booking releases the
// technician and bumps their job counter.
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("booking_id"))

	var req struct {
		Status    string   `json:"status" binding:"required"`
		Notes     *string  `json:"notes"`
		TotalCost *float64 `json:"total_cost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := bc.DB.First(&booking, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if !validTransition(booking.Status, req.Status) {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("cannot move booking from %q to %q", booking.Status, req.Status))
		return
	}

	now := time.Now()
	booking.Status = req.Status
	switch req.Status {
	case models.BookingInProgress:
		booking.ActualStart = &now
	case models.BookingCompleted:
		booking.ActualEnd = &now
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}
	if req.TotalCost != nil {
		booking.TotalCost = *req.TotalCost
	}

	if err := bc.DB.Save(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if booking.TechnicianID != nil &&
		(req.Status == models.BookingCompleted || req.Status == models.BookingCancelled) {
		bc.releaseTechnician(*booking.TechnicianID, req.Status == models.BookingCompleted)
	}

	realtime.BroadcastBookingUpdate(booking)
	utils.RespondJSON(c, http.StatusOK, "Booking updated", booking)
}

// releaseTechnician flips a busy technician back to available once their
// booking finishes; completed jobs also bump the counter. Best effort.
func (bc *BookingController) releaseTechnician(techID uint, completed bool) {
	updates := map[string]interface{}{"status": models.TechnicianAvailable}
	if completed {
		updates["total_jobs"] = gorm.Expr("total_jobs + 1")
	}
	if err := bc.DB.Model(&models.Technician{}).
		Where("id = ? AND status = ?", techID, models.TechnicianBusy).
		Updates(updates).Error; err != nil {
		utils.ErrorLogger.Printf("releasing technician %d: %v", techID, err)
	}
}

func validTransition(from, to string) bool {
	switch from {
	case models.BookingPending:
		return to == models.BookingConfirmed || to == models.BookingCancelled
	case models.BookingConfirmed:
		return to == models.BookingInProgress || to == models.BookingCancelled
	case models.BookingInProgress:
		return to == models.BookingCompleted || to == models.BookingCancelled
	}
	return false
}

func priorityFromUrgency(urgency string) string {
	switch urgency {
	case "emergency":
		return models.PriorityUrgent
	case "urgent":
		return models.PriorityHigh
	case "flexible":
		return models.PriorityLow
	default:
		return models.PriorityMedium
	}
}
