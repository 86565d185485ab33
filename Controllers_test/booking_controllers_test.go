package Controllers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/controllers"
	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/services"
	"github.com/repairup/repairup-app/utils"
)

func setupTestDBForBookings(t *testing.T) *gorm.DB {
	// A named in-memory database keeps gorm's pooled connections on the same
	// store while isolating each test.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Technician{},
		&models.Booking{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatal(err)
	}

	user := models.User{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Password: "secret",
		Role:     models.RoleCustomer,
	}
	db.Create(&user)
	return db
}

// fakeAuth stands in for the JWT middleware in tests.
func fakeAuth(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func setupBookingRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	bookingCtrl := controllers.NewBookingController(db, services.NewDispatchService(db))
	router.Use(fakeAuth(userID, role))
	router.POST("/bookings", bookingCtrl.CreateBooking)
	router.GET("/bookings", bookingCtrl.GetMyBookings)
	router.PATCH("/bookings/:booking_id/cancel", bookingCtrl.CancelBooking)
	router.PATCH("/bookings/:booking_id/status", bookingCtrl.UpdateBookingStatus)
	return router
}

func postBooking(t *testing.T, router *gin.Engine) *httptest.ResponseRecorder {
	payload := map[string]interface{}{
		"customer_name":  "Asha Rao",
		"phone":          "+91 98000 00000",
		"address":        "12 MG Road, Bengaluru",
		"category":       "home-appliances",
		"appliance":      "AC",
		"problem":        "Not cooling at all",
		"preferred_date": "2026-09-05",
		"preferred_time": "10:00 AM - 12:00 PM",
	}
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", "/bookings", bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBookingNoTechnicianAvailable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBookings(t)
	router := setupBookingRouter(db, 1, models.RoleCustomer)

	w := postBooking(t, router)
	assert.Equal(t, http.StatusCreated, w.Code)

	var booking models.Booking
	assert.NoError(t, db.First(&booking).Error)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Nil(t, booking.TechnicianID)

	// "request received" notification was still written
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", 1).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateBookingAssignsAvailableTechnician(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBookings(t)

	tech := models.Technician{
		FullName: "Ravi Kumar",
		Phone:    "+91 98111 11111",
		Status:   models.TechnicianAvailable,
	}
	db.Create(&tech)
	// An offline technician must never be picked.
	db.Create(&models.Technician{
		FullName: "Offline Guy",
		Phone:    "+91 98222 22222",
		Status:   models.TechnicianOffline,
	})

	router := setupBookingRouter(db, 1, models.RoleCustomer)
	w := postBooking(t, router)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assignment := data["assignment"].(map[string]interface{})
	assert.Equal(t, true, assignment["assigned"])

	var booking models.Booking
	assert.NoError(t, db.First(&booking).Error)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	if assert.NotNil(t, booking.TechnicianID) {
		assert.Equal(t, tech.ID, *booking.TechnicianID)
	}

	var updated models.Technician
	assert.NoError(t, db.First(&updated, tech.ID).Error)
	assert.Equal(t, models.TechnicianBusy, updated.Status)

	// confirmation + customer assignment + technician assignment
	var userNotifs, techNotifs int64
	db.Model(&models.Notification{}).Where("user_id = ?", 1).Count(&userNotifs)
	db.Model(&models.Notification{}).Where("technician_id = ?", tech.ID).Count(&techNotifs)
	assert.Equal(t, int64(2), userNotifs)
	assert.Equal(t, int64(1), techNotifs)

	var assignNotif models.Notification
	db.Where("technician_id = ?", tech.ID).First(&assignNotif)
	assert.Contains(t, assignNotif.Message, "You have a new booking for AC")
}

// Assignment can fail after the booking insert. The 500 body still carries the
// partial result so callers can see which side effects went through.
func TestCreateBookingAssignmentFailureReturnsPartialResult(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBookings(t)

	tech := models.Technician{
		FullName: "Ravi Kumar",
		Phone:    "+91 98111 11111",
		Status:   models.TechnicianAvailable,
	}
	db.Create(&tech)

	// Fail every booking update while inserts and technician updates keep
	// working, so the flow breaks between the claim and the booking write.
	err := db.Callback().Update().Before("gorm:update").Register("booking_update_outage", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Model.(*models.Booking); ok {
			tx.AddError(errors.New("storage outage"))
		}
	})
	assert.NoError(t, err)

	router := setupBookingRouter(db, 1, models.RoleCustomer)
	w := postBooking(t, router)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assignment := data["assignment"].(map[string]interface{})
	assert.Equal(t, false, assignment["assigned"])

	effects := assignment["side_effects"].([]interface{})
	if assert.Len(t, effects, 2) {
		confirmation := effects[0].(map[string]interface{})
		release := effects[1].(map[string]interface{})
		assert.Equal(t, "customer_confirmation", confirmation["name"])
		assert.Equal(t, "technician_release", release["name"])
		assert.Equal(t, true, release["ok"])
	}

	// The claimed technician was released and the booking stayed pending.
	var fresh models.Technician
	db.First(&fresh, tech.ID)
	assert.Equal(t, models.TechnicianAvailable, fresh.Status)

	var booking models.Booking
	assert.NoError(t, db.First(&booking).Error)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Nil(t, booking.TechnicianID)
}

// Submitting the same logical request twice creates two bookings. There is no
// idempotency key; this documents the gap rather than blessing it.
func TestCreateBookingIsNotIdempotent(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBookings(t)
	router := setupBookingRouter(db, 1, models.RoleCustomer)

	assert.Equal(t, http.StatusCreated, postBooking(t, router).Code)
	assert.Equal(t, http.StatusCreated, postBooking(t, router).Code)

	var count int64
	db.Model(&models.Booking{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCancelBookingReleasesTechnician(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBookings(t)

	tech := models.Technician{
		FullName: "Ravi Kumar",
		Phone:    "+91 98111 11111",
		Status:   models.TechnicianAvailable,
	}
	db.Create(&tech)

	router := setupBookingRouter(db, 1, models.RoleCustomer)
	assert.Equal(t, http.StatusCreated, postBooking(t, router).Code)

	var booking models.Booking
	db.First(&booking)

	req, _ := http.NewRequest("PATCH", "/bookings/1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	db.First(&booking)
	assert.Equal(t, models.BookingCancelled, booking.Status)

	var updated models.Technician
	db.First(&updated, tech.ID)
	assert.Equal(t, models.TechnicianAvailable, updated.Status)
}

func TestCompleteBookingBumpsJobCounter(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForBookings(t)

	tech := models.Technician{
		FullName: "Ravi Kumar",
		Phone:    "+91 98111 11111",
		Status:   models.TechnicianAvailable,
	}
	db.Create(&tech)

	router := setupBookingRouter(db, 1, models.RoleAdmin)
	assert.Equal(t, http.StatusCreated, postBooking(t, router).Code)

	for _, status := range []string{models.BookingInProgress, models.BookingCompleted} {
		body, _ := json.Marshal(map[string]string{"status": status})
		req, _ := http.NewRequest("PATCH", "/bookings/1/status", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	var updated models.Technician
	db.First(&updated, tech.ID)
	assert.Equal(t, models.TechnicianAvailable, updated.Status)
	assert.Equal(t, 1, updated.TotalJobs)

	// completed bookings cannot be cancelled afterwards
	req, _ := http.NewRequest("PATCH", "/bookings/1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
