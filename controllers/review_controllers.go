package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/utils"
)

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// CreateReview lets the booking owner rate a completed job. One review per
// booking; the technician's average rating is recomputed afterwards.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		BookingID  uint   `json:"booking_id" binding:"required"`
		Rating     int    `json:"rating" binding:"required,min=1,max=5"`
		ReviewText string `json:"review_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := rc.DB.First(&booking, req.BookingID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if booking.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your booking"))
		return
	}
	if booking.Status != models.BookingCompleted {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("booking in status %q cannot be reviewed", booking.Status))
		return
	}

	review := models.Review{
		BookingID:    req.BookingID,
		UserID:       userID,
		TechnicianID: booking.TechnicianID,
		Rating:       req.Rating,
		ReviewText:   req.ReviewText,
	}
	if err := rc.DB.Create(&review).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("booking already reviewed"))
		return
	}

	if booking.TechnicianID != nil {
		rc.refreshRating(*booking.TechnicianID)
	}

	utils.RespondJSON(c, http.StatusCreated, "Review submitted", review)
}

// GetTechnicianReviews -> public listing for a technician profile.
func (rc *ReviewController) GetTechnicianReviews(c *gin.Context) {
	techID, _ := strconv.Atoi(c.Param("tech_id"))

	var reviews []models.Review
	if err := rc.DB.Where("technician_id = ?", techID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Technician reviews", reviews)
}

func (rc *ReviewController) refreshRating(techID uint) {
	var avg float64
	if err := rc.DB.Model(&models.Review{}).
		Where("technician_id = ?", techID).
		Select("AVG(rating)").
		Scan(&avg).Error; err != nil {
		utils.ErrorLogger.Printf("refreshing rating for technician %d: %v", techID, err)
		return
	}
	if err := rc.DB.Model(&models.Technician{}).
		Where("id = ?", techID).
		Update("rating", avg).Error; err != nil {
		utils.ErrorLogger.Printf("saving rating for technician %d: %v", techID, err)
	}
}
