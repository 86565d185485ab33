package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/realtime"
	"github.com/repairup/repairup-app/services"
	"github.com/repairup/repairup-app/utils"
)

type NotificationController struct {
	DB   *gorm.DB
	Push *services.PushService
}

func NewNotificationController(db *gorm.DB, push *services.PushService) *NotificationController {
	return &NotificationController{DB: db, Push: push}
}

// GetMyNotifications lists the caller's notifications, newest first.
// Technician accounts see the notifications addressed to their technician row.
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	query := nc.DB.Order("created_at DESC")

	role, _ := c.Get("role")
	if role == models.RoleTechnician {
		var tech models.Technician
		if err := nc.DB.Where("user_id = ?", userID).First(&tech).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("no technician record for this account"))
			return
		}
		query = query.Where("technician_id = ?", tech.ID)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	var notifs []models.Notification
	if err := query.Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My notifications", notifs)
}

// GetAllNotifications -> admin listing
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	var notifs []models.Notification
	if err := nc.DB.Order("created_at DESC").Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifs)
}

// CreateNotification -> admin message to a specific user or technician
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	type reqBody struct {
		UserID       *uint  `json:"user_id"`
		TechnicianID *uint  `json:"technician_id"`
		BookingID    *uint  `json:"booking_id"`
		Message      string `json:"message" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notif := models.Notification{
		UserID:       body.UserID,
		TechnicianID: body.TechnicianID,
		BookingID:    body.BookingID,
		Message:      body.Message,
		Type:         "in-app",
	}

	if err := nc.DB.Create(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastNotification(notif)
	if nc.Push != nil {
		nc.Push.Dispatch(notif.ID)
	}

	utils.InfoLogger.Printf("Notification created: %v", notif.Message)
	utils.RespondJSON(c, http.StatusCreated, "Notification created", notif)
}

// GetNotificationByID
func (nc *NotificationController) GetNotificationByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("notif_id"))

	var notif models.Notification
	if err := nc.DB.First(&notif, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification detail", notif)
}

// DeleteNotification
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("notif_id"))

	if err := nc.DB.Delete(&models.Notification{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
