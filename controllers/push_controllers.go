package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/services"
	"github.com/repairup/repairup-app/utils"
)

type PushController struct {
	DB   *gorm.DB
	Push *services.PushService
}

func NewPushController(db *gorm.DB, push *services.PushService) *PushController {
	return &PushController{DB: db, Push: push}
}

// GetVAPIDPublicKey -> the browser needs this to subscribe.
func (pc *PushController) GetVAPIDPublicKey(c *gin.Context) {
	if pc.Push == nil {
		utils.RespondError(c, http.StatusServiceUnavailable, errors.New("web push is not configured"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "VAPID public key", gin.H{
		"public_key": pc.Push.VAPIDPublicKey(),
	})
}

// Subscribe stores (or refreshes) a push subscription for the caller.
func (pc *PushController) Subscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		Endpoint string `json:"endpoint" binding:"required,url"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sub := models.PushSubscription{
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
		UserID:   userID,
	}

	// Re-subscribing with the same endpoint just refreshes the keys.
	if err := pc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id"}),
	}).Create(&sub).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Subscribed", nil)
}

// Unsubscribe removes a stored subscription owned by the caller.
func (pc *PushController) Unsubscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.DB.Where("endpoint = ? AND user_id = ?", req.Endpoint, userID).
		Delete(&models.PushSubscription{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unsubscribed", nil)
}
