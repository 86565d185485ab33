package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/config"
	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/utils"
)

const ewasteUploadDir = "public/uploads/ewaste_images"

type EwasteController struct {
	DB *gorm.DB
}

func NewEwasteController(db *gorm.DB) *EwasteController {
	return &EwasteController{DB: db}
}

// CreateRequest accepts a multipart form: title, description and a single
// image. The image is stored under the public uploads directory and the row
// references its public URL.
func (ec *EwasteController) CreateRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	title := c.PostForm("title")
	if title == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("title is required"))
		return
	}
	description := c.PostForm("description")

	file, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("image is required"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unsupported image type %q", ext))
		return
	}

	if err := os.MkdirAll(ewasteUploadDir, 0o755); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(ewasteUploadDir, filename)); err != nil {
		utils.ErrorLogger.Printf("saving e-waste image: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("could not store image"))
		return
	}

	imageURL := fmt.Sprintf("%s/uploads/ewaste_images/%s", config.BaseURL(), filename)

	request := models.EwasteRequest{
		UserID:      userID,
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		Status:      models.EwastePending,
	}
	if err := ec.DB.Create(&request).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("E-waste request %d submitted by user %d", request.ID, userID)
	utils.RespondJSON(c, http.StatusCreated, "E-waste request submitted", request)
}

// GetMyRequests lists the caller's submissions, newest first.
func (ec *EwasteController) GetMyRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var requests []models.EwasteRequest
	if err := ec.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My e-waste requests", requests)
}

// GetAllRequests -> admin listing
func (ec *EwasteController) GetAllRequests(c *gin.Context) {
	var requests []models.EwasteRequest
	if err := ec.DB.Order("created_at DESC").Find(&requests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All e-waste requests", requests)
}

// UpdateRequestStatus lets an admin approve/reject and attach a price estimate.
func (ec *EwasteController) UpdateRequestStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("request_id"))

	var req struct {
		Status        string   `json:"status" binding:"required"`
		PriceEstimate *float64 `json:"price_estimate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.ValidEwasteStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", req.Status))
		return
	}

	var request models.EwasteRequest
	if err := ec.DB.First(&request, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	request.Status = req.Status
	if req.PriceEstimate != nil {
		request.PriceEstimate = req.PriceEstimate
	}

	if err := ec.DB.Save(&request).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "E-waste request updated", request)
}
