package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/realtime"
	"github.com/repairup/repairup-app/utils"
)

type TechnicianController struct {
	DB *gorm.DB
}

func NewTechnicianController(db *gorm.DB) *TechnicianController {
	return &TechnicianController{DB: db}
}

// GetAllTechnicians -> optional ?status= filter
func (tc *TechnicianController) GetAllTechnicians(c *gin.Context) {
	query := tc.DB.Order("id ASC")
	if status := c.Query("status"); status != "" {
		if !models.ValidTechnicianStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", status))
			return
		}
		query = query.Where("status = ?", status)
	}

	var techs []models.Technician
	if err := query.Find(&techs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All technicians", techs)
}

func (tc *TechnicianController) GetTechnicianByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("tech_id"))

	var tech models.Technician
	if err := tc.DB.First(&tech, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Technician detail", tech)
}

func (tc *TechnicianController) CreateTechnician(c *gin.Context) {
	type request struct {
		FullName    string `json:"full_name" binding:"required"`
		Phone       string `json:"phone" binding:"required"`
		Email       string `json:"email" binding:"omitempty,email"`
		Specialties string `json:"specialties"`
		Location    string `json:"location"`
		UserID      *uint  `json:"user_id"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tech := models.Technician{
		FullName:    req.FullName,
		Phone:       req.Phone,
		Email:       req.Email,
		Specialties: req.Specialties,
		Location:    req.Location,
		UserID:      req.UserID,
		Status:      models.TechnicianOffline,
	}

	if err := tc.DB.Create(&tech).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Technician created: %s (id=%d)", tech.FullName, tech.ID)
	utils.RespondJSON(c, http.StatusCreated, "Technician created", tech)
}

// UpdateTechnicianStatus validates the enum and broadcasts the change.
func (tc *TechnicianController) UpdateTechnicianStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("tech_id"))

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.ValidTechnicianStatus(req.Status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", req.Status))
		return
	}

	var tech models.Technician
	if err := tc.DB.First(&tech, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	tech.Status = req.Status
	if err := tc.DB.Save(&tech).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTechnicianUpdate(tech)
	utils.RespondJSON(c, http.StatusOK, "Technician status updated", tech)
}

func (tc *TechnicianController) UpdateTechnician(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("tech_id"))

	var tech models.Technician
	if err := tc.DB.First(&tech, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type request struct {
		FullName    *string `json:"full_name"`
		Phone       *string `json:"phone"`
		Email       *string `json:"email"`
		Specialties *string `json:"specialties"`
		Location    *string `json:"location"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.FullName != nil {
		tech.FullName = *req.FullName
	}
	if req.Phone != nil {
		tech.Phone = *req.Phone
	}
	if req.Email != nil {
		tech.Email = *req.Email
	}
	if req.Specialties != nil {
		tech.Specialties = *req.Specialties
	}
	if req.Location != nil {
		tech.Location = *req.Location
	}

	if err := tc.DB.Save(&tech).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Technician updated", tech)
}

func (tc *TechnicianController) DeleteTechnician(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("tech_id"))

	if err := tc.DB.Delete(&models.Technician{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Technician deleted", gin.H{"tech_id": id})
}
