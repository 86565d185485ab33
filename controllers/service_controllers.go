package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/repairup/repairup-app/models"
	"github.com/repairup/repairup-app/utils"
)

type ServiceController struct {
	DB *gorm.DB
}

func NewServiceController(db *gorm.DB) *ServiceController {
	return &ServiceController{DB: db}
}

// GetAllCategories -> public catalog
func (sc *ServiceController) GetAllCategories(c *gin.Context) {
	var categories []models.ServiceCategory
	if err := sc.DB.Where("is_active = ?", true).Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All categories", categories)
}

// GetAllServices -> public catalog
func (sc *ServiceController) GetAllServices(c *gin.Context) {
	var services []models.Service
	if err := sc.DB.Preload("Category").Where("is_active = ?", true).Find(&services).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All services", services)
}

// GetServicesByCategory -> ?category_id=
func (sc *ServiceController) GetServicesByCategory(c *gin.Context) {
	catID, err := strconv.Atoi(c.Query("category_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var services []models.Service
	if err := sc.DB.Where("category_id = ? AND is_active = ?", catID, true).Find(&services).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Services by category", services)
}

func (sc *ServiceController) CreateCategory(c *gin.Context) {
	type request struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.ServiceCategory{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    true,
	}
	if err := sc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (sc *ServiceController) CreateService(c *gin.Context) {
	type request struct {
		CategoryID        *uint   `json:"category_id"`
		Name              string  `json:"name" binding:"required"`
		Description       string  `json:"description"`
		BasePrice         float64 `json:"base_price"`
		EstimatedDuration int     `json:"estimated_duration"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	service := models.Service{
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		BasePrice:         req.BasePrice,
		EstimatedDuration: req.EstimatedDuration,
		IsActive:          true,
	}
	if service.EstimatedDuration <= 0 {
		service.EstimatedDuration = 60
	}
	if err := sc.DB.Create(&service).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Service created", service)
}

func (sc *ServiceController) UpdateService(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("service_id"))

	var service models.Service
	if err := sc.DB.First(&service, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type request struct {
		Name              *string  `json:"name"`
		Description       *string  `json:"description"`
		BasePrice         *float64 `json:"base_price"`
		EstimatedDuration *int     `json:"estimated_duration"`
		IsActive          *bool    `json:"is_active"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.BasePrice != nil {
		service.BasePrice = *req.BasePrice
	}
	if req.EstimatedDuration != nil {
		service.EstimatedDuration = *req.EstimatedDuration
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := sc.DB.Save(&service).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service updated", service)
}

func (sc *ServiceController) DeleteService(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("service_id"))

	if err := sc.DB.Delete(&models.Service{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service deleted", gin.H{"service_id": id})
}
