package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/repairup/repairup-app/services"
	"github.com/repairup/repairup-app/utils"
)

type GeocodeController struct {
	Geo *services.GeocodeService
}

func NewGeocodeController(geo *services.GeocodeService) *GeocodeController {
	return &GeocodeController{Geo: geo}
}

// Search -> GET /geocode/search?q=
func (gc *GeocodeController) Search(c *gin.Context) {
	query := c.Query("q")
	if len(query) < 3 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("query must be at least 3 characters"))
		return
	}

	places, err := gc.Geo.Search(c.Request.Context(), query)
	if err != nil {
		utils.ErrorLogger.Printf("geocode search %q: %v", query, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("could not get location"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Location suggestions", places)
}

// Reverse -> GET /geocode/reverse?lat=&lon=
func (gc *GeocodeController) Reverse(c *gin.Context) {
	lat := c.Query("lat")
	lon := c.Query("lon")
	if lat == "" || lon == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("lat and lon are required"))
		return
	}

	result, err := gc.Geo.Reverse(c.Request.Context(), lat, lon)
	if err != nil {
		utils.ErrorLogger.Printf("geocode reverse %s,%s: %v", lat, lon, err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("could not get location"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Location detected", gin.H{
		"display_name": result.DisplayName,
		"locality":     result.Locality(),
	})
}
