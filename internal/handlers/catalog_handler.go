package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/jirani/internal/models"
	"github.com/joshua-takyi/jirani/internal/services"
)

// catalogFilter reads category, minRating and the optional lat/long point.
func catalogFilter(c *gin.Context, category string) (models.ProviderFilter, bool) {
	filter := models.ProviderFilter{Category: category}

	if raw := c.Query("minRating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, "Invalid minRating")
			return filter, false
		}
		filter.MinRating = rating
	}

	rawLat, rawLon := c.Query("lat"), c.Query("long")
	if rawLat == "" && rawLon == "" {
		return filter, true
	}
	lat, errLat := strconv.ParseFloat(rawLat, 64)
	lon, errLon := strconv.ParseFloat(rawLon, 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		badRequest(c, "lat and long must be valid coordinates")
		return filter, false
	}
	filter.Near = &models.Coordinates{Latitude: lat, Longitude: lon}
	return filter, true
}

func ListServices(p *services.ProviderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := catalogFilter(c, c.Query("category"))
		if !ok {
			return
		}

		providers, err := p.ListProviders(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err, "Could not fetch services")
			return
		}
		c.JSON(http.StatusOK, providers)
	}
}

func ProvidersByCategory(p *services.ProviderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := catalogFilter(c, c.Param("category"))
		if !ok {
			return
		}

		providers, err := p.ListProviders(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err, "Could not fetch providers")
			return
		}
		c.JSON(http.StatusOK, providers)
	}
}

func ListCategories(p *services.ProviderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := p.Categories(c.Request.Context())
		if err != nil {
			respondError(c, err, "Could not fetch categories")
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func GetService(p *services.ProviderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		provider, err := p.GetProvider(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "Could not fetch service")
			return
		}
		c.JSON(http.StatusOK, provider)
	}
}
