package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/jirani/internal/services"
)

func CompletedForSeeker(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		requests, err := b.CompletedForSeeker(c.Request.Context(), claims.UserID())
		if err != nil {
			respondError(c, err, "Could not fetch completed requests")
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

func CompletedForProvider(p *services.ProviderService, b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := providerID(c, p, "Could not fetch completed requests")
		if !ok {
			return
		}

		requests, err := b.CompletedForProvider(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "Could not fetch completed requests")
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}
