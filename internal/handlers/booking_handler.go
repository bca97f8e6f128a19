package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/jirani/internal/models"
	"github.com/joshua-takyi/jirani/internal/services"
)

func CreateBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		var in models.BookingInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request payload")
			return
		}

		req, err := b.CreateBooking(c.Request.Context(), claims.UserID(), in)
		if err != nil {
			respondError(c, err, "Could not create booking")
			return
		}
		c.JSON(http.StatusCreated, req)
	}
}

func ListMyBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		bookings, err := b.ListMyBookings(c.Request.Context(), claims.UserID())
		if err != nil {
			respondError(c, err, "Could not fetch bookings")
			return
		}
		c.JSON(http.StatusOK, bookings)
	}
}

func CancelBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}

		req, err := b.CancelBooking(c.Request.Context(), claims.UserID(), id)
		if err != nil {
			respondError(c, err, "Could not cancel booking")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled", "booking": req})
	}
}
