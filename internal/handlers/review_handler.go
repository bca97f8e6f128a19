package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/jirani/internal/models"
	"github.com/joshua-takyi/jirani/internal/services"
)

func CreateReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		var in models.ReviewInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request payload")
			return
		}

		review, err := r.CreateReview(c.Request.Context(), claims.UserID(), in)
		if err != nil {
			respondError(c, err, "Could not create review")
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

func ListAllReviews(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := r.ListAllReviews(c.Request.Context())
		if err != nil {
			respondError(c, err, "Could not fetch reviews")
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}
