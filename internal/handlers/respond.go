package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/jirani/internal/apperrors"
	"github.com/joshua-takyi/jirani/internal/helpers"
	"github.com/joshua-takyi/jirani/internal/middleware"
	"github.com/joshua-takyi/jirani/internal/models"
)

// respondError writes {message}. Internal errors are attached to the context
// for ErrorHandler to log and reach the client only as fallback.
func respondError(c *gin.Context, err error, fallback string) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, models.ErrorResponse(apperrors.PublicMessage(err, fallback)))
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse(message))
}

// currentUser returns the authenticated claims or writes 401.
func currentUser(c *gin.Context) (*helpers.Claims, bool) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("Not authorized"))
		return nil, false
	}
	return claims, true
}

// idParam parses a positive integer path parameter or writes 400.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
