package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/jirani/internal/models"
	"github.com/joshua-takyi/jirani/internal/services"
	"github.com/joshua-takyi/jirani/internal/storage"
)

// providerUpdateForm binds multipart and JSON updates alike.
type providerUpdateForm struct {
	Name        *string      `form:"name" json:"name"`
	Category    *string      `form:"category" json:"category"`
	PhoneNumber *string      `form:"phone_number" json:"phone_number"`
	Description *string      `form:"description" json:"description"`
	Price       *json.Number `form:"price" json:"price"`
	Location    *string      `form:"location" json:"location"`
}

func (f providerUpdateForm) toUpdate() (models.ProviderUpdate, error) {
	update := models.ProviderUpdate{
		Name:        f.Name,
		Category:    f.Category,
		PhoneNumber: f.PhoneNumber,
		Description: f.Description,
		Location:    f.Location,
	}
	if f.Price != nil && strings.TrimSpace(string(*f.Price)) != "" {
		price, err := models.ParsePrice(string(*f.Price))
		if err != nil {
			return update, err
		}
		update.Price = &price
	}
	return update, nil
}

// uploadedImage returns the optional "image" part of a multipart request.
func uploadedImage(c *gin.Context) *multipart.FileHeader {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil
	}
	file, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return file
}

func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxImageSize+1<<20)
}

func GetMyProvider(p *services.ProviderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		provider, err := p.GetMyProfile(c.Request.Context(), claims.UserID())
		if err != nil {
			respondError(c, err, "Could not fetch provider profile")
			return
		}
		c.JSON(http.StatusOK, provider)
	}
}

func CreateProvider(p *services.ProviderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		limitBody(c)
		var in models.ProviderInput
		if err := c.ShouldBind(&in); err != nil {
			badRequest(c, "invalid request payload")
			return
		}

		provider, err := p.CreateProfile(c.Request.Context(), claims.UserID(), in, uploadedImage(c))
		if err != nil {
			respondError(c, err, "Could not create provider profile")
			return
		}
		c.JSON(http.StatusCreated, provider)
	}
}

func UpdateProvider(p *services.ProviderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		limitBody(c)
		var form providerUpdateForm
		if err := c.ShouldBind(&form); err != nil {
			badRequest(c, "invalid request payload")
			return
		}
		update, err := form.toUpdate()
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		provider, err := p.UpdateProfile(c.Request.Context(), claims.UserID(), update, uploadedImage(c))
		if err != nil {
			respondError(c, err, "Could not update provider profile")
			return
		}
		c.JSON(http.StatusOK, provider)
	}
}

func ProviderSummary(p *services.ProviderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		summary, err := p.Summary(c.Request.Context(), claims.UserID())
		if err != nil {
			respondError(c, err, "Could not fetch provider summary")
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// providerID resolves the caller's provider profile or writes the error.
func providerID(c *gin.Context, p *services.ProviderService, fallback string) (int64, bool) {
	claims, ok := currentUser(c)
	if !ok {
		return 0, false
	}
	id, err := p.ProviderIDForUser(c.Request.Context(), claims.UserID())
	if err != nil {
		respondError(c, err, fallback)
		return 0, false
	}
	return id, true
}

func ProviderRequests(p *services.ProviderService, b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := providerID(c, p, "Could not fetch service requests")
		if !ok {
			return
		}

		requests, err := b.ListProviderRequests(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "Could not fetch service requests")
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

func UpdateRequestStatus(p *services.ProviderService, b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := providerID(c, p, "Could not update request status")
		if !ok {
			return
		}
		requestID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var body struct {
			Status models.Status `json:"status"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "invalid request payload")
			return
		}

		req, err := b.UpdateRequestStatus(c.Request.Context(), id, requestID, body.Status)
		if err != nil {
			respondError(c, err, "Could not update request status")
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

func ProviderReviews(p *services.ProviderService, r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := providerID(c, p, "Could not fetch reviews")
		if !ok {
			return
		}

		reviews, err := r.ListProviderReviews(c.Request.Context(), id)
		if err != nil {
			respondError(c, err, "Could not fetch reviews")
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}
