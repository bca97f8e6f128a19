package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/jirani/internal/helpers"
	"github.com/joshua-takyi/jirani/internal/models"
)

const (
	RequestIDKey = "request_id"
	// UserKey holds the *helpers.Claims of an authenticated request.
	UserKey = "user"
)

// TokenValidator verifies a raw bearer token.
type TokenValidator interface {
	Validate(token string) (*helpers.Claims, error)
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get(RequestIDKey)

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if claims, ok := ClaimsFrom(c); ok {
			attrs = append(attrs, "user_id", claims.UserID())
		}
		logger.Info("HTTP Request", attrs...)
	}
}

// ErrorHandler logs errors attached with c.Error and answers with a
// generic message when the handler has not written a response.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get(RequestIDKey)

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("Internal server error"))
		}
	}
}

// Auth requires a valid "Authorization: Bearer <jwt>" header and stores the
// claims under UserKey.
func Auth(validator TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := helpers.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Not authorized, no token"))
			return
		}

		claims, err := validator.Validate(token)
		if err != nil {
			requestID, _ := c.Get(RequestIDKey)
			logger.Debug("token rejected", "request_id", requestID, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Not authorized, token failed"))
			return
		}

		c.Set(UserKey, claims)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role claim differs.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("Not authorized"))
			return
		}
		if !claims.HasRole(string(role)) {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse("Access denied: "+string(role)+" role required"))
			return
		}
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*helpers.Claims, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*helpers.Claims)
	return claims, ok && claims != nil
}
