package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/jirani/internal/models"
	"github.com/joshua-takyi/jirani/internal/services"
)

func Register(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request payload")
			return
		}

		user, err := u.Register(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "Could not register user")
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func Login(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.LoginInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request payload")
			return
		}

		auth, err := u.Login(c.Request.Context(), in)
		if err != nil {
			respondError(c, err, "Could not log in")
			return
		}
		c.JSON(http.StatusOK, auth)
	}
}

func GetProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		user, err := u.Profile(c.Request.Context(), claims.UserID())
		if err != nil {
			respondError(c, err, "Could not fetch profile")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func UpdateProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		var update models.UserUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			badRequest(c, "invalid request payload")
			return
		}

		user, err := u.UpdateProfile(c.Request.Context(), claims.UserID(), update)
		if err != nil {
			respondError(c, err, "Could not update profile")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
