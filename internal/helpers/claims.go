package helpers

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carry the user id in the subject plus the role and username.
type Claims struct {
	Role     string `json:"role"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject; zero means the subject is not a user id.
func (c *Claims) UserID() int64 {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func (c *Claims) HasRole(role string) bool {
	return c.Role == role
}
