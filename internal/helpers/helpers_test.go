package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(42, "provider", "jane")
	require.NoError(t, err)

	claims, err := NewHMACValidator("test-secret").Validate(token)

	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID())
	assert.Equal(t, "provider", claims.Role)
	assert.Equal(t, "jane", claims.Username)
	assert.True(t, claims.HasRole("provider"))
}

func TestValidate_Rejections(t *testing.T) {
	good, err := NewTokenIssuer("test-secret", time.Hour).Issue(1, "seeker", "sam")
	require.NoError(t, err)
	expired, err := NewTokenIssuer("test-secret", -time.Minute).Issue(1, "seeker", "sam")
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: "seeker"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other-secret", good},
		{"expired", "test-secret", expired},
		{"missing subject", "test-secret", noSubject},
		{"unexpected algorithm", "test-secret", wrongAlg},
		{"garbage", "test-secret", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := NewHMACValidator(tt.secret).Validate(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer   abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr("   "))
	assert.Equal(t, "fix sink", *StringPtr(" fix sink "))
}
