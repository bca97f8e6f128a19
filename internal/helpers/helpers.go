package helpers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "jirani-api"

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer signs HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) Issue(userID int64, role, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:     role,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// TokenValidator verifies bearer tokens against an HMAC secret or a remote
// JWKS.
type TokenValidator struct {
	keyFunc jwt.Keyfunc
	methods []string
	jwks    *keyfunc.JWKS
}

func NewHMACValidator(secret string) *TokenValidator {
	key := []byte(secret)
	return &TokenValidator{
		keyFunc: func(*jwt.Token) (interface{}, error) { return key, nil },
		methods: []string{jwt.SigningMethodHS256.Alg()},
	}
}

// NewJWKSValidator fetches the key set once and refreshes it in the
// background until Close.
func NewJWKSValidator(ctx context.Context, jwksURL string) (*TokenValidator, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	return &TokenValidator{
		keyFunc: jwks.Keyfunc,
		methods: []string{"RS256", "ES256"},
		jwks:    jwks,
	}, nil
}

func (v *TokenValidator) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, v.keyFunc, jwt.WithValidMethods(v.methods))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID() == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (v *TokenValidator) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// StringPtr trims s and returns nil when the result is blank.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
