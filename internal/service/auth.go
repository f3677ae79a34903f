package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"diagwa/config"
	"diagwa/internal/helper"
)

// JWT configuration
var (
	jwtSecret         []byte
	accessTokenExpiry time.Duration
)

// InitAuthConfig initializes authentication configuration from environment variables
func InitAuthConfig(secret string) {
	jwtSecret = []byte(secret)

	accessExp := os.Getenv("JWT_ACCESS_TOKEN_EXPIRY")
	if accessExp == "" {
		accessExp = "12h"
	}
	accessTokenExpiry, _ = time.ParseDuration(accessExp)
}

// Claims represents JWT claims
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthenticateAdmin validates the configured admin credentials.
func AuthenticateAdmin(username, password string) error {
	if config.AdminUsername == "" || config.AdminPasswordHash == "" {
		return errors.New("admin credentials not configured")
	}
	if username != config.AdminUsername {
		return errors.New("invalid username or password")
	}
	if err := helper.VerifyPassword(config.AdminPasswordHash, password); err != nil {
		return errors.New("invalid username or password")
	}
	return nil
}

// GenerateAccessToken generates a JWT access token for the admin user
func GenerateAccessToken(username string) (string, error) {
	expirationTime := time.Now().Add(accessTokenExpiry)

	claims := &Claims{
		Username: username,
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateAccessToken validates JWT access token and returns claims
func ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
