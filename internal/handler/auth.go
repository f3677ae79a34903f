package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"diagwa/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates the configured admin account and issues a JWT.
// POST /login
func Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return ErrorResponse(c, http.StatusBadRequest, "username and password are required", "VALIDATION_ERROR", "")
	}

	if err := service.AuthenticateAdmin(req.Username, req.Password); err != nil {
		return ErrorResponse(c, http.StatusUnauthorized, "Invalid username or password", "INVALID_CREDENTIALS", "")
	}

	token, err := service.GenerateAccessToken(req.Username)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "Failed to generate token", "TOKEN_ERROR", err.Error())
	}

	return SuccessResponse(c, http.StatusOK, "Login successful", map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
	})
}
