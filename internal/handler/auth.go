package handler

import (
	"net/http"

	"staybook/internal/model"
	"staybook/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup, login and profile updates
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		authError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		authError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		authError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		authError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitKYC handles PUT /api/auth/submit-kyc
func (h *AuthHandler) SubmitKYC(c *gin.Context) {
	var req model.KYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		authError(c, err)
		return
	}

	result, err := h.authService.SubmitKYC(c.Request.Context(), accessToken(c), req)
	if err != nil {
		authError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateUser handles PUT /api/auth/update-user
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		authError(c, err)
		return
	}

	result, err := h.authService.UpdateUser(c.Request.Context(), accessToken(c), req)
	if err != nil {
		authError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// authError answers with the auth routes' {"status":"error"} envelope.
// Provider and binding failures are 400.
func authError(c *gin.Context, err error) {
	status := statusFor(err, http.StatusBadRequest)
	if status == http.StatusInternalServerError {
		status = http.StatusBadRequest
	}
	logError(c, err, status)
	c.JSON(status, gin.H{"status": "error", "error": err.Error()})
}
