package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/auth"
	"github.com/mountainthreads/rental-ops/internal/dto"
	apierrors "github.com/mountainthreads/rental-ops/internal/errors"
	"github.com/mountainthreads/rental-ops/internal/middleware"
	"github.com/mountainthreads/rental-ops/internal/services"
	"go.uber.org/zap"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService   *services.AuthService
	secureCookies bool
	log           *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, secureCookies bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
		log:           log,
	}
}

// Login authenticates an admin and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		apierrors.MissingField(c, "Email and password are required")
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	auth.SetTokenCookie(c, result.Token, h.authService.TokenMaxAge(), h.secureCookies)
	c.JSON(http.StatusOK, dto.ToAdminDTO(*result.Admin))
}

// Logout expires the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	auth.ClearTokenCookie(c, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentAdmin returns the authenticated admin.
func (h *AuthHandler) GetCurrentAdmin(c *gin.Context) {
	adminID, exists := middleware.GetAdminID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	admin, err := h.authService.GetAdmin(adminID)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAdminDTO(*admin))
}

func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrAdminNotFound),
		errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, "Not authenticated")
	default:
		h.log.Error("auth request failed", zap.String("path", c.FullPath()), zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
