package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/polas15-707-eng/teachassist-app/internal/middleware"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/response"
	"github.com/polas15-707-eng/teachassist-app/internal/service"
	"github.com/polas15-707-eng/teachassist-app/internal/validator"
)

// AuthHandler handles registration, login, and session endpoints.
type AuthHandler struct {
	accountService *service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountService *service.AccountService) *AuthHandler {
	return &AuthHandler{accountService: accountService}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a student or teacher account. Teachers start Pending and wait
// for admin approval.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"account": account})
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password and returns a JWT. A new login replaces any
// previous session for the same user.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, token, err := h.accountService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"account": account,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Invalidates the active session for the authenticated user.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.accountService.Logout(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated account, including the teacher profile when
// the user is a teacher.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	account, err := h.accountService.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"account": account})
}
