// Package api - authentication handlers
package api

import (
	"net/http"

	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/auth"
	"github.com/aethra/docflow/internal/engine"
	"github.com/aethra/docflow/internal/models"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	store      *engine.Store
	jwtService *auth.JWTService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(store *engine.Store, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{store: store, jwtService: jwtService}
}

// RegisterRequest represents registration data.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new user account. Registered accounts always get
// the user role; admins are minted through the CLI.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		status, body := apperrors.ToHTTPError(apperrors.NewInternalError(err))
		c.JSON(status, body)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := h.store.CreateUser(user); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login authenticates a user and returns a token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	user, err := h.store.UserByUsername(req.Username)
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "account is inactive"})
		return
	}

	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		status, body := apperrors.ToHTTPError(apperrors.NewInternalError(err))
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Profile returns the current user.
// GET /api/v1/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND", "message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
