package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/labseat/internal/middleware"
	"github.com/labseat/internal/service"
	"github.com/labseat/pkg/response"
)

// AuthHandler handles registration and login requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
// POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(c, "email already registered")
			return
		}
		middleware.LogError("register %s: %v", req.Username, err)
		response.InternalError(c, "failed to register user")
		return
	}

	response.Created(c, "user registered successfully", user)
}

// Login handles user login. It only checks the credentials.
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.authService.Login(c.Request.Context(), &req); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		middleware.LogError("login %s: %v", req.Username, err)
		response.InternalError(c, "failed to login")
		return
	}

	response.OK(c, "login successful", nil)
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
}
