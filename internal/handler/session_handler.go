package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/labseat/internal/middleware"
	"github.com/labseat/internal/models"
	"github.com/labseat/internal/service"
	"github.com/labseat/pkg/response"
)

// SessionHandler handles logged-user tracking requests
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

type usernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// SaveLoggedInUser starts a session and returns its token
// POST /saveLoggedInUser
func (h *SessionHandler) SaveLoggedInUser(c *gin.Context) {
	var req usernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.sessionService.Create(c.Request.Context(), req.Username)
	if err != nil {
		middleware.LogError("save logged in user %s: %v", req.Username, err)
		response.InternalError(c, "failed to save logged in user")
		return
	}

	response.OK(c, "logged in user saved", token)
}

// GetLoggedUser returns the caller's session as a one-element list.
// The route runs behind SessionMiddleware.
// GET /getLoggedUser
func (h *SessionHandler) GetLoggedUser(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Unauthorized(c, "not logged in")
		return
	}
	response.Success(c, []models.Session{*session})
}

// Logout ends every session of a user
// POST /logout
func (h *SessionHandler) Logout(c *gin.Context) {
	var req usernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	n, err := h.sessionService.Revoke(c.Request.Context(), req.Username)
	if err != nil {
		middleware.LogError("logout %s: %v", req.Username, err)
		response.InternalError(c, "failed to logout")
		return
	}

	response.OK(c, "logout successful", gin.H{"revoked": n})
}

// RegisterRoutes registers session routes
func (h *SessionHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/saveLoggedInUser", h.SaveLoggedInUser)
	r.GET("/getLoggedUser", middleware.SessionMiddleware(h.sessionService), h.GetLoggedUser)
	r.POST("/logout", h.Logout)
}
