package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/labseat/internal/middleware"
	"github.com/labseat/internal/repository"
	"github.com/labseat/internal/service"
	"github.com/labseat/pkg/response"
)

// AccountHandler handles account deletion requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// DeleteUser deletes a user with everything it owns
// POST /deleteUser
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	var req service.DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.accountService.DeleteUser(c.Request.Context(), req.Username); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, repository.ErrProfileNotFound):
			response.NotFound(c, "profile not found")
		default:
			middleware.LogError("delete user %s: %v", req.Username, err)
			response.InternalError(c, "failed to delete user")
		}
		return
	}

	response.OK(c, "user deleted successfully", nil)
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/deleteUser", h.DeleteUser)
}
