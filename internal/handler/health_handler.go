package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BuildInfo is injected at build time via -ldflags
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// HealthHandler reports liveness and build info
type HealthHandler struct {
	build BuildInfo
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(build BuildInfo) *HealthHandler {
	return &HealthHandler{build: build}
}

// Health handles the health check
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"version":    h.build.Version,
		"commit":     h.build.Commit,
		"build_time": h.build.BuildTime,
		"time":       time.Now().Unix(),
	})
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
}
