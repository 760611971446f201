package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/labseat/internal/realtime"
)

// FeedHandler serves the reservation feed websocket
type FeedHandler struct {
	hub *realtime.Hub
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(hub *realtime.Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

// Subscribe upgrades the connection and joins the feed
// GET /ws/reservations
func (h *FeedHandler) Subscribe(c *gin.Context) {
	h.hub.ServeHTTP(c.Writer, c.Request)
}

// RegisterRoutes registers feed routes
func (h *FeedHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws/reservations", h.Subscribe)
}
