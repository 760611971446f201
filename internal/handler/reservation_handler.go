package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/labseat/internal/middleware"
	"github.com/labseat/internal/repository"
	"github.com/labseat/internal/service"
	"github.com/labseat/pkg/response"
)

// ReservationHandler handles reservation requests
type ReservationHandler struct {
	reservationService *service.ReservationService
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

// ListReservations returns every reservation
// GET /reservations
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	reservations, err := h.reservationService.ListReservations(c.Request.Context())
	if err != nil {
		middleware.LogError("list reservations: %v", err)
		response.InternalError(c, "failed to list reservations")
		return
	}

	response.Success(c, reservations)
}

// SaveReservation books a time slot
// POST /saveReservation
func (h *ReservationHandler) SaveReservation(c *gin.Context) {
	var req service.SaveReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	reservation, err := h.reservationService.SaveReservation(c.Request.Context(), &req)
	if err != nil {
		middleware.LogError("save reservation %+v: %v", req.Key(), err)
		response.InternalError(c, "failed to save reservation")
		return
	}

	response.OK(c, "reservation saved successfully", reservation)
}

// ResetReservation deletes a reservation
// POST /resetReservation
func (h *ReservationHandler) ResetReservation(c *gin.Context) {
	var req service.ReservationKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.reservationService.ResetReservation(c.Request.Context(), &req); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			response.NotFound(c, "reservation not found")
			return
		}
		middleware.LogError("reset reservation %+v: %v", req.Key(), err)
		response.InternalError(c, "failed to reset reservation")
		return
	}

	response.OK(c, "reservation reset successfully", nil)
}

// DeleteTimeSlot removes one time slot from a reservation
// POST /deleteTimeSlot
func (h *ReservationHandler) DeleteTimeSlot(c *gin.Context) {
	var req service.DeleteTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	reservation, err := h.reservationService.DeleteTimeSlot(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			response.NotFound(c, "reservation not found")
			return
		}
		middleware.LogError("delete time slot %+v: %v", req.Key(), err)
		response.InternalError(c, "failed to delete time slot")
		return
	}

	response.OK(c, "time slot deleted successfully", reservation)
}

// RegisterRoutes registers reservation routes
func (h *ReservationHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/reservations", h.ListReservations)
	r.POST("/saveReservation", h.SaveReservation)
	r.POST("/resetReservation", h.ResetReservation)
	r.POST("/deleteTimeSlot", h.DeleteTimeSlot)
}
