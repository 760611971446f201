package service

import (
	"context"
	"fmt"
	"time"

	"github.com/labseat/internal/models"
)

// ReservationService handles seat reservations
type ReservationService struct {
	reservationRepo ReservationRepo
	feed            Broadcaster
	now             func() time.Time
}

// NewReservationService creates a new ReservationService.
// feed may be nil.
func NewReservationService(reservationRepo ReservationRepo, feed Broadcaster) *ReservationService {
	if feed == nil {
		feed = noopBroadcaster{}
	}
	return &ReservationService{
		reservationRepo: reservationRepo,
		feed:            feed,
		now:             time.Now,
	}
}

// ReservationKeyRequest identifies a reservation
type ReservationKeyRequest struct {
	Username string `json:"username" binding:"required"`
	Lab      string `json:"lab" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Seat     string `json:"seat" binding:"required"`
}

// Key converts the request into a reservation key
func (r *ReservationKeyRequest) Key() models.ReservationKey {
	return models.ReservationKey{
		Username: r.Username,
		Lab:      r.Lab,
		Date:     r.Date,
		Seat:     r.Seat,
	}
}

// SaveReservationRequest represents a booking of one time slot
type SaveReservationRequest struct {
	ReservationKeyRequest
	TimeSlot    string `json:"timeSlot" binding:"required"`
	RequestTime string `json:"requestTime" binding:"required"`
	Anonymous   *bool  `json:"anonymous" binding:"required"`
}

// DeleteTimeSlotRequest represents the removal of one time slot
type DeleteTimeSlotRequest struct {
	ReservationKeyRequest
	TimeSlot string `json:"timeSlot" binding:"required"`
}

// SaveReservation books a time slot, creating the reservation on the
// first booking of its key
func (s *ReservationService) SaveReservation(ctx context.Context, req *SaveReservationRequest) (*models.Reservation, error) {
	anonymous := req.Anonymous != nil && *req.Anonymous

	reservation, err := s.reservationRepo.AddSlot(ctx, req.Key(), req.TimeSlot, req.RequestTime, anonymous)
	if err != nil {
		return nil, fmt.Errorf("save reservation: %w", err)
	}

	s.feed.Broadcast(reservationEvent(EventReservationSaved, reservation, s.now()))
	return reservation, nil
}

// ListReservations returns every reservation
func (s *ReservationService) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	reservations, err := s.reservationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	return reservations, nil
}

// ResetReservation deletes a reservation with all its slots
func (s *ReservationService) ResetReservation(ctx context.Context, req *ReservationKeyRequest) error {
	reservation, err := s.reservationRepo.Delete(ctx, req.Key())
	if err != nil {
		return fmt.Errorf("reset reservation: %w", err)
	}

	s.feed.Broadcast(reservationEvent(EventReservationReset, reservation, s.now()))
	return nil
}

// DeleteTimeSlot removes one time slot from a reservation
func (s *ReservationService) DeleteTimeSlot(ctx context.Context, req *DeleteTimeSlotRequest) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.RemoveSlot(ctx, req.Key(), req.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("delete time slot: %w", err)
	}

	s.feed.Broadcast(reservationEvent(EventTimeSlotDeleted, reservation, s.now()))
	return reservation, nil
}
