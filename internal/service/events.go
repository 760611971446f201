package service

import (
	"time"

	"github.com/labseat/internal/models"
)

// Feed event types
const (
	EventReservationSaved = "reservation.saved"
	EventReservationReset = "reservation.reset"
	EventTimeSlotDeleted  = "reservation.slot_deleted"
	EventAccountDeleted   = "account.deleted"
)

// Event is broadcast on the reservation feed
type Event struct {
	Type        string              `json:"type"`
	Reservation *models.Reservation `json:"reservation,omitempty"`
	Username    string              `json:"username,omitempty"`
	Time        time.Time           `json:"time"`
}

// reservationEvent builds an event for r, hiding the owner of
// anonymous reservations
func reservationEvent(eventType string, r *models.Reservation, now time.Time) Event {
	public := *r
	if public.Anonymous {
		public.Username = ""
	}
	return Event{
		Type:        eventType,
		Reservation: &public,
		Time:        now,
	}
}
