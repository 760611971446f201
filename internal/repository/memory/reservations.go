package memory

import (
	"context"

	"github.com/labseat/internal/models"
	"github.com/labseat/internal/repository"
	"github.com/lib/pq"
)

// ReservationRepository keeps reservations in a DB
type ReservationRepository struct {
	db *DB
}

// AddSlot books slot for key, creating the reservation on first booking
func (r *ReservationRepository) AddSlot(_ context.Context, key models.ReservationKey, slot, requestTime string, anonymous bool) (*models.Reservation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := r.db.now()
	if i := r.find(key); i >= 0 {
		res := &r.db.reservations[i]
		res.TimeSlot = append(res.TimeSlot, slot)
		res.RequestTime = requestTime
		res.UpdatedAt = now
		out := cloneReservation(*res)
		return &out, nil
	}

	res := models.Reservation{
		ID:          r.db.id(),
		Username:    key.Username,
		Lab:         key.Lab,
		Date:        key.Date,
		Seat:        key.Seat,
		TimeSlot:    pq.StringArray{slot},
		RequestTime: requestTime,
		Anonymous:   anonymous,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.db.reservations = append(r.db.reservations, res)
	out := cloneReservation(res)
	return &out, nil
}

// List returns copies of every reservation
func (r *ReservationRepository) List(_ context.Context) ([]models.Reservation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]models.Reservation, 0, len(r.db.reservations))
	for _, res := range r.db.reservations {
		out = append(out, cloneReservation(res))
	}
	return out, nil
}

// Delete removes the reservation identified by key and returns it
func (r *ReservationRepository) Delete(_ context.Context, key models.ReservationKey) (*models.Reservation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(key)
	if i < 0 {
		return nil, repository.ErrReservationNotFound
	}
	res := r.db.reservations[i]
	r.db.reservations = append(r.db.reservations[:i], r.db.reservations[i+1:]...)
	return &res, nil
}

// RemoveSlot removes the first occurrence of slot from the reservation
func (r *ReservationRepository) RemoveSlot(_ context.Context, key models.ReservationKey, slot string) (*models.Reservation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i := r.find(key)
	if i < 0 {
		return nil, repository.ErrReservationNotFound
	}
	res := &r.db.reservations[i]
	if res.RemoveSlot(slot) {
		res.UpdatedAt = r.db.now()
	}
	out := cloneReservation(*res)
	return &out, nil
}

// find returns the index of the reservation with key, or -1.
// Callers hold the lock.
func (r *ReservationRepository) find(key models.ReservationKey) int {
	for i := range r.db.reservations {
		if r.db.reservations[i].Key() == key {
			return i
		}
	}
	return -1
}
