package repository

import (
	"context"

	"github.com/labseat/internal/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const reservationKeyQuery = "username = ? AND lab = ? AND date = ? AND seat = ?"

// ReservationRepository handles reservation data access
type ReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// AddSlot books slot for key. The first booking of a key creates the
// reservation; later bookings append slot and overwrite requestTime.
// Both paths run as one INSERT ... ON CONFLICT statement.
func (r *ReservationRepository) AddSlot(ctx context.Context, key models.ReservationKey, slot, requestTime string, anonymous bool) (*models.Reservation, error) {
	reservation := &models.Reservation{
		Username:    key.Username,
		Lab:         key.Lab,
		Date:        key.Date,
		Seat:        key.Seat,
		TimeSlot:    pq.StringArray{slot},
		RequestTime: requestTime,
		Anonymous:   anonymous,
	}

	err := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "username"}, {Name: "lab"}, {Name: "date"}, {Name: "seat"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"time_slot":    gorm.Expr("array_cat(reservations.time_slot, excluded.time_slot)"),
				"request_time": gorm.Expr("excluded.request_time"),
				"updated_at":   gorm.Expr("excluded.updated_at"),
			}),
		},
		clause.Returning{},
	).Create(reservation).Error
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// List retrieves all reservations
func (r *ReservationRepository) List(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).Order("id").Find(&reservations).Error
	return reservations, err
}

// Delete deletes the reservation identified by key and returns it
func (r *ReservationRepository) Delete(ctx context.Context, key models.ReservationKey) (*models.Reservation, error) {
	var reservation models.Reservation
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where(reservationKeyQuery, key.Username, key.Lab, key.Date, key.Seat).
		Delete(&reservation)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrReservationNotFound
	}
	return &reservation, nil
}

// RemoveSlot removes the first occurrence of slot from the reservation
// identified by key. The row is locked for the read-modify-write; the
// reservation is kept even when its list becomes empty.
func (r *ReservationRepository) RemoveSlot(ctx context.Context, key models.ReservationKey, slot string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(reservationKeyQuery, key.Username, key.Lab, key.Date, key.Seat).
			First(&reservation).Error
		if err != nil {
			return translate(err, ErrReservationNotFound)
		}

		if !reservation.RemoveSlot(slot) {
			return nil
		}
		return tx.Model(&reservation).Update("time_slot", reservation.TimeSlot).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}
