package models

import (
	"time"

	"github.com/lib/pq"
)

// ReservationKey identifies one reservation record
type ReservationKey struct {
	Username string `json:"username"`
	Lab      string `json:"lab"`
	Date     string `json:"date"`
	Seat     string `json:"seat"`
}

// Reservation represents the booked time slots of one seat on one date
// for one user. (username, lab, date, seat) is unique.
type Reservation struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"size:100;not null;uniqueIndex:idx_reservation_key,priority:1" json:"username"`
	Lab         string         `gorm:"size:100;not null;uniqueIndex:idx_reservation_key,priority:2" json:"lab"`
	Date        string         `gorm:"size:50;not null;uniqueIndex:idx_reservation_key,priority:3" json:"date"`
	Seat        string         `gorm:"size:50;not null;uniqueIndex:idx_reservation_key,priority:4" json:"seat"`
	TimeSlot    pq.StringArray `gorm:"type:text[];not null" json:"timeSlot"`
	RequestTime string         `gorm:"size:100;not null" json:"requestTime"`
	Anonymous   bool           `gorm:"not null;default:false" json:"anonymous"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// Key returns the composite key of the reservation
func (r *Reservation) Key() ReservationKey {
	return ReservationKey{
		Username: r.Username,
		Lab:      r.Lab,
		Date:     r.Date,
		Seat:     r.Seat,
	}
}

// RemoveSlot removes the first occurrence of slot from the list.
// It reports whether a slot was removed.
func (r *Reservation) RemoveSlot(slot string) bool {
	for i, s := range r.TimeSlot {
		if s == slot {
			slots := make(pq.StringArray, 0, len(r.TimeSlot)-1)
			slots = append(slots, r.TimeSlot[:i]...)
			slots = append(slots, r.TimeSlot[i+1:]...)
			r.TimeSlot = slots
			return true
		}
	}
	return false
}
