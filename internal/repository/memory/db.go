// Package memory implements the repository contracts in process memory.
// It backs the "memory" database driver and the service and handler tests.
package memory

import (
	"sync"
	"time"

	"github.com/labseat/internal/models"
	"github.com/lib/pq"
)

// DB holds every table behind one lock, so multi-table operations
// are atomic.
type DB struct {
	mu     sync.Mutex
	nextID uint
	now    func() time.Time

	users        []models.User
	profiles     []models.Profile
	pictures     []models.Picture
	reservations []models.Reservation
}

// New creates an empty DB
func New() *DB {
	return &DB{now: time.Now}
}

func (d *DB) id() uint {
	d.nextID++
	return d.nextID
}

// Users returns a user repository over d
func (d *DB) Users() *UserRepository { return &UserRepository{db: d} }

// Profiles returns a profile repository over d
func (d *DB) Profiles() *ProfileRepository { return &ProfileRepository{db: d} }

// Reservations returns a reservation repository over d
func (d *DB) Reservations() *ReservationRepository { return &ReservationRepository{db: d} }

// Accounts returns an account repository over d
func (d *DB) Accounts() *AccountRepository { return &AccountRepository{db: d} }

func cloneReservation(r models.Reservation) models.Reservation {
	slots := make(pq.StringArray, len(r.TimeSlot))
	copy(slots, r.TimeSlot)
	r.TimeSlot = slots
	return r
}
