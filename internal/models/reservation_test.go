package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestRemoveSlot_FirstOccurrenceOnly(t *testing.T) {
	r := &Reservation{TimeSlot: pq.StringArray{"9:00", "10:00", "9:00"}}

	assert.True(t, r.RemoveSlot("9:00"))
	assert.Equal(t, pq.StringArray{"10:00", "9:00"}, r.TimeSlot)
}

func TestRemoveSlot_Missing(t *testing.T) {
	r := &Reservation{TimeSlot: pq.StringArray{"9:00"}}

	assert.False(t, r.RemoveSlot("11:00"))
	assert.Equal(t, pq.StringArray{"9:00"}, r.TimeSlot)
}

func TestRemoveSlot_LastLeavesEmptyList(t *testing.T) {
	r := &Reservation{TimeSlot: pq.StringArray{"9:00"}}

	assert.True(t, r.RemoveSlot("9:00"))
	assert.NotNil(t, r.TimeSlot)
	assert.Empty(t, r.TimeSlot)
}

func TestKey(t *testing.T) {
	r := &Reservation{Username: "a", Lab: "L1", Date: "2024-01-01", Seat: "3"}
	assert.Equal(t, ReservationKey{Username: "a", Lab: "L1", Date: "2024-01-01", Seat: "3"}, r.Key())
}
