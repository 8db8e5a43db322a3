package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionLandlord(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingRejected, true},
		{BookingPending, BookingCancelled, true},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingRescheduled, true},
		{BookingConfirmed, BookingCancelled, true},

		{BookingPending, BookingCompleted, false},
		{BookingPending, BookingRescheduled, false},
		{BookingConfirmed, BookingRejected, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingRescheduled, BookingConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition("landlord", tc.from, tc.to),
			"landlord %s -> %s", tc.from, tc.to)
	}
}

func TestCanTransitionTenant(t *testing.T) {
	// A tenant may only cancel their active booking.
	assert.True(t, CanTransition("tenant", BookingPending, BookingCancelled))
	assert.True(t, CanTransition("tenant", BookingConfirmed, BookingCancelled))

	assert.False(t, CanTransition("tenant", BookingPending, BookingConfirmed))
	assert.False(t, CanTransition("tenant", BookingPending, BookingRejected))
	assert.False(t, CanTransition("tenant", BookingConfirmed, BookingCompleted))
	assert.False(t, CanTransition("tenant", BookingConfirmed, BookingRescheduled))
}

func TestTerminalStatusesNeverTransition(t *testing.T) {
	terminals := []string{BookingCancelled, BookingRejected, BookingCompleted}
	all := []string{
		BookingPending, BookingConfirmed, BookingCancelled,
		BookingRejected, BookingCompleted, BookingRescheduled,
	}
	for _, from := range terminals {
		for _, to := range all {
			for _, role := range []string{"landlord", "tenant"} {
				assert.Falsef(t, CanTransition(role, from, to),
					"%s %s -> %s should be refused", role, from, to)
			}
		}
	}
}

func TestNothingRevertsToPending(t *testing.T) {
	for _, from := range []string{BookingConfirmed, BookingCancelled, BookingRejected, BookingCompleted, BookingRescheduled} {
		assert.Falsef(t, CanTransition("landlord", from, BookingPending), "%s -> pending", from)
	}
}

func TestIsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingPending}).IsActive())
	assert.True(t, (&Booking{Status: BookingConfirmed}).IsActive())
	assert.False(t, (&Booking{Status: BookingRescheduled}).IsActive())
	assert.False(t, (&Booking{Status: BookingCancelled}).IsActive())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(BookingRescheduled))
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
}

func TestOrderPair(t *testing.T) {
	a, b := OrderPair(9, 3)
	assert.Equal(t, uint(3), a)
	assert.Equal(t, uint(9), b)

	a, b = OrderPair(3, 9)
	assert.Equal(t, uint(3), a)
	assert.Equal(t, uint(9), b)
}
