package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses. Pending and confirmed occupy a slot; everything else has
// released it. A rescheduled booking releases its slot until a new one is
// chosen.
const (
	BookingPending     = "pending"
	BookingConfirmed   = "confirmed"
	BookingCancelled   = "cancelled"
	BookingRejected    = "rejected"
	BookingCompleted   = "completed"
	BookingRescheduled = "rescheduled"
)

// ActiveStatuses are the statuses that hold a (property, date, timeSlot) tuple.
var ActiveStatuses = []string{BookingPending, BookingConfirmed}

type Booking struct {
	gorm.Model
	TenantID   uint      `json:"tenantID" gorm:"not null;index"`
	LandlordID uint      `json:"landlordID" gorm:"not null;index"`
	PropertyID uint      `json:"propertyID" gorm:"not null;index"`
	Date       time.Time `json:"date" gorm:"not null"`
	TimeSlot   string    `json:"timeSlot" gorm:"not null"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:pending;not null;index"`
	Notes      string    `json:"notes" gorm:"size:500"`
	Tenant     User      `json:"tenant" gorm:"foreignKey:TenantID"`
	Landlord   User      `json:"landlord" gorm:"foreignKey:LandlordID"`
	Property   Property  `json:"property" gorm:"foreignKey:PropertyID"`
}

// IsActive reports whether the booking currently occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// IsTerminalStatus reports whether no further transition is allowed.
func IsTerminalStatus(status string) bool {
	switch status {
	case BookingCancelled, BookingRejected, BookingCompleted:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled,
		BookingRejected, BookingCompleted, BookingRescheduled:
		return true
	}
	return false
}

// CanTransition encodes the booking state machine per actor role.
//
//	pending   --landlord--> confirmed | rejected
//	pending   --either----> cancelled
//	confirmed --landlord--> completed | rescheduled
//	confirmed --either----> cancelled
//
// Terminal statuses never transition, and nothing ever goes back to pending.
func CanTransition(role, from, to string) bool {
	if IsTerminalStatus(from) || from == to {
		return false
	}
	if to == BookingPending {
		return false
	}
	switch to {
	case BookingCancelled:
		// Either party may cancel an active booking.
		return from == BookingPending || from == BookingConfirmed
	case BookingConfirmed, BookingRejected:
		return role == "landlord" && from == BookingPending
	case BookingCompleted, BookingRescheduled:
		return role == "landlord" && from == BookingConfirmed
	}
	return false
}
