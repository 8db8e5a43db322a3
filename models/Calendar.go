package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Availability is a landlord's per-day visit slot inventory for a property.
// Date is always stored at UTC midnight so lookups are exact-match by day.
// Whether a slot is actually bookable is never stored here; it is derived
// from active bookings on read. Uniqueness of (landlord, property, date) is
// enforced by a partial index created in storage.Migrate, so a soft-deleted
// record releases the tuple for re-creation.
type Availability struct {
	gorm.Model
	LandlordID uint           `json:"landlordID" gorm:"not null;index"`
	PropertyID uint           `json:"propertyID" gorm:"not null;index"`
	Date       time.Time      `json:"date" gorm:"not null;index"`
	TimeSlots  datatypes.JSON `json:"timeSlots"` // sorted, deduplicated string labels
	Property   Property       `json:"property" gorm:"foreignKey:PropertyID"`
}

// Slots decodes the TimeSlots column. A corrupt or empty column reads as no slots.
func (a *Availability) Slots() []string {
	if a.TimeSlots == nil {
		return nil
	}
	var slots []string
	if err := json.Unmarshal(a.TimeSlots, &slots); err != nil {
		return nil
	}
	return slots
}

// SetSlots encodes a slot list into the TimeSlots column.
func (a *Availability) SetSlots(slots []string) {
	if slots == nil {
		slots = []string{}
	}
	b, _ := json.Marshal(slots)
	a.TimeSlots = datatypes.JSON(b)
}
