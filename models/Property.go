package models

import (
	"gorm.io/gorm"
)

// Property is managed by an external CRUD surface; this service only reads it
// for ownership checks and chat/booking previews.
type Property struct {
	gorm.Model
	LandlordID uint   `json:"landlordID" gorm:"not null;index"`
	Title      string `json:"title"`
	City       string `json:"city"`
	Images     string `json:"images"` // JSON array of URLs
	Landlord   User   `json:"landlord" gorm:"foreignKey:LandlordID;references:ID"`
}
