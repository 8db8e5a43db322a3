package models

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"-"`
	AvatarURL   string `json:"profilePicture"`
	Role        string `json:"role" gorm:"type:varchar(20);default:tenant;index"` // tenant, landlord
}

// FullName joins first and last name for display (chat sender identity).
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
