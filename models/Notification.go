package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"not null;index"`
	Type    string `json:"type" gorm:"size:48;index"`
	Title   string `json:"title" gorm:"size:256"`
	Message string `json:"message" gorm:"type:text"`
	RefType string `json:"refType" gorm:"size:32"`
	RefID   uint   `json:"refID"`
	IsRead  bool   `json:"isRead" gorm:"default:false;index"`
}
