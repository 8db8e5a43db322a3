package models

import (
	"time"

	"gorm.io/gorm"
)

// Chat is a one-to-one conversation, optionally scoped to a property.
// Participants are stored in canonical order (UserOneID < UserTwoID) so that
// the pair+property uniqueness check is a single indexed lookup.
type Chat struct {
	gorm.Model
	Name          string    `json:"name" gorm:"size:256;default:'Direct Chat'"`
	UserOneID     uint      `json:"-" gorm:"not null;index"`
	UserTwoID     uint      `json:"-" gorm:"not null;index"`
	PropertyID    *uint     `json:"propertyID" gorm:"index"`
	LastMessage   string    `json:"lastMessage" gorm:"type:text"`
	LastMessageAt time.Time `json:"lastMessageAt" gorm:"index"`
	UserOne       User      `json:"userOne" gorm:"foreignKey:UserOneID"`
	UserTwo       User      `json:"userTwo" gorm:"foreignKey:UserTwoID"`
	Property      *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

// HasParticipant reports whether userID is one of the two chat members.
func (c *Chat) HasParticipant(userID uint) bool {
	return c.UserOneID == userID || c.UserTwoID == userID
}

// OrderPair returns the two user ids in canonical storage order.
func OrderPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// ChatMessage is one append-only message inside a chat.
type ChatMessage struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	ChatID    uint      `json:"chat" gorm:"not null;index"`
	SenderID  uint      `json:"-" gorm:"not null;index"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
	Sender    User      `json:"sender" gorm:"foreignKey:SenderID"`
}
