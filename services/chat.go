package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bhumi3292/DreamDwell-web/models"
	"github.com/bhumi3292/DreamDwell-web/utils"

	"gorm.io/gorm"
)

// ChatService owns the chat and chat_messages tables.
type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// SenderIdentity is the display identity broadcast with each relayed message.
type SenderIdentity struct {
	ID             uint   `json:"_id"`
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture"`
}

// CreateOrGetChat finds or lazily creates the one chat for a participant pair,
// optionally scoped to a property. Returns (chat, created, error).
func (s *ChatService) CreateOrGetChat(currentUserID, otherUserID uint, propertyID *uint) (*models.Chat, bool, error) {
	if otherUserID == 0 {
		return nil, false, utils.ValidationError("Other user ID is required.")
	}
	if currentUserID == otherUserID {
		return nil, false, utils.ValidationError("Cannot chat with yourself.")
	}

	var current, other models.User
	if err := s.db.First(&current, currentUserID).Error; err != nil {
		return nil, false, utils.NotFoundError("One or both users not found.")
	}
	if err := s.db.First(&other, otherUserID).Error; err != nil {
		return nil, false, utils.NotFoundError("One or both users not found.")
	}

	name := fmt.Sprintf("Chat between %s and %s", current.FullName(), other.FullName())
	if propertyID != nil {
		var property models.Property
		if err := s.db.First(&property, *propertyID).Error; err != nil {
			return nil, false, utils.NotFoundError("Property not found.")
		}
		name = fmt.Sprintf("Chat for %s: %s - %s", property.Title, current.FullName(), other.FullName())
	}

	one, two := models.OrderPair(currentUserID, otherUserID)
	query := s.db.Where("user_one_id = ? AND user_two_id = ?", one, two)
	if propertyID != nil {
		query = query.Where("property_id = ?", *propertyID)
	} else {
		query = query.Where("property_id IS NULL")
	}

	var chat models.Chat
	err := query.First(&chat).Error
	if err == nil {
		return &chat, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	chat = models.Chat{
		Name:          name,
		UserOneID:     one,
		UserTwoID:     two,
		PropertyID:    propertyID,
		LastMessageAt: time.Now(),
	}
	if createErr := s.db.Create(&chat).Error; createErr != nil {
		// Lost the creation race: the pair+property unique index fired, so the
		// winner's chat is the one to return.
		if retryErr := query.First(&chat).Error; retryErr == nil {
			return &chat, false, nil
		}
		return nil, false, createErr
	}
	return &chat, true, nil
}

// ListChats returns every chat the user participates in, most recent activity
// first.
func (s *ChatService) ListChats(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.db.Where("user_one_id = ? OR user_two_id = ?", userID, userID).
		Preload("UserOne").
		Preload("UserTwo").
		Preload("Property").
		Order("last_message_at DESC").
		Find(&chats).Error
	return chats, err
}

// GetChat loads one chat, enforcing that the caller is a participant.
func (s *ChatService) GetChat(chatID, userID uint) (*models.Chat, error) {
	var chat models.Chat
	if err := s.db.Preload("UserOne").Preload("UserTwo").Preload("Property").
		First(&chat, chatID).Error; err != nil {
		return nil, utils.NotFoundError("Chat not found.")
	}
	if !chat.HasParticipant(userID) {
		return nil, utils.AuthorizationError("Not authorized to access this chat.")
	}
	return &chat, nil
}

// ListMessages returns a chat's messages in persistence order.
func (s *ChatService) ListMessages(chatID, userID uint) ([]models.ChatMessage, error) {
	if _, err := s.GetChat(chatID, userID); err != nil {
		return nil, err
	}
	var messages []models.ChatMessage
	err := s.db.Where("chat_id = ?", chatID).
		Preload("Sender").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// AppendMessage persists a message and updates the chat's denormalized
// last-message fields. Persistence order is the delivery order the relay
// promises, so this is the serialization point.
func (s *ChatService) AppendMessage(chatID, senderID uint, text string) (*models.ChatMessage, *SenderIdentity, error) {
	text = strings.TrimSpace(text)
	if chatID == 0 || senderID == 0 || text == "" {
		return nil, nil, utils.ValidationError("Chat ID, sender ID and non-empty text are required.")
	}

	var chat models.Chat
	if err := s.db.First(&chat, chatID).Error; err != nil {
		return nil, nil, utils.NotFoundError("Chat not found.")
	}
	if !chat.HasParticipant(senderID) {
		return nil, nil, utils.AuthorizationError("Not authorized to access this chat.")
	}

	message := models.ChatMessage{ChatID: chatID, SenderID: senderID, Text: text}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, nil, err
	}

	if err := s.db.Model(&chat).Updates(map[string]interface{}{
		"last_message":    text,
		"last_message_at": message.CreatedAt,
	}).Error; err != nil {
		log.Printf("failed to update last-message preview for chat %d: %v", chatID, err)
	}

	return &message, s.ResolveSender(senderID), nil
}

// ResolveSender loads the sender's display identity. Resolution failure never
// fails a send; a placeholder identity is substituted instead.
func (s *ChatService) ResolveSender(senderID uint) *SenderIdentity {
	var sender models.User
	if err := s.db.First(&sender, senderID).Error; err != nil {
		return &SenderIdentity{ID: senderID, FullName: "Unknown user"}
	}
	return &SenderIdentity{
		ID:             sender.ID,
		FullName:       sender.FullName(),
		ProfilePicture: sender.AvatarURL,
	}
}
