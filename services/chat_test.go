package services

import (
	"errors"
	"testing"
	"time"

	"github.com/bhumi3292/DreamDwell-web/models"
	"github.com/bhumi3292/DreamDwell-web/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrGetChatIsIdempotentPerPairAndProperty(t *testing.T) {
	db := newCoordinatorDB(t)
	landlord, tenant, _, property := seedParties(t, db)
	svc := NewChatService(db)

	chat, created, err := svc.CreateOrGetChat(tenant.ID, landlord.ID, nil)
	require.NoError(t, err)
	assert.True(t, created)

	// The same pair in reverse order resolves to the same chat.
	same, created, err := svc.CreateOrGetChat(landlord.ID, tenant.ID, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, chat.ID, same.ID)

	// A property-scoped chat for the pair is a separate conversation.
	scoped, created, err := svc.CreateOrGetChat(tenant.ID, landlord.ID, &property.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, chat.ID, scoped.ID)

	_, _, err = svc.CreateOrGetChat(tenant.ID, tenant.ID, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrValidation))

	_, _, err = svc.CreateOrGetChat(tenant.ID, 9999, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrNotFound))
}

func TestAppendMessageUpdatesChatPreview(t *testing.T) {
	db := newCoordinatorDB(t)
	landlord, tenant, other, _ := seedParties(t, db)
	svc := NewChatService(db)

	chat, _, err := svc.CreateOrGetChat(tenant.ID, landlord.ID, nil)
	require.NoError(t, err)

	msg, sender, err := svc.AppendMessage(chat.ID, tenant.ID, "  hello there  ")
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Text)
	assert.Equal(t, tenant.ID, sender.ID)
	assert.Equal(t, "Tara Shrestha", sender.FullName)

	var stored models.Chat
	require.NoError(t, db.First(&stored, chat.ID).Error)
	assert.Equal(t, "hello there", stored.LastMessage)
	assert.WithinDuration(t, msg.CreatedAt, stored.LastMessageAt, time.Second)

	// Non-participants can neither post nor read.
	_, _, err = svc.AppendMessage(chat.ID, other.ID, "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrAuthorization))

	_, err = svc.ListMessages(chat.ID, other.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrAuthorization))

	messages, err := svc.ListMessages(chat.ID, tenant.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello there", messages[0].Text)

	_, _, err = svc.AppendMessage(chat.ID, tenant.ID, "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrValidation))
}
