package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bhumi3292/DreamDwell-web/models"
	"github.com/bhumi3292/DreamDwell-web/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore mimics the chat store's append semantics without a database.
type fakeStore struct {
	appended []models.ChatMessage
	failWith error
}

func (f *fakeStore) AppendMessage(chatID, senderID uint, text string) (*models.ChatMessage, *SenderIdentity, error) {
	if f.failWith != nil {
		return nil, nil, f.failWith
	}
	text = strings.TrimSpace(text)
	if chatID == 0 || senderID == 0 || text == "" {
		return nil, nil, utils.ValidationError("Chat ID, sender ID and non-empty text are required.")
	}
	msg := models.ChatMessage{
		ID:        uint(len(f.appended) + 1),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	f.appended = append(f.appended, msg)
	identity := &SenderIdentity{ID: senderID, FullName: fmt.Sprintf("User %d", senderID)}
	return &msg, identity, nil
}

func recvEvent(t *testing.T, c *RelayClient) *RelayEvent {
	t.Helper()
	select {
	case evt := <-c.Send():
		return &evt
	default:
		return nil
	}
}

func sendEvent(t *testing.T, r *ChatRelay, c *RelayClient, event string, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(RelayEvent{Event: event, Data: mustJSON(t, data)})
	require.NoError(t, err)
	r.HandleEvent(c, raw)
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestJoinAndLeaveAreIdempotent(t *testing.T) {
	relay := NewChatRelay(&fakeStore{})
	c := relay.Connect(1)

	relay.Join(c, 7)
	relay.Join(c, 7)
	assert.Equal(t, 1, relay.RoomSize(7))

	relay.Leave(c, 7)
	relay.Leave(c, 7)   // already gone, logged not errored
	relay.Leave(c, 999) // unknown room, logged not errored
	assert.Equal(t, 0, relay.RoomSize(7))

	// Joining room id 0 is ignored entirely.
	relay.Join(c, 0)
	assert.Equal(t, 0, relay.RoomSize(0))
}

func TestSendMessagePersistsThenBroadcastsToRoom(t *testing.T) {
	store := &fakeStore{}
	relay := NewChatRelay(store)

	sender := relay.Connect(1)
	senderOtherTab := relay.Connect(1)
	peer := relay.Connect(2)
	outsider := relay.Connect(3)

	relay.Join(sender, 7)
	relay.Join(senderOtherTab, 7)
	relay.Join(peer, 7)
	relay.Join(outsider, 8)

	sendEvent(t, relay, sender, "sendMessage", sendMessagePayload{ChatID: 7, SenderID: 1, Text: "hello"})

	require.Len(t, store.appended, 1)
	assert.Equal(t, "hello", store.appended[0].Text)

	// Every room subscriber gets it, the sender's own connections included.
	for _, c := range []*RelayClient{sender, senderOtherTab, peer} {
		evt := recvEvent(t, c)
		require.NotNil(t, evt)
		assert.Equal(t, "newMessage", evt.Event)

		var payload struct {
			Text   string         `json:"text"`
			Chat   uint           `json:"chat"`
			Sender SenderIdentity `json:"sender"`
		}
		require.NoError(t, json.Unmarshal(evt.Data, &payload))
		assert.Equal(t, "hello", payload.Text)
		assert.Equal(t, uint(7), payload.Chat)
		assert.Equal(t, uint(1), payload.Sender.ID)
	}

	// Other rooms hear nothing.
	assert.Nil(t, recvEvent(t, outsider))
}

func TestEmptyTextNeverPersistsOrBroadcasts(t *testing.T) {
	store := &fakeStore{}
	relay := NewChatRelay(store)

	sender := relay.Connect(1)
	peer := relay.Connect(2)
	relay.Join(sender, 7)
	relay.Join(peer, 7)

	sendEvent(t, relay, sender, "sendMessage", sendMessagePayload{ChatID: 7, SenderID: 1, Text: "   "})

	assert.Empty(t, store.appended)

	evt := recvEvent(t, sender)
	require.NotNil(t, evt)
	assert.Equal(t, "messageError", evt.Event)

	assert.Nil(t, recvEvent(t, peer))
}

func TestSendMessageRejectsMismatchedSender(t *testing.T) {
	store := &fakeStore{}
	relay := NewChatRelay(store)

	c := relay.Connect(1)
	relay.Join(c, 7)

	sendEvent(t, relay, c, "sendMessage", sendMessagePayload{ChatID: 7, SenderID: 2, Text: "spoof"})

	assert.Empty(t, store.appended)
	evt := recvEvent(t, c)
	require.NotNil(t, evt)
	assert.Equal(t, "messageError", evt.Event)
}

func TestStoreFailureIsScopedToSender(t *testing.T) {
	store := &fakeStore{failWith: utils.NotFoundError("Chat not found.")}
	relay := NewChatRelay(store)

	sender := relay.Connect(1)
	peer := relay.Connect(2)
	relay.Join(sender, 7)
	relay.Join(peer, 7)

	sendEvent(t, relay, sender, "sendMessage", sendMessagePayload{ChatID: 7, SenderID: 1, Text: "hi"})

	evt := recvEvent(t, sender)
	require.NotNil(t, evt)
	assert.Equal(t, "messageError", evt.Event)
	assert.Nil(t, recvEvent(t, peer))
}

func TestTypingExcludesSenderAndIsBestEffort(t *testing.T) {
	relay := NewChatRelay(&fakeStore{})

	sender := relay.Connect(1)
	peer := relay.Connect(2)
	relay.Join(sender, 7)
	relay.Join(peer, 7)

	sendEvent(t, relay, sender, "typing", typingPayload{ChatID: 7, SenderID: 1})

	evt := recvEvent(t, peer)
	require.NotNil(t, evt)
	assert.Equal(t, "typing", evt.Event)

	var payload typingPayload
	require.NoError(t, json.Unmarshal(evt.Data, &payload))
	assert.Equal(t, uint(7), payload.ChatID)
	assert.Equal(t, uint(1), payload.SenderID)

	assert.Nil(t, recvEvent(t, sender))

	// Missing ids are dropped silently: no error event, no broadcast.
	sendEvent(t, relay, sender, "typing", typingPayload{ChatID: 0, SenderID: 1})
	assert.Nil(t, recvEvent(t, peer))
	assert.Nil(t, recvEvent(t, sender))
}

func TestDisconnectDropsAllMemberships(t *testing.T) {
	relay := NewChatRelay(&fakeStore{})

	c := relay.Connect(1)
	relay.Join(c, 7)
	relay.Join(c, 8)

	relay.Disconnect(c)
	assert.Equal(t, 0, relay.RoomSize(7))
	assert.Equal(t, 0, relay.RoomSize(8))

	// The event stream is closed once disconnected.
	_, open := <-c.Send()
	assert.False(t, open)
}

func TestMalformedEventEmitsScopedError(t *testing.T) {
	relay := NewChatRelay(&fakeStore{})
	c := relay.Connect(1)

	relay.HandleEvent(c, []byte("{not json"))

	evt := recvEvent(t, c)
	require.NotNil(t, evt)
	assert.Equal(t, "messageError", evt.Event)
}
