package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bhumi3292/DreamDwell-web/models"
	"github.com/bhumi3292/DreamDwell-web/storage"

	"github.com/gorilla/websocket"
)

var bgCtx = context.Background()

// messageStore is the slice of the chat layer the relay needs: persist first,
// then broadcast. Narrow so relay behavior is testable without a database.
type messageStore interface {
	AppendMessage(chatID, senderID uint, text string) (*models.ChatMessage, *SenderIdentity, error)
}

// RelayEvent is the wire envelope for both directions of the socket channel.
type RelayEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func makeEvent(event string, data interface{}) RelayEvent {
	b, _ := json.Marshal(data)
	return RelayEvent{Event: event, Data: b}
}

// RelayClient is one live socket connection. A user may hold several at once;
// each joins rooms independently and membership dies with the connection.
type RelayClient struct {
	UserID uint
	send   chan RelayEvent
}

// Send exposes the outbound event stream for the connection's write pump.
func (c *RelayClient) Send() <-chan RelayEvent { return c.send }

// ChatRelay fans newly persisted chat messages out to every connection
// currently joined to the chat's room. Room membership is in-process state
// scoped to the relay's lifetime; reconnecting clients must re-join.
type ChatRelay struct {
	store messageStore

	mu    sync.RWMutex
	rooms map[uint]map[*RelayClient]bool
}

func NewChatRelay(store messageStore) *ChatRelay {
	return &ChatRelay{
		store: store,
		rooms: make(map[uint]map[*RelayClient]bool),
	}
}

// Connect registers a new client for an authenticated user.
func (r *ChatRelay) Connect(userID uint) *RelayClient {
	return &RelayClient{UserID: userID, send: make(chan RelayEvent, 32)}
}

// Disconnect removes the client from every room and closes its event stream.
func (r *ChatRelay) Disconnect(c *RelayClient) {
	r.mu.Lock()
	for chatID, members := range r.rooms {
		if members[c] {
			delete(members, c)
			if len(members) == 0 {
				delete(r.rooms, chatID)
			}
		}
	}
	r.mu.Unlock()
	close(c.send)
}

// Join subscribes the client to a chat room. Idempotent; a zero room id is
// logged and ignored.
func (r *ChatRelay) Join(c *RelayClient, chatID uint) {
	if chatID == 0 {
		log.Printf("relay: ignoring join with missing chat id from user %d", c.UserID)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	members := r.rooms[chatID]
	if members == nil {
		members = make(map[*RelayClient]bool)
		r.rooms[chatID] = members
	}
	members[c] = true
}

// Leave unsubscribes the client from a room. Idempotent; unknown rooms are
// logged and ignored.
func (r *ChatRelay) Leave(c *RelayClient, chatID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[chatID]
	if !ok || !members[c] {
		log.Printf("relay: ignoring leave for room %d from user %d", chatID, c.UserID)
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(r.rooms, chatID)
	}
}

// RoomSize reports the current number of subscribers for a chat.
func (r *ChatRelay) RoomSize(chatID uint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[chatID])
}

type sendMessagePayload struct {
	ChatID   uint   `json:"chatId"`
	SenderID uint   `json:"senderId"`
	Text     string `json:"text"`
}

type typingPayload struct {
	ChatID   uint `json:"chatId"`
	SenderID uint `json:"senderId"`
}

// HandleEvent dispatches one inbound client event. Failures never propagate to
// the transport: anything wrong with a sendMessage becomes a messageError on
// the offending connection only.
func (r *ChatRelay) HandleEvent(c *RelayClient, raw []byte) {
	var evt RelayEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		r.emitError(c, "Malformed event.")
		return
	}

	switch evt.Event {
	case "joinChat":
		var chatID uint
		if err := json.Unmarshal(evt.Data, &chatID); err != nil {
			log.Printf("relay: ignoring join with invalid chat id from user %d", c.UserID)
			return
		}
		r.Join(c, chatID)
	case "leaveChat":
		var chatID uint
		if err := json.Unmarshal(evt.Data, &chatID); err != nil {
			log.Printf("relay: ignoring leave with invalid chat id from user %d", c.UserID)
			return
		}
		r.Leave(c, chatID)
	case "sendMessage":
		var payload sendMessagePayload
		if err := json.Unmarshal(evt.Data, &payload); err != nil {
			r.emitError(c, "Malformed message payload.")
			return
		}
		r.sendMessage(c, payload)
	case "typing":
		var payload typingPayload
		if err := json.Unmarshal(evt.Data, &payload); err != nil {
			return
		}
		r.typing(c, payload)
	default:
		log.Printf("relay: unknown event %q from user %d", evt.Event, c.UserID)
	}
}

func (r *ChatRelay) sendMessage(c *RelayClient, payload sendMessagePayload) {
	if payload.ChatID == 0 || payload.SenderID == 0 {
		r.emitError(c, "Chat ID and sender ID are required.")
		return
	}
	if payload.SenderID != c.UserID {
		r.emitError(c, "Sender does not match the authenticated connection.")
		return
	}

	message, sender, err := r.store.AppendMessage(payload.ChatID, payload.SenderID, payload.Text)
	if err != nil {
		r.emitError(c, err.Error())
		return
	}

	// Broadcast to everyone in the room, the sender's other connections
	// included. Slow subscribers miss the push but keep the stored message.
	r.broadcast(payload.ChatID, makeEvent("newMessage", map[string]interface{}{
		"_id":       message.ID,
		"sender":    sender,
		"text":      message.Text,
		"createdAt": message.CreatedAt,
		"chat":      message.ChatID,
	}), nil)
}

func (r *ChatRelay) typing(c *RelayClient, payload typingPayload) {
	if payload.ChatID == 0 || payload.SenderID == 0 {
		return
	}

	// Best-effort presence key so clients polling over HTTP see it too.
	if storage.Redis != nil {
		key := fmt.Sprintf("typing:chat:%d:user:%d", payload.ChatID, payload.SenderID)
		storage.Redis.Set(bgCtx, key, "1", 5*time.Second)
	}

	r.broadcast(payload.ChatID, makeEvent("typing", payload), c)
}

// broadcast delivers an event to every room subscriber except the excluded
// client. Full send buffers are dropped rather than blocking the room.
func (r *ChatRelay) broadcast(chatID uint, evt RelayEvent, except *RelayClient) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for client := range r.rooms[chatID] {
		if client == except {
			continue
		}
		select {
		case client.send <- evt:
		default:
			log.Printf("relay: dropping event for slow subscriber (user %d, chat %d)", client.UserID, chatID)
		}
	}
}

func (r *ChatRelay) emitError(c *RelayClient, message string) {
	select {
	case c.send <- makeEvent("messageError", map[string]string{"message": message}):
	default:
	}
}

// ServeConn runs the read/write pumps for a websocket connection until it
// drops, then tears down the client's room memberships.
func (r *ChatRelay) ServeConn(conn *websocket.Conn, userID uint) {
	client := r.Connect(userID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range client.send {
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		r.HandleEvent(client, raw)
	}

	r.Disconnect(client)
	<-done
	conn.Close()
}
