package routes

import (
	"net/http"
	"sync"

	"github.com/bhumi3292/DreamDwell-web/services"
	"github.com/bhumi3292/DreamDwell-web/storage"
	"github.com/bhumi3292/DreamDwell-web/utils"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
)

type CreateOrGetChatInput struct {
	OtherUserID uint  `json:"otherUserId" validate:"required"`
	PropertyID  *uint `json:"propertyId"`
}

var (
	relayOnce sync.Once
	chatRelay *services.ChatRelay
)

// Relay returns the process-wide chat relay, creating it on first use.
func Relay() *services.ChatRelay {
	relayOnce.Do(func() {
		chatRelay = services.NewChatRelay(services.NewChatService(storage.DB))
	})
	return chatRelay
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the SPA origin; auth is the JWT, not the origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// CreateOrGetChat lazily creates (or returns) the chat between the caller and
// another user, optionally scoped to a property.
func CreateOrGetChat(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateOrGetChatInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	chat, created, err := services.NewChatService(storage.DB).
		CreateOrGetChat(userID, input.OtherUserID, input.PropertyID)
	if err != nil {
		utils.HandleServiceError(ctx, err)
		return
	}

	if created {
		ctx.StatusCode(http.StatusCreated)
		ctx.JSON(iris.Map{"success": true, "message": "New chat created.", "data": chat})
		return
	}
	ctx.JSON(iris.Map{"success": true, "message": "Existing chat retrieved.", "data": chat})
}

// GetMyChats lists the caller's chats, most recent activity first.
func GetMyChats(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	chats, err := services.NewChatService(storage.DB).ListChats(userID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": chats})
}

// GetChatByID returns one chat; participants only.
func GetChatByID(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	chatID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Invalid chat ID."})
		return
	}

	chat, svcErr := services.NewChatService(storage.DB).GetChat(chatID, userID)
	if svcErr != nil {
		utils.HandleServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": chat})
}

// GetChatMessages returns a chat's messages in persistence order.
func GetChatMessages(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	chatID, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Invalid chat ID."})
		return
	}

	messages, svcErr := services.NewChatService(storage.DB).ListMessages(chatID, userID)
	if svcErr != nil {
		utils.HandleServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": messages})
}

// ChatWebSocket upgrades the connection and hands it to the relay. Room
// membership lives only as long as the socket; reconnecting clients re-join.
func ChatWebSocket(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	conn, err := upgrader.Upgrade(ctx.ResponseWriter(), ctx.Request(), nil)
	if err != nil {
		// Upgrade already wrote the handshake failure.
		return
	}

	Relay().ServeConn(conn, userID)
}
