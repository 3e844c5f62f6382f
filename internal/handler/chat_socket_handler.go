package handler

import (
	"context"
	"encoding/json"
	"strings"

	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/internal/pkg/serverutils"
	"lexi-drafting-be/internal/service"
	internalWS "lexi-drafting-be/internal/websocket"
	"lexi-drafting-be/pkg/apperror"
	"lexi-drafting-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatSocketHandler runs the drafting dialogue over a websocket: one JSON
// request per frame in, one JSON reply per frame out. A connection is bound
// to one conversation, taken from ?conversation_id or freshly assigned.
type ChatSocketHandler struct {
	chatService service.IChatService
	hub         *internalWS.Hub
	logger      logger.ILogger
}

func NewChatSocketHandler(chatService service.IChatService, hub *internalWS.Hub, log logger.ILogger) *ChatSocketHandler {
	return &ChatSocketHandler{
		chatService: chatService,
		hub:         hub,
		logger:      log,
	}
}

func (h *ChatSocketHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/chat/v1")
	g.Use("ws", RequireUpgrade)
	g.Get("ws", websocket.New(h.serve))
}

func (h *ChatSocketHandler) serve(conn *websocket.Conn) {
	conversationID := strings.TrimSpace(conn.Query("conversation_id"))
	if conversationID == "" {
		conversationID = store.NewConversationID()
	}
	internalWS.ServeWs(h.hub, conn, conversationID, func(c *internalWS.Client, data []byte) {
		frame := h.Handle(context.Background(), conversationID, data)
		if !h.hub.Reply(c, frame) {
			h.logger.Warn("CHAT_WS", "Reply dropped", map[string]interface{}{"conversation_id": conversationID})
		}
	})
}

// Handle turns one inbound frame into the outbound frame.
func (h *ChatSocketHandler) Handle(ctx context.Context, conversationID string, data []byte) []byte {
	var req dto.ChatMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorFrame(apperror.Invalid("frame must be a JSON object with a message field"))
	}
	req.ConversationId = conversationID
	if err := serverutils.ValidateRequest(req); err != nil {
		return errorFrame(err)
	}

	reply, err := h.chatService.SendMessage(ctx, &req)
	if err != nil {
		if serverutils.StatusFor(err) == fiber.StatusInternalServerError {
			h.logger.Error("CHAT_WS", "Message failed", map[string]interface{}{"conversation_id": conversationID, "error": err.Error()})
		}
		return errorFrame(err)
	}

	out, err := json.Marshal(reply)
	if err != nil {
		return errorFrame(err)
	}
	return out
}

func errorFrame(err error) []byte {
	code := serverutils.StatusFor(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	out, _ := json.Marshal(serverutils.ErrorResponse(code, message))
	return out
}
