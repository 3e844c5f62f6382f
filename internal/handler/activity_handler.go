package handler

import (
	"lexi-drafting-be/internal/pkg/logger"
	"lexi-drafting-be/internal/pkg/serverutils"
	"lexi-drafting-be/internal/service"
	internalWS "lexi-drafting-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ActivityHandler streams drafting events (templates created, drafts
// generated, documents uploaded) to feed clients.
type ActivityHandler struct {
	service service.IActivityService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewActivityHandler(service service.IActivityService, hub *internalWS.Hub, log logger.ILogger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (h *ActivityHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/activity/v1")
	g.Get("recent", h.Recent)
	g.Use("ws", RequireUpgrade)
	g.Get("ws", websocket.New(h.serve))
}

func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	return c.JSON(serverutils.SuccessResponse("Success list activity", h.service.Recent()))
}

func (h *ActivityHandler) serve(conn *websocket.Conn) {
	h.logger.Debug("ACTIVITY", "Feed client connected", nil)
	internalWS.ServeWs(h.hub, conn, internalWS.FeedChannel, nil)
}

// RequireUpgrade rejects plain HTTP requests on websocket routes.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
