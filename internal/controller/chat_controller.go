package controller

import (
	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/internal/pkg/serverutils"
	"lexi-drafting-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	Conversation(ctx *fiber.Ctx) error
	Instance(ctx *fiber.Ctx) error
	InstanceHtml(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("message", c.SendMessage)
	h.Get("conversations/:id", c.Conversation)
	h.Get("instances/:id", c.Instance)
	h.Get("instances/:id/html", c.InstanceHtml)
}

// SendMessage answers with the drafting reply itself, not the envelope.
func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	reply, err := c.chatService.SendMessage(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(reply)
}

func (c *chatController) Conversation(ctx *fiber.Ctx) error {
	res, err := c.chatService.Conversation(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show conversation", res))
}

func (c *chatController) Instance(ctx *fiber.Ctx) error {
	res, err := c.chatService.Instance(ctx.UserContext(), ctx.Params("id"), false)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show instance", res))
}

func (c *chatController) InstanceHtml(ctx *fiber.Ctx) error {
	res, err := c.chatService.Instance(ctx.UserContext(), ctx.Params("id"), true)
	if err != nil {
		return err
	}
	if res.DraftHtml == nil {
		return fiber.NewError(fiber.StatusNotFound, "Instance has no draft yet")
	}
	ctx.Type("html", "utf-8")
	return ctx.SendString(*res.DraftHtml)
}
