package controller

import (
	"ecom-support-widget/internal/dto"
	"ecom-support-widget/internal/pkg/serverutils"
	"ecom-support-widget/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	RestoreSession(ctx *fiber.Ctx) error
	NewChat(ctx *fiber.Ctx) error
	EndChat(ctx *fiber.Ctx) error
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
	h := r.Group("/widget/v1")
	h.Post("chat", c.SendMessage)
	h.Get("session/:clientId", c.RestoreSession)
	h.Post("session", c.NewChat)
	h.Delete("session/:clientId", c.EndChat)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendMessage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatController) RestoreSession(ctx *fiber.Ctx) error {
	clientID := ctx.Params("clientId")
	if clientID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "client id is required")
	}

	res, err := c.chatService.RestoreSession(ctx.Context(), clientID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success restore session", res))
}

func (c *chatController) NewChat(ctx *fiber.Ctx) error {
	var req dto.NewChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.NewChat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create chat session", res))
}

func (c *chatController) EndChat(ctx *fiber.Ctx) error {
	clientID := ctx.Params("clientId")
	if clientID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "client id is required")
	}

	err := c.chatService.EndChat(ctx.Context(), &dto.CloseChatRequest{ClientID: clientID})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success end chat session", nil))
}
