package controller

import (
	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetMany(ctx *fiber.Ctx) error
	Enhance(ctx *fiber.Ctx) error
}

type messageController struct {
	messageService service.IMessageService
	accessGuard    service.IAccessGuardService
}

func NewMessageController(messageService service.IMessageService, accessGuard service.IAccessGuardService) IMessageController {
	return &messageController{
		messageService: messageService,
		accessGuard:    accessGuard,
	}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/message/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Post("enhance", c.Enhance)
	h.Get("thread/:threadId", c.GetMany)
}

func (c *messageController) Create(ctx *fiber.Ctx) error {
	principal, err := operatorPrincipal(ctx, c.accessGuard)
	if err != nil {
		return err
	}

	var req dto.CreateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.messageService.Create(ctx.Context(), principal, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create message", res))
}

func (c *messageController) GetMany(ctx *fiber.Ctx) error {
	principal, err := operatorPrincipal(ctx, c.accessGuard)
	if err != nil {
		return err
	}

	threadId, err := uuid.Parse(ctx.Params("threadId"))
	if err != nil {
		return apperror.NotFound("Conversation not found")
	}

	res, err := c.messageService.GetMany(ctx.Context(), principal, threadId,
		ctx.Query("cursor"), ctx.QueryInt("page_size", dto.DefaultPageSize))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list messages", res))
}

func (c *messageController) Enhance(ctx *fiber.Ctx) error {
	principal, err := operatorPrincipal(ctx, c.accessGuard)
	if err != nil {
		return err
	}

	var req dto.EnhanceResponseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.messageService.Enhance(ctx.Context(), principal, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success enhance response", res))
}
