package controller

import (
	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	GetMany(ctx *fiber.Ctx) error
	GetOne(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
	ToggleStatus(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
	accessGuard         service.IAccessGuardService
}

func NewConversationController(conversationService service.IConversationService, accessGuard service.IAccessGuardService) IConversationController {
	return &conversationController{
		conversationService: conversationService,
		accessGuard:         accessGuard,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetMany)
	h.Get(":id", c.GetOne)
	h.Patch(":id/status", c.UpdateStatus)
	h.Post(":id/toggle", c.ToggleStatus)
}

func (c *conversationController) GetMany(ctx *fiber.Ctx) error {
	principal, err := operatorPrincipal(ctx, c.accessGuard)
	if err != nil {
		return err
	}

	req := dto.ListConversationsRequest{
		Cursor:   ctx.Query("cursor"),
		PageSize: ctx.QueryInt("page_size", dto.DefaultPageSize),
		Status:   ctx.Query("status"),
	}

	res, err := c.conversationService.GetMany(ctx.Context(), principal, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list conversations", res))
}

func (c *conversationController) GetOne(ctx *fiber.Ctx) error {
	principal, err := operatorPrincipal(ctx, c.accessGuard)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NotFound("Conversation not found")
	}

	res, err := c.conversationService.GetOne(ctx.Context(), principal, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show conversation", res))
}

func (c *conversationController) UpdateStatus(ctx *fiber.Ctx) error {
	principal, err := operatorPrincipal(ctx, c.accessGuard)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NotFound("Conversation not found")
	}

	var req dto.UpdateConversationStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.conversationService.UpdateStatus(ctx.Context(), principal, id, entity.ConversationStatus(req.Status)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update status", fiber.Map{"status": req.Status}))
}

func (c *conversationController) ToggleStatus(ctx *fiber.Ctx) error {
	principal, err := operatorPrincipal(ctx, c.accessGuard)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NotFound("Conversation not found")
	}

	res, err := c.conversationService.ToggleStatus(ctx.Context(), principal, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle status", res))
}
