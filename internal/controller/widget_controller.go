package controller

import (
	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// widgetController is the unauthenticated surface embedded in customer
// sites. Every route past session creation carries a session id instead of a
// bearer token.
type IWidgetController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	ValidateSession(ctx *fiber.Ctx) error
	CreateConversation(ctx *fiber.Ctx) error
	GetConversation(ctx *fiber.Ctx) error
	GetConversations(ctx *fiber.Ctx) error
	CreateMessage(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
}

type widgetController struct {
	sessionService      service.ISessionService
	conversationService service.IConversationService
	messageService      service.IMessageService
	accessGuard         service.IAccessGuardService
}

func NewWidgetController(
	sessionService service.ISessionService,
	conversationService service.IConversationService,
	messageService service.IMessageService,
	accessGuard service.IAccessGuardService,
) IWidgetController {
	return &widgetController{
		sessionService:      sessionService,
		conversationService: conversationService,
		messageService:      messageService,
		accessGuard:         accessGuard,
	}
}

func (c *widgetController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/widget/v1")
	h.Post("session", c.CreateSession)
	h.Post("session/validate", c.ValidateSession)
	h.Post("conversation", c.CreateConversation)
	h.Get("conversation", c.GetConversations)
	h.Get("conversation/:id", c.GetConversation)
	h.Post("message", c.CreateMessage)
	h.Get("message/thread/:threadId", c.GetMessages)
}

func (c *widgetController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *widgetController) ValidateSession(ctx *fiber.Ctx) error {
	var req dto.ValidateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Validate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success validate session", res))
}

type widgetCreateConversationRequest struct {
	OrganizationId string    `json:"organization_id" validate:"required"`
	SessionId      uuid.UUID `json:"session_id" validate:"required"`
}

func (c *widgetController) CreateConversation(ctx *fiber.Ctx) error {
	var req widgetCreateConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	principal, err := contactPrincipal(ctx, c.accessGuard, req.SessionId.String())
	if err != nil {
		return err
	}

	res, err := c.conversationService.Create(ctx.Context(), principal, &dto.CreateConversationRequest{
		OrganizationId:   req.OrganizationId,
		ContactSessionId: req.SessionId,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create conversation", res))
}

func (c *widgetController) GetConversation(ctx *fiber.Ctx) error {
	principal, err := contactPrincipal(ctx, c.accessGuard, ctx.Query("session_id"))
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NotFound("Conversation not found")
	}

	res, err := c.conversationService.GetOneForContact(ctx.Context(), principal, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show conversation", res))
}

func (c *widgetController) GetConversations(ctx *fiber.Ctx) error {
	principal, err := contactPrincipal(ctx, c.accessGuard, ctx.Query("session_id"))
	if err != nil {
		return err
	}

	req := dto.ListConversationsRequest{
		Cursor:   ctx.Query("cursor"),
		PageSize: ctx.QueryInt("page_size", dto.DefaultPageSize),
	}

	res, err := c.conversationService.GetManyForContact(ctx.Context(), principal, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list conversations", res))
}

type widgetCreateMessageRequest struct {
	SessionId      uuid.UUID `json:"session_id" validate:"required"`
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Content        string    `json:"content" validate:"required"`
}

func (c *widgetController) CreateMessage(ctx *fiber.Ctx) error {
	var req widgetCreateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	principal, err := contactPrincipal(ctx, c.accessGuard, req.SessionId.String())
	if err != nil {
		return err
	}

	res, err := c.messageService.CreateForContact(ctx.Context(), principal, &dto.CreateMessageRequest{
		ConversationId: req.ConversationId,
		Content:        req.Content,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create message", res))
}

func (c *widgetController) GetMessages(ctx *fiber.Ctx) error {
	principal, err := contactPrincipal(ctx, c.accessGuard, ctx.Query("session_id"))
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
