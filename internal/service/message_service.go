package service

import (
	"context"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/agent"
	"support-chat-be/pkg/events"
	pktNats "support-chat-be/pkg/nats"

	"github.com/google/uuid"
)

type IMessageService interface {
	// Create appends an operator reply. Operators speak with the assistant
	// role: the widget renders their messages as the agent's.
	Create(ctx context.Context, principal entity.Principal, req *dto.CreateMessageRequest) (*dto.CreateMessageResponse, error)
	// CreateForContact appends an end-user message and, unless a human has
	// taken over, asks the support agent for a reply.
	CreateForContact(ctx context.Context, principal entity.Principal, req *dto.CreateMessageRequest) (*dto.CreateMessageResponse, error)
	GetMany(ctx context.Context, principal entity.Principal, threadId uuid.UUID, cursor string, pageSize int) (*dto.Page[*dto.MessageResponse], error)
	Enhance(ctx context.Context, principal entity.Principal, req *dto.EnhanceResponseRequest) (*dto.EnhanceResponseResponse, error)
}

type messageService struct {
	uowFactory     unitofwork.RepositoryFactory
	supportAgent   *agent.SupportAgent
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	now            NowFunc
}

func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	supportAgent *agent.SupportAgent,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	now NowFunc,
) IMessageService {
	return &messageService{
		uowFactory:     uowFactory,
		supportAgent:   supportAgent,
		eventPublisher: eventPublisher,
		logger:         log,
		now:            now,
	}
}

func (s *messageService) Create(ctx context.Context, principal entity.Principal, req *dto.CreateMessageRequest) (*dto.CreateMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.findWritable(ctx, uow, principal, req.ConversationId)
	if err != nil {
		return nil, err
	}

	message := &entity.ChatMessage{
		Id:        uuid.New(),
		ThreadId:  conversation.ThreadId,
		Role:      entity.MessageRoleAssistant,
		Content:   req.Content,
		CreatedAt: s.now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	s.emit(ctx, conversation, message)

	return &dto.CreateMessageResponse{Message: toMessageResponse(message)}, nil
}

func (s *messageService) CreateForContact(ctx context.Context, principal entity.Principal, req *dto.CreateMessageRequest) (*dto.CreateMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.findWritable(ctx, uow, principal, req.ConversationId)
	if err != nil {
		return nil, err
	}

	message := &entity.ChatMessage{
		Id:        uuid.New(),
		ThreadId:  conversation.ThreadId,
		Role:      entity.MessageRoleUser,
		Content:   req.Content,
		CreatedAt: s.now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}

	s.emit(ctx, conversation, message)

	response := &dto.CreateMessageResponse{Message: toMessageResponse(message)}

	// Escalated means a human operator owns the thread: the agent stays out.
	if conversation.Status == entity.ConversationStatusEscalated || s.supportAgent == nil {
		return response, nil
	}

	reply, err := s.agentReply(ctx, uow, conversation)
	if err != nil {
		// The user's message is already saved; a model outage degrades to
		// silence, not a failed request.
		s.logger.Warn("MessageService", "Support agent reply failed", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           err.Error(),
		})
		return response, nil
	}

	s.emit(ctx, conversation, reply)
	response.Reply = toMessageResponse(reply)
	return response, nil
}

func (s *messageService) agentReply(ctx context.Context, uow unitofwork.UnitOfWork, conversation *entity.Conversation) (*entity.ChatMessage, error) {
	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByThreadID{ThreadID: conversation.ThreadId},
		specification.OrderBy{Field: "(created_at, id)", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	text, err := s.supportAgent.Reply(ctx, conversation.OrganizationId, history)
	if err != nil {
		return nil, err
	}

	reply := &entity.ChatMessage{
		Id:        uuid.New(),
		ThreadId:  conversation.ThreadId,
		Role:      entity.MessageRoleAssistant,
		Content:   text,
		CreatedAt: s.now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// GetMany pages a thread's messages oldest first, so a page renders in
// reading order and continuation appends below.
func (s *messageService) GetMany(ctx context.Context, principal entity.Principal, threadId uuid.UUID, cursorStr string, pageSize int) (*dto.Page[*dto.MessageResponse], error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByThreadID{ThreadID: threadId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("Conversation not found")
	}
	if !principal.OwnsConversation(conversation) {
		if principal.IsOperator() {
			return nil, apperror.Unauthorized("Invalid Organization Id")
		}
		return nil, apperror.Unauthorized("Incorrect session")
	}

	pageSize = dto.ClampPageSize(pageSize)
	specs := []specification.Specification{
		specification.ByThreadID{ThreadID: threadId},
	}
	cursor, err := dto.DecodeCursor(cursorStr)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if cursor != nil {
		specs = append(specs, specification.CreatedAfter{CreatedAt: cursor.CreatedAt, ID: cursor.Id})
	}
	specs = append(specs,
		specification.OrderBy{Field: "(created_at, id)", Desc: false},
		specification.Limit{Limit: pageSize + 1},
	)

	messages, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	isDone := len(messages) <= pageSize
	if !isDone {
		messages = messages[:pageSize]
	}

	items := make([]*dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, toMessageResponse(message))
	}

	page := &dto.Page[*dto.MessageResponse]{
		Page:   items,
		IsDone: isDone,
	}
	if !isDone && len(messages) > 0 {
		last := messages[len(messages)-1]
		page.ContinueCursor = dto.Cursor{CreatedAt: last.CreatedAt, Id: last.Id}.Encode()
	}
	return page, nil
}

func (s *messageService) Enhance(ctx context.Context, principal entity.Principal, req *dto.EnhanceResponseRequest) (*dto.EnhanceResponseResponse, error) {
	if s.supportAgent == nil {
		return nil, apperror.BadRequest("no language model configured")
	}
	text, err := s.supportAgent.Enhance(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}
	return &dto.EnhanceResponseResponse{Text: text}, nil
}

// findWritable resolves the conversation and enforces both the ownership
// checks and the resolved-is-closed rule shared by both write paths.
func (s *messageService) findWritable(ctx context.Context, uow unitofwork.UnitOfWork, principal entity.Principal, conversationId uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("Conversation not found")
	}
	if !principal.OwnsConversation(conversation) {
		if principal.IsOperator() {
			return nil, apperror.Unauthorized("Invalid Organization Id")
		}
		return nil, apperror.Unauthorized("Incorrect session")
	}
	if conversation.Status == entity.ConversationStatusResolved {
		return nil, apperror.BadRequest("Conversation is resolved")
	}
	return conversation, nil
}

func (s *messageService) emit(ctx context.Context, conversation *entity.Conversation, message *entity.ChatMessage) {
	evt := events.NewConversationEvent(
		events.TypeMessageCreated,
		conversation.OrganizationId,
		conversation.Id.String(),
		map[string]interface{}{
			"message_id": message.Id.String(),
			"role":       message.Role,
		},
	)
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("MessageService", "Failed to publish event", map[string]interface{}{
			"type":  evt.Type,
			"error": err.Error(),
		})
	}
}

func toMessageResponse(message *entity.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:        message.Id,
		ThreadId:  message.ThreadId,
		Role:      message.Role,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
}
