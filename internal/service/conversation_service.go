package service

import (
	"context"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/pkg/mailer"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/events"
	pktNats "support-chat-be/pkg/nats"

	"github.com/google/uuid"
)

type IConversationService interface {
	Create(ctx context.Context, principal entity.Principal, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error)
	GetOne(ctx context.Context, principal entity.Principal, conversationId uuid.UUID) (*dto.ConversationDetailResponse, error)
	GetOneForContact(ctx context.Context, principal entity.Principal, conversationId uuid.UUID) (*dto.WidgetConversationResponse, error)
	GetMany(ctx context.Context, principal entity.Principal, req *dto.ListConversationsRequest) (*dto.Page[*dto.ConversationListItem], error)
	GetManyForContact(ctx context.Context, principal entity.Principal, req *dto.ListConversationsRequest) (*dto.Page[*dto.ConversationListItem], error)
	UpdateStatus(ctx context.Context, principal entity.Principal, conversationId uuid.UUID, status entity.ConversationStatus) error
	ToggleStatus(ctx context.Context, principal entity.Principal, conversationId uuid.UUID) (*dto.ToggleConversationStatusResponse, error)
}

type conversationService struct {
	uowFactory      unitofwork.RepositoryFactory
	eventPublisher  *pktNats.Publisher
	emailService    mailer.IEmailService
	greetingMessage string
	logger          logger.ILogger
	now             NowFunc
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	greetingMessage string,
	log logger.ILogger,
	now NowFunc,
) IConversationService {
	return &conversationService{
		uowFactory:      uowFactory,
		eventPublisher:  eventPublisher,
		emailService:    emailService,
		greetingMessage: greetingMessage,
		logger:          log,
		now:             now,
	}
}

// Create opens a conversation for a widget session. The thread, the seeded
// assistant greeting and the conversation row commit atomically: a failure
// between the steps must not leave an orphaned thread.
func (s *conversationService) Create(ctx context.Context, principal entity.Principal, req *dto.CreateConversationRequest) (*dto.CreateConversationResponse, error) {
	session := principal.Session
	if session == nil {
		return nil, apperror.Unauthorized("Invalid session")
	}

	now := s.now()
	conversation := &entity.Conversation{
		Id:               uuid.New(),
		OrganizationId:   req.OrganizationId,
		ContactSessionId: session.Id,
		ThreadId:         uuid.New(),
		Status:           entity.ConversationStatusUnresolved,
		CreatedAt:        now,
	}
	greeting := &entity.ChatMessage{
		Id:       uuid.New(),
		ThreadId: conversation.ThreadId,
		Role:     entity.MessageRoleAssistant,
		// TODO: source the greeting from per-organization widget settings
		Content:   s.greetingMessage,
		CreatedAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, greeting); err != nil {
		return nil, err
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.emit(ctx, events.NewConversationEvent(
		events.TypeConversationCreated,
		conversation.OrganizationId,
		conversation.Id.String(),
		map[string]interface{}{"status": string(conversation.Status)},
	))

	return &dto.CreateConversationResponse{Id: conversation.Id}, nil
}

// GetOne is the operator projection: the full record joined with its contact
// session.
func (s *conversationService) GetOne(ctx context.Context, principal entity.Principal, conversationId uuid.UUID) (*dto.ConversationDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.findOwned(ctx, uow, principal, conversationId)
	if err != nil {
		return nil, err
	}

	session, err := uow.ContactSessionRepository().FindOne(ctx, specification.ByID{ID: conversation.ContactSessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NotFound("Contact session not found")
	}

	return &dto.ConversationDetailResponse{
		Id:             conversation.Id,
		OrganizationId: conversation.OrganizationId,
		ThreadId:       conversation.ThreadId,
		Status:         string(conversation.Status),
		CreatedAt:      conversation.CreatedAt,
		ContactSession: toSessionResponse(session),
	}, nil
}

// GetOneForContact is the widget projection. The organization id never
// crosses into widget responses.
func (s *conversationService) GetOneForContact(ctx context.Context, principal entity.Principal, conversationId uuid.UUID) (*dto.WidgetConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("Conversation not found")
	}
	if !principal.OwnsConversation(conversation) {
		return nil, apperror.Unauthorized("Incorrect session")
	}

	return &dto.WidgetConversationResponse{
		Id:       conversation.Id,
		Status:   string(conversation.Status),
		ThreadId: conversation.ThreadId,
	}, nil
}

// GetMany pages an organization's conversations newest first, optionally
// filtered by status, each enriched with its session and last message.
func (s *conversationService) GetMany(ctx context.Context, principal entity.Principal, req *dto.ListConversationsRequest) (*dto.Page[*dto.ConversationListItem], error) {
	specs := []specification.Specification{
		specification.ByOrganizationID{OrganizationID: principal.OrganizationId},
	}
	if req.Status != "" {
		if !entity.ConversationStatus(req.Status).Valid() {
			return nil, apperror.BadRequest("unknown status filter")
		}
		specs = append(specs, specification.ByStatus{Status: req.Status})
	}
	return s.listConversations(ctx, principal, req, specs)
}

// GetManyForContact pages one session's conversations for the widget.
func (s *conversationService) GetManyForContact(ctx context.Context, principal entity.Principal, req *dto.ListConversationsRequest) (*dto.Page[*dto.ConversationListItem], error) {
	session := principal.Session
	if session == nil {
		return nil, apperror.Unauthorized("Invalid session")
	}
	specs := []specification.Specification{
		specification.ByContactSessionID{ContactSessionID: session.Id},
	}
	return s.listConversations(ctx, principal, req, specs)
}

func (s *conversationService) listConversations(ctx context.Context, principal entity.Principal, req *dto.ListConversationsRequest, specs []specification.Specification) (*dto.Page[*dto.ConversationListItem], error) {
	pageSize := dto.ClampPageSize(req.PageSize)

	cursor, err := dto.DecodeCursor(req.Cursor)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if cursor != nil {
		specs = append(specs, specification.CreatedBefore{CreatedAt: cursor.CreatedAt, ID: cursor.Id})
	}
	specs = append(specs,
		specification.OrderBy{Field: "(created_at, id)", Desc: true},
		specification.Limit{Limit: pageSize + 1},
	)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	isDone := len(conversations) <= pageSize
	if !isDone {
		conversations = conversations[:pageSize]
	}

	items := make([]*dto.ConversationListItem, 0, len(conversations))
	for _, conversation := range conversations {
		// One lookup per row. Fine at dashboard page sizes.
		session, err := uow.ContactSessionRepository().FindOne(ctx, specification.ByID{ID: conversation.ContactSessionId})
		if err != nil {
			return nil, err
		}
		if session == nil {
			// A conversation without its session is unrenderable: drop it
			// instead of surfacing a hole.
			continue
		}

		lastMessage, err := uow.ChatMessageRepository().FindOne(ctx,
			specification.ByThreadID{ThreadID: conversation.ThreadId},
			specification.OrderBy{Field: "(created_at, id)", Desc: true},
		)
		if err != nil {
			return nil, err
		}

		item := &dto.ConversationListItem{
			Id:        conversation.Id,
			ThreadId:  conversation.ThreadId,
			Status:    string(conversation.Status),
			CreatedAt: conversation.CreatedAt,
		}
		if principal.IsOperator() {
			item.OrganizationId = conversation.OrganizationId
			item.ContactSession = toSessionResponse(session)
		}
		if lastMessage != nil {
			item.LastMessage = &dto.MessagePreview{
				Id:        lastMessage.Id,
				Role:      lastMessage.Role,
				Content:   lastMessage.Content,
				CreatedAt: lastMessage.CreatedAt,
			}
		}
		items = append(items, item)
	}

	page := &dto.Page[*dto.ConversationListItem]{
		Page:   items,
		IsDone: isDone,
	}
	if !isDone && len(conversations) > 0 {
		last := conversations[len(conversations)-1]
		page.ContinueCursor = dto.Cursor{CreatedAt: last.CreatedAt, Id: last.Id}.Encode()
	}
	return page, nil
}

// UpdateStatus is the direct setter: any status to any status, operator only.
func (s *conversationService) UpdateStatus(ctx context.Context, principal entity.Principal, conversationId uuid.UUID, status entity.ConversationStatus) error {
	if !status.Valid() {
		return apperror.BadRequest("unknown status")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.findOwned(ctx, uow, principal, conversationId)
	if err != nil {
		return err
	}

	return s.applyStatus(ctx, uow, conversation, status)
}

// ToggleStatus advances the cycle unresolved -> escalated -> resolved ->
// unresolved, derived from the current status.
func (s *conversationService) ToggleStatus(ctx context.Context, principal entity.Principal, conversationId uuid.UUID) (*dto.ToggleConversationStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.findOwned(ctx, uow, principal, conversationId)
	if err != nil {
		return nil, err
	}

	next := conversation.Status.Next()
	if err := s.applyStatus(ctx, uow, conversation, next); err != nil {
		return nil, err
	}
	return &dto.ToggleConversationStatusResponse{Status: string(next)}, nil
}

func (s *conversationService) applyStatus(ctx context.Context, uow unitofwork.UnitOfWork, conversation *entity.Conversation, status entity.ConversationStatus) error {
	if err := uow.ConversationRepository().UpdateStatus(ctx, conversation.Id, status); err != nil {
		return err
	}

	s.emit(ctx, events.NewConversationEvent(
		events.TypeConversationStatusChanged,
		conversation.OrganizationId,
		conversation.Id.String(),
		map[string]interface{}{"status": string(status)},
	))

	if status == entity.ConversationStatusResolved {
		s.sendTranscript(ctx, uow, conversation)
	}
	return nil
}

// sendTranscript mails the conversation log to the contact. Best-effort:
// resolution never fails because SMTP is down.
func (s *conversationService) sendTranscript(ctx context.Context, uow unitofwork.UnitOfWork, conversation *entity.Conversation) {
	if s.emailService == nil {
		return
	}

	session, err := uow.ContactSessionRepository().FindOne(ctx, specification.ByID{ID: conversation.ContactSessionId})
	if err != nil || session == nil || session.Email == "" {
		return
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByThreadID{ThreadID: conversation.ThreadId},
		specification.OrderBy{Field: "(created_at, id)", Desc: false},
	)
	if err != nil || len(messages) == 0 {
		return
	}

	go func(toEmail, name string, msgs []*entity.ChatMessage) {
		if err := s.emailService.SendTranscript(toEmail, name, msgs); err != nil {
			s.logger.Warn("ConversationService", "Failed to send transcript email", map[string]interface{}{
				"conversation_id": conversation.Id.String(),
				"error":           err.Error(),
			})
		}
	}(session.Email, session.Name, messages)
}

// findOwned loads a conversation and enforces operator scope: missing row is
// NotFound, wrong organization is Unauthorized. The order matters, a caller
// must not learn whether a foreign conversation exists.
func (s *conversationService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, principal entity.Principal, conversationId uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("Conversation not found")
	}
	if !principal.OwnsConversation(conversation) {
		return nil, apperror.Unauthorized("Invalid Organization Id")
	}
	return conversation, nil
}

func (s *conversationService) emit(ctx context.Context, evt events.BaseEvent) {
	if s.eventPublisher == nil {
		return
	}
	// Auxiliary: a bus outage never fails the request.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("ConversationService", "Failed to publish event", map[string]interface{}{
			"type":  evt.Type,
			"error": err.Error(),
		})
	}
}

func toSessionResponse(session *entity.ContactSession) *dto.ContactSessionResponse {
	return &dto.ContactSessionResponse{
		Id:        session.Id,
		Name:      session.Name,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}
}
