package service

import (
	"context"
	"testing"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/mailer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGreeting = "Hi! How can we help you today?"

func newConversationService(uow *fakeUow, email mailer.IEmailService, now NowFunc) IConversationService {
	if now == nil {
		now = time.Now
	}
	return NewConversationService(&fakeFactory{uow: uow}, nil, email, testGreeting, nopLogger{}, now)
}

func endUserPrincipal(session *entity.ContactSession) entity.Principal {
	return entity.Principal{Kind: entity.PrincipalEndUser, Session: session}
}

func operatorPrincipalFor(orgId string) entity.Principal {
	return entity.Principal{Kind: entity.PrincipalOperator, OrganizationId: orgId}
}

func seedSession(uow *fakeUow, orgId string) *entity.ContactSession {
	session := &entity.ContactSession{
		Id:             uuid.New(),
		OrganizationId: orgId,
		Name:           "Ada",
		Email:          "ada@example.com",
		ExpiresAt:      time.Now().Add(time.Hour),
		CreatedAt:      time.Now(),
	}
	uow.sessions.items = append(uow.sessions.items, session)
	return session
}

func seedConversation(uow *fakeUow, session *entity.ContactSession, status entity.ConversationStatus, createdAt time.Time) *entity.Conversation {
	conversation := &entity.Conversation{
		Id:               uuid.New(),
		OrganizationId:   session.OrganizationId,
		ContactSessionId: session.Id,
		ThreadId:         uuid.New(),
		Status:           status,
		CreatedAt:        createdAt,
	}
	uow.conversations.items = append(uow.conversations.items, conversation)
	return conversation
}

func TestConversationCreateSeedsGreeting(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	svc := newConversationService(uow, nil, nil)

	resp, err := svc.Create(context.Background(), endUserPrincipal(session), &dto.CreateConversationRequest{
		OrganizationId:   "org_1",
		ContactSessionId: session.Id,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.Id)

	require.Len(t, uow.conversations.items, 1)
	conversation := uow.conversations.items[0]
	assert.Equal(t, entity.ConversationStatusUnresolved, conversation.Status)
	assert.Equal(t, session.Id, conversation.ContactSessionId)

	require.Len(t, uow.messages.items, 1)
	greeting := uow.messages.items[0]
	assert.Equal(t, conversation.ThreadId, greeting.ThreadId)
	assert.Equal(t, entity.MessageRoleAssistant, greeting.Role)
	assert.Equal(t, testGreeting, greeting.Content)
}

func TestConversationCreateWithoutSession(t *testing.T) {
	svc := newConversationService(newFakeUow(), nil, nil)

	_, err := svc.Create(context.Background(), entity.Principal{Kind: entity.PrincipalEndUser}, &dto.CreateConversationRequest{
		OrganizationId: "org_1",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestConversationGetOneScoping(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now())
	svc := newConversationService(uow, nil, nil)

	t.Run("owning operator", func(t *testing.T) {
		resp, err := svc.GetOne(context.Background(), operatorPrincipalFor("org_1"), conversation.Id)
		require.NoError(t, err)
		assert.Equal(t, conversation.Id, resp.Id)
		assert.Equal(t, "org_1", resp.OrganizationId)
		require.NotNil(t, resp.ContactSession)
		assert.Equal(t, session.Id, resp.ContactSession.Id)
	})

	t.Run("foreign operator", func(t *testing.T) {
		_, err := svc.GetOne(context.Background(), operatorPrincipalFor("org_2"), conversation.Id)
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
		assert.Contains(t, err.Error(), "Invalid Organization Id")
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetOne(context.Background(), operatorPrincipalFor("org_1"), uuid.New())
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
		assert.Contains(t, err.Error(), "Conversation not found")
	})
}

func TestConversationGetOneForContact(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	other := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now())
	svc := newConversationService(uow, nil, nil)

	t.Run("owning session gets the widget projection", func(t *testing.T) {
		resp, err := svc.GetOneForContact(context.Background(), endUserPrincipal(session), conversation.Id)
		require.NoError(t, err)
		assert.Equal(t, conversation.Id, resp.Id)
		assert.Equal(t, conversation.ThreadId, resp.ThreadId)
		assert.Equal(t, string(entity.ConversationStatusUnresolved), resp.Status)
	})

	t.Run("foreign session is rejected", func(t *testing.T) {
		_, err := svc.GetOneForContact(context.Background(), endUserPrincipal(other), conversation.Id)
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
		assert.Contains(t, err.Error(), "Incorrect session")
	})
}

func TestConversationToggleCycle(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now())
	email := newFakeEmailService()
	svc := newConversationService(uow, email, nil)
	principal := operatorPrincipalFor("org_1")

	// Seed one message so the transcript on resolve has a body.
	uow.messages.items = append(uow.messages.items, &entity.ChatMessage{
		Id:        uuid.New(),
		ThreadId:  conversation.ThreadId,
		Role:      entity.MessageRoleUser,
		Content:   "hello",
		CreatedAt: time.Now(),
	})

	resp, err := svc.ToggleStatus(context.Background(), principal, conversation.Id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ConversationStatusEscalated), resp.Status)
	assert.Equal(t, entity.ConversationStatusEscalated, uow.conversations.items[0].Status)

	resp, err = svc.ToggleStatus(context.Background(), principal, conversation.Id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ConversationStatusResolved), resp.Status)

	select {
	case to := <-email.sent:
		assert.Equal(t, "ada@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("transcript email was not sent on resolve")
	}

	resp, err = svc.ToggleStatus(context.Background(), principal, conversation.Id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ConversationStatusUnresolved), resp.Status)
}

func TestConversationUpdateStatusValidation(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now())
	svc := newConversationService(uow, nil, nil)

	err := svc.UpdateStatus(context.Background(), operatorPrincipalFor("org_1"), conversation.Id, "archived")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeBadRequest))

	err = svc.UpdateStatus(context.Background(), operatorPrincipalFor("org_1"), conversation.Id, entity.ConversationStatusEscalated)
	require.NoError(t, err)
	assert.Equal(t, entity.ConversationStatusEscalated, uow.conversations.items[0].Status)
}

func TestConversationGetManyPagination(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		seedConversation(uow, session, entity.ConversationStatusUnresolved, base.Add(time.Duration(i)*time.Minute))
	}
	svc := newConversationService(uow, nil, nil)
	principal := operatorPrincipalFor("org_1")

	first, err := svc.GetMany(context.Background(), principal, &dto.ListConversationsRequest{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, first.Page, 10)
	assert.False(t, first.IsDone)
	require.NotEmpty(t, first.ContinueCursor)

	// Newest first.
	for i := 1; i < len(first.Page); i++ {
		assert.False(t, first.Page[i].CreatedAt.After(first.Page[i-1].CreatedAt))
	}

	second, err := svc.GetMany(context.Background(), principal, &dto.ListConversationsRequest{PageSize: 10, Cursor: first.ContinueCursor})
	require.NoError(t, err)
	assert.Len(t, second.Page, 5)
	assert.True(t, second.IsDone)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(first.Page, second.Page...) {
		assert.False(t, seen[item.Id], "conversation %s returned twice", item.Id)
		seen[item.Id] = true
	}
	assert.Len(t, seen, 15)
}

func TestConversationGetManyStatusFilter(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now().Add(-2*time.Minute))
	seedConversation(uow, session, entity.ConversationStatusEscalated, time.Now().Add(-time.Minute))
	svc := newConversationService(uow, nil, nil)

	page, err := svc.GetMany(context.Background(), operatorPrincipalFor("org_1"), &dto.ListConversationsRequest{Status: "escalated"})
	require.NoError(t, err)
	require.Len(t, page.Page, 1)
	assert.Equal(t, "escalated", page.Page[0].Status)

	_, err = svc.GetMany(context.Background(), operatorPrincipalFor("org_1"), &dto.ListConversationsRequest{Status: "archived"})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeBadRequest))
}

func TestConversationGetManyDropsOrphanedRows(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now().Add(-2*time.Minute))

	// A conversation whose session row is gone cannot render in the inbox.
	orphan := &entity.Conversation{
		Id:               uuid.New(),
		OrganizationId:   "org_1",
		ContactSessionId: uuid.New(),
		ThreadId:         uuid.New(),
		Status:           entity.ConversationStatusUnresolved,
		CreatedAt:        time.Now().Add(-time.Minute),
	}
	uow.conversations.items = append(uow.conversations.items, orphan)

	svc := newConversationService(uow, nil, nil)
	page, err := svc.GetMany(context.Background(), operatorPrincipalFor("org_1"), &dto.ListConversationsRequest{})
	require.NoError(t, err)
	require.Len(t, page.Page, 1)
	assert.NotEqual(t, orphan.Id, page.Page[0].Id)
}

func TestConversationGetManyForContactHidesOperatorFields(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now())
	uow.messages.items = append(uow.messages.items, &entity.ChatMessage{
		Id:        uuid.New(),
		ThreadId:  conversation.ThreadId,
		Role:      entity.MessageRoleAssistant,
		Content:   testGreeting,
		CreatedAt: time.Now(),
	})

	svc := newConversationService(uow, nil, nil)
	page, err := svc.GetManyForContact(context.Background(), endUserPrincipal(session), &dto.ListConversationsRequest{})
	require.NoError(t, err)
	require.Len(t, page.Page, 1)

	item := page.Page[0]
	assert.Empty(t, item.OrganizationId)
	assert.Nil(t, item.ContactSession)
	require.NotNil(t, item.LastMessage)
	assert.Equal(t, testGreeting, item.LastMessage.Content)
}
