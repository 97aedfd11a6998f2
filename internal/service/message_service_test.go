package service

import (
	"context"
	"testing"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/pkg/agent"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageService(uow *fakeUow, supportAgent *agent.SupportAgent) IMessageService {
	return NewMessageService(&fakeFactory{uow: uow}, supportAgent, nil, nopLogger{}, time.Now)
}

func TestMessageCreateUsesAssistantRole(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusEscalated, time.Now())
	svc := newMessageService(uow, nil)

	resp, err := svc.Create(context.Background(), operatorPrincipalFor("org_1"), &dto.CreateMessageRequest{
		ConversationId: conversation.Id,
		Content:        "An operator here, happy to help.",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageRoleAssistant, resp.Message.Role)
	assert.Equal(t, conversation.ThreadId, resp.Message.ThreadId)
	require.Len(t, uow.messages.items, 1)
}

func TestMessageCreateClosedAndScoped(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	resolved := seedConversation(uow, session, entity.ConversationStatusResolved, time.Now())
	svc := newMessageService(uow, nil)

	t.Run("resolved conversation rejects writes", func(t *testing.T) {
		_, err := svc.Create(context.Background(), operatorPrincipalFor("org_1"), &dto.CreateMessageRequest{
			ConversationId: resolved.Id,
			Content:        "too late",
		})
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeBadRequest))
		assert.Contains(t, err.Error(), "Conversation is resolved")
	})

	t.Run("foreign operator is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), operatorPrincipalFor("org_2"), &dto.CreateMessageRequest{
			ConversationId: resolved.Id,
			Content:        "hello",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid Organization Id")
	})

	t.Run("foreign session is rejected", func(t *testing.T) {
		other := seedSession(uow, "org_1")
		_, err := svc.CreateForContact(context.Background(), endUserPrincipal(other), &dto.CreateMessageRequest{
			ConversationId: resolved.Id,
			Content:        "hello",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Incorrect session")
	})

	t.Run("unknown conversation", func(t *testing.T) {
		_, err := svc.Create(context.Background(), operatorPrincipalFor("org_1"), &dto.CreateMessageRequest{
			ConversationId: uuid.New(),
			Content:        "hello",
		})
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	})
}

func TestMessageCreateForContactWithAgentReply(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now())

	supportAgent := agent.NewSupportAgent(&stubLLM{reply: "You can reset it from the settings page."}, stubEmbedder{}, uow.embeddings)
	svc := newMessageService(uow, supportAgent)

	resp, err := svc.CreateForContact(context.Background(), endUserPrincipal(session), &dto.CreateMessageRequest{
		ConversationId: conversation.Id,
		Content:        "How do I reset my password?",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MessageRoleUser, resp.Message.Role)
	require.NotNil(t, resp.Reply)
	assert.Equal(t, entity.MessageRoleAssistant, resp.Reply.Role)
	assert.Equal(t, "You can reset it from the settings page.", resp.Reply.Content)

	// Both the user message and the reply are persisted.
	assert.Len(t, uow.messages.items, 2)
}

func TestMessageCreateForContactEscalatedSkipsAgent(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusEscalated, time.Now())

	supportAgent := agent.NewSupportAgent(&stubLLM{reply: "should not appear"}, stubEmbedder{}, uow.embeddings)
	svc := newMessageService(uow, supportAgent)

	resp, err := svc.CreateForContact(context.Background(), endUserPrincipal(session), &dto.CreateMessageRequest{
		ConversationId: conversation.Id,
		Content:        "I want to talk to a human",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Reply)
	assert.Len(t, uow.messages.items, 1)
}

func TestMessageCreateForContactAgentFailureDegradesToSilence(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now())

	supportAgent := agent.NewSupportAgent(&stubLLM{err: assert.AnError}, stubEmbedder{}, uow.embeddings)
	svc := newMessageService(uow, supportAgent)

	resp, err := svc.CreateForContact(context.Background(), endUserPrincipal(session), &dto.CreateMessageRequest{
		ConversationId: conversation.Id,
		Content:        "hello?",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Reply)
	// The user message survives the model outage.
	require.Len(t, uow.messages.items, 1)
	assert.Equal(t, entity.MessageRoleUser, uow.messages.items[0].Role)
}

func TestMessageGetManyReadingOrder(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now())

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		role := entity.MessageRoleUser
		if i%2 == 1 {
			role = entity.MessageRoleAssistant
		}
		uow.messages.items = append(uow.messages.items, &entity.ChatMessage{
			Id:        uuid.New(),
			ThreadId:  conversation.ThreadId,
			Role:      role,
			Content:   "msg",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	svc := newMessageService(uow, nil)
	principal := endUserPrincipal(session)

	first, err := svc.GetMany(context.Background(), principal, conversation.ThreadId, "", 5)
	require.NoError(t, err)
	assert.Len(t, first.Page, 5)
	assert.False(t, first.IsDone)
	for i := 1; i < len(first.Page); i++ {
		assert.True(t, first.Page[i].CreatedAt.After(first.Page[i-1].CreatedAt))
	}

	second, err := svc.GetMany(context.Background(), principal, conversation.ThreadId, first.ContinueCursor, 5)
	require.NoError(t, err)
	assert.Len(t, second.Page, 2)
	assert.True(t, second.IsDone)
	assert.True(t, second.Page[0].CreatedAt.After(first.Page[len(first.Page)-1].CreatedAt))
}

func TestMessageGetManyScoping(t *testing.T) {
	uow := newFakeUow()
	session := seedSession(uow, "org_1")
	conversation := seedConversation(uow, session, entity.ConversationStatusUnresolved, time.Now())
	svc := newMessageService(uow, nil)

	_, err := svc.GetMany(context.Background(), operatorPrincipalFor("org_2"), conversation.ThreadId, "", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Organization Id")

	_, err = svc.GetMany(context.Background(), operatorPrincipalFor("org_1"), uuid.New(), "", 10)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestMessageEnhance(t *testing.T) {
	uow := newFakeUow()
	svc := newMessageService(uow, agent.NewSupportAgent(&stubLLM{reply: "Polished."}, stubEmbedder{}, uow.embeddings))

	resp, err := svc.Enhance(context.Background(), operatorPrincipalFor("org_1"), &dto.EnhanceResponseRequest{Prompt: "fix it pls"})
	require.NoError(t, err)
	assert.Equal(t, "Polished.", resp.Text)

	noAgent := newMessageService(uow, nil)
	_, err = noAgent.Enhance(context.Background(), operatorPrincipalFor("org_1"), &dto.EnhanceResponseRequest{Prompt: "fix it"})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeBadRequest))
}
