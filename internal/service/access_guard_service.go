package service

import (
	"context"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/repository/memory"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IAccessGuardService resolves request credentials into a Principal. Every
// protected operation goes through exactly one of these two entry points.
type IAccessGuardService interface {
	Operator(ctx context.Context, operatorId, organizationId string) (entity.Principal, error)
	EndUser(ctx context.Context, sessionId uuid.UUID) (entity.Principal, error)
}

type accessGuardService struct {
	uowFactory   unitofwork.RepositoryFactory
	sessionCache *memory.SessionCache
	now          NowFunc
}

func NewAccessGuardService(uowFactory unitofwork.RepositoryFactory, sessionCache *memory.SessionCache, now NowFunc) IAccessGuardService {
	return &accessGuardService{
		uowFactory:   uowFactory,
		sessionCache: sessionCache,
		now:          now,
	}
}

// Operator validates verified token claims. The identity check and the
// organization check fail differently: a token with no subject was never
// authenticated, a token without an organization belongs to an operator who
// has not joined one yet.
func (s *accessGuardService) Operator(ctx context.Context, operatorId, organizationId string) (entity.Principal, error) {
	if operatorId == "" {
		return entity.Principal{}, apperror.Unauthorized("Identity not found")
	}
	if organizationId == "" {
		return entity.Principal{}, apperror.Unauthorized("Organization not found")
	}
	return entity.Principal{
		Kind:           entity.PrincipalOperator,
		OrganizationId: organizationId,
	}, nil
}

// EndUser resolves a widget session id. An expired or unknown session is
// indistinguishable to the caller: both are "Invalid session".
func (s *accessGuardService) EndUser(ctx context.Context, sessionId uuid.UUID) (entity.Principal, error) {
	session, found := s.sessionCache.Get(sessionId)
	if !found {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		var err error
		session, err = uow.ContactSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
		if err != nil {
			return entity.Principal{}, err
		}
	}

	if session == nil || session.Expired(s.now()) {
		s.sessionCache.Delete(sessionId)
		return entity.Principal{}, apperror.Unauthorized("Invalid session")
	}

	s.sessionCache.Save(session)

	return entity.Principal{
		Kind:    entity.PrincipalEndUser,
		Session: session,
	}, nil
}
