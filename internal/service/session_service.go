package service

import (
	"context"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/memory"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Validate(ctx context.Context, req *dto.ValidateSessionRequest) (*dto.ValidateSessionResponse, error)
}

type sessionService struct {
	uowFactory   unitofwork.RepositoryFactory
	sessionCache *memory.SessionCache
	ttl          time.Duration
	now          NowFunc
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, sessionCache *memory.SessionCache, ttl time.Duration, now NowFunc) ISessionService {
	return &sessionService{
		uowFactory:   uowFactory,
		sessionCache: sessionCache,
		ttl:          ttl,
		now:          now,
	}
}

// Create registers a widget contact-form submission. Sessions are immutable
// after this point; they lapse by expiry, never by deletion.
func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	now := s.now()
	session := &entity.ContactSession{
		Id:             uuid.New(),
		OrganizationId: req.OrganizationId,
		Name:           req.Name,
		Email:          req.Email,
		Metadata: entity.ContactSessionMetadata{
			UserAgent:        req.Metadata.UserAgent,
			Language:         req.Metadata.Language,
			Languages:        req.Metadata.Languages,
			Platform:         req.Metadata.Platform,
			Vendor:           req.Metadata.Vendor,
			ScreenResolution: req.Metadata.ScreenResolution,
			ViewportSize:     req.Metadata.ViewportSize,
			Timezone:         req.Metadata.Timezone,
			TimezoneOffset:   req.Metadata.TimezoneOffset,
			CookieEnabled:    req.Metadata.CookieEnabled,
			Referrer:         req.Metadata.Referrer,
			CurrentURL:       req.Metadata.CurrentURL,
		},
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ContactSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	s.sessionCache.Save(session)

	return &dto.CreateSessionResponse{
		Id:        session.Id,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Validate lets the widget check a stored session id before reusing it.
// Unknown and expired both come back invalid rather than erroring, so the
// widget can fall through to the contact form.
func (s *sessionService) Validate(ctx context.Context, req *dto.ValidateSessionRequest) (*dto.ValidateSessionResponse, error) {
	session, found := s.sessionCache.Get(req.SessionId)
	if !found {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		var err error
		session, err = uow.ContactSessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
		if err != nil {
			return nil, err
		}
	}

	if session == nil {
		return &dto.ValidateSessionResponse{Valid: false, Reason: "not_found"}, nil
	}
	if session.Expired(s.now()) {
		s.sessionCache.Delete(req.SessionId)
		return &dto.ValidateSessionResponse{Valid: false, Reason: "expired"}, nil
	}

	s.sessionCache.Save(session)
	return &dto.ValidateSessionResponse{Valid: true}, nil
}
