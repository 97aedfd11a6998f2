package contract

import (
	"context"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"
)

type ContactSessionRepository interface {
	Create(ctx context.Context, session *entity.ContactSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContactSession, error)
}
