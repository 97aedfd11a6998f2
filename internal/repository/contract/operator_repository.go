package contract

import (
	"context"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"
)

type OperatorRepository interface {
	Create(ctx context.Context, operator *entity.Operator) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Operator, error)
}
