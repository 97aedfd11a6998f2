package implementation

import (
	"context"
	"errors"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/mapper"
	"support-chat-be/internal/model"
	"support-chat-be/internal/repository/contract"
	"support-chat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type OperatorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OperatorMapper
}

func NewOperatorRepository(db *gorm.DB) contract.OperatorRepository {
	return &OperatorRepositoryImpl{
		db:     db,
		mapper: mapper.NewOperatorMapper(),
	}
}

func (r *OperatorRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *OperatorRepositoryImpl) Create(ctx context.Context, operator *entity.Operator) error {
	m := r.mapper.ToModel(operator)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*operator = *r.mapper.ToEntity(m)
	return nil
}

func (r *OperatorRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Operator, error) {
	var m model.Operator
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
