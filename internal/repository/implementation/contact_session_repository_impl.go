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

type ContactSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewContactSessionRepository(db *gorm.DB) contract.ContactSessionRepository {
	return &ContactSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *ContactSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ContactSessionRepositoryImpl) Create(ctx context.Context, session *entity.ContactSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContactSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContactSession, error) {
	var m model.ContactSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
