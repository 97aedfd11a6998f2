package implementation

import (
	"context"
	"errors"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/mapper"
	"support-chat-be/internal/model"
	"support-chat-be/internal/repository/contract"
	"support-chat-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileEntryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileMapper
}

func NewFileEntryRepository(db *gorm.DB) contract.FileEntryRepository {
	return &FileEntryRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileMapper(),
	}
}

func (r *FileEntryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FileEntryRepositoryImpl) Create(ctx context.Context, entry *entity.FileEntry) error {
	m := r.mapper.EntryToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.EntryToEntity(m)
	return nil
}

func (r *FileEntryRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FileEntryStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.FileEntry{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *FileEntryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.FileEntry{}, id).Error
}

func (r *FileEntryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileEntry, error) {
	var m model.FileEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EntryToEntity(&m), nil
}

func (r *FileEntryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileEntry, error) {
	var models []*model.FileEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.FileEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EntryToEntity(m)
	}
	return entities, nil
}
