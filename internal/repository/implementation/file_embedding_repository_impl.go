package implementation

import (
	"context"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/mapper"
	"support-chat-be/internal/model"
	"support-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type FileEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileMapper
}

func NewFileEmbeddingRepository(db *gorm.DB) contract.FileEmbeddingRepository {
	return &FileEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileMapper(),
	}
}

func (r *FileEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.FileEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.FileEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.EmbeddingToModel(e)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *FileEmbeddingRepositoryImpl) DeleteByFileEntryId(ctx context.Context, entryId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("file_entry_id = ?", entryId).
		Delete(&model.FileEmbedding{}).Error
}

func (r *FileEmbeddingRepositoryImpl) Search(ctx context.Context, namespace string, vector []float32, limit int) ([]*entity.FileEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []*model.FileEmbedding

	// Cosine distance search, hard-scoped to one namespace. Content is never
	// searchable across namespaces.
	err := r.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(vector))).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.FileEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EmbeddingToEntity(m)
	}
	return entities, nil
}
