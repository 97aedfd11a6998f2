package contract

import (
	"context"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FileEntryRepository interface {
	Create(ctx context.Context, entry *entity.FileEntry) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FileEntryStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileEntry, error)
}

type FileEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.FileEmbedding) error
	DeleteByFileEntryId(ctx context.Context, entryId uuid.UUID) error
	// Search runs a cosine-distance search scoped to one namespace.
	Search(ctx context.Context, namespace string, vector []float32, limit int) ([]*entity.FileEmbedding, error)
}
