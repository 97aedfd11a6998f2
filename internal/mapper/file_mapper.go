package mapper

import (
	"support-chat-be/internal/entity"
	"support-chat-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type FileMapper struct{}

func NewFileMapper() *FileMapper {
	return &FileMapper{}
}

func (m *FileMapper) EntryToEntity(f *model.FileEntry) *entity.FileEntry {
	if f == nil {
		return nil
	}

	return &entity.FileEntry{
		Id:          f.Id,
		Namespace:   f.Namespace,
		Key:         f.Key,
		Title:       f.Title,
		ContentHash: f.ContentHash,
		StorageId:   f.StorageId,
		UploadedBy:  f.UploadedBy,
		Category:    f.Category,
		MimeType:    f.MimeType,
		Status:      entity.FileEntryStatus(f.Status),
		CreatedAt:   f.CreatedAt,
	}
}

func (m *FileMapper) EntryToModel(f *entity.FileEntry) *model.FileEntry {
	if f == nil {
		return nil
	}

	return &model.FileEntry{
		Id:          f.Id,
		Namespace:   f.Namespace,
		Key:         f.Key,
		Title:       f.Title,
		ContentHash: f.ContentHash,
		StorageId:   f.StorageId,
		UploadedBy:  f.UploadedBy,
		Category:    f.Category,
		MimeType:    f.MimeType,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
	}
}

func (m *FileMapper) EmbeddingToEntity(e *model.FileEmbedding) *entity.FileEmbedding {
	if e == nil {
		return nil
	}

	return &entity.FileEmbedding{
		Id:          e.Id,
		FileEntryId: e.FileEntryId,
		Namespace:   e.Namespace,
		ChunkIndex:  e.ChunkIndex,
		Document:    e.Document,
		Embedding:   e.EmbeddingValue.Slice(),
		CreatedAt:   e.CreatedAt,
	}
}

func (m *FileMapper) EmbeddingToModel(e *entity.FileEmbedding) *model.FileEmbedding {
	if e == nil {
		return nil
	}

	return &model.FileEmbedding{
		Id:             e.Id,
		FileEntryId:    e.FileEntryId,
		Namespace:      e.Namespace,
		ChunkIndex:     e.ChunkIndex,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		CreatedAt:      e.CreatedAt,
	}
}
