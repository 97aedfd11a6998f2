package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type FileEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FileEntryId    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Namespace      string          `gorm:"type:varchar(128);not null;index"`
	ChunkIndex     int             `gorm:"default:0"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text / text-embedding-004 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (FileEmbedding) TableName() string {
	return "file_embeddings"
}
