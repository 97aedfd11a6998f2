package entity

import (
	"time"

	"github.com/google/uuid"
)

type FileEntryStatus string

const (
	FileEntryStatusPending FileEntryStatus = "pending"
	FileEntryStatusReady   FileEntryStatus = "ready"
)

// FileEntry is one indexed, deduplicated document within a namespace.
// The namespace is the uploading organization's id; content is never
// searchable across namespaces. ContentHash drives dedup: identical bytes
// under one namespace map to exactly one entry.
type FileEntry struct {
	Id          uuid.UUID
	Namespace   string
	Key         string
	Title       string
	ContentHash string
	StorageId   string
	UploadedBy  string
	Category    *string
	MimeType    string
	Status      FileEntryStatus
	CreatedAt   time.Time
}

// FileEmbedding is one embedded chunk of an entry's extracted text.
type FileEmbedding struct {
	Id          uuid.UUID
	FileEntryId uuid.UUID
	Namespace   string
	ChunkIndex  int
	Document    string
	Embedding   []float32
	CreatedAt   time.Time
}
