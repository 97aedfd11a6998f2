package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddFileResponse struct {
	Url     string    `json:"url"`
	EntryId uuid.UUID `json:"entry_id"`
	// Created is false when the content hash matched an existing entry and
	// the upload was deduplicated.
	Created bool `json:"created"`
}

type FileEntryResponse struct {
	Id        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	Category  *string   `json:"category,omitempty"`
	Status    string    `json:"status"`
	Url       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// EmbedFileMessage is the payload queued for the embedding consumer.
type EmbedFileMessage struct {
	FileEntryId uuid.UUID `json:"file_entry_id"`
	Namespace   string    `json:"namespace"`
	Text        string    `json:"text"`
}
