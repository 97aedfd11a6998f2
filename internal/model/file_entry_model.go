package model

import (
	"time"

	"github.com/google/uuid"
)

type FileEntry struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Namespace   string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_file_entries_namespace_hash,priority:1"`
	Key         string    `gorm:"type:text;not null"`
	Title       string    `gorm:"type:text;not null"`
	ContentHash string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_file_entries_namespace_hash,priority:2"`
	StorageId   string    `gorm:"type:text;not null"`
	UploadedBy  string    `gorm:"type:varchar(128);not null"`
	Category    *string   `gorm:"type:varchar(128)"`
	MimeType    string    `gorm:"type:varchar(128);not null"`
	Status      string    `gorm:"type:varchar(32);not null;default:'pending'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (FileEntry) TableName() string {
	return "file_entries"
}
