package service

import (
	"context"
	"encoding/json"
	"path/filepath"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/blob"
	"support-chat-be/pkg/events"
	"support-chat-be/pkg/ingest"
	pktNats "support-chat-be/pkg/nats"

	"github.com/google/uuid"
)

type AddFileInput struct {
	Filename string
	MimeType string
	Bytes    []byte
	Category *string
}

type IFileService interface {
	AddFile(ctx context.Context, principal entity.Principal, input *AddFileInput) (*dto.AddFileResponse, error)
	DeleteFile(ctx context.Context, principal entity.Principal, entryId uuid.UUID) error
	GetMany(ctx context.Context, principal entity.Principal, cursor string, pageSize int) (*dto.Page[*dto.FileEntryResponse], error)
}

type fileService struct {
	uowFactory       unitofwork.RepositoryFactory
	blobStore        blob.Store
	extractor        *ingest.Extractor
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
	now              NowFunc
}

func NewFileService(
	uowFactory unitofwork.RepositoryFactory,
	blobStore blob.Store,
	extractor *ingest.Extractor,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	now NowFunc,
) IFileService {
	return &fileService{
		uowFactory:       uowFactory,
		blobStore:        blobStore,
		extractor:        extractor,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
		now:              now,
	}
}

// AddFile ingests an upload into the organization's document index. Identical
// bytes under one namespace converge on a single entry: the duplicate's blob
// is released and the existing entry is returned.
func (s *fileService) AddFile(ctx context.Context, principal entity.Principal, input *AddFileInput) (*dto.AddFileResponse, error) {
	if len(input.Bytes) == 0 {
		return nil, apperror.BadRequest("empty file")
	}

	namespace := principal.OrganizationId

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = ingest.GuessMimeType(input.Filename, input.Bytes)
	}

	contentHash := ingest.ContentHash(input.Bytes)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.FileEntryRepository().FindOne(ctx,
		specification.ByNamespace{Namespace: namespace},
		specification.ByContentHash{ContentHash: contentHash},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Nothing was stored yet, so nothing to release.
		if existing.Status == entity.FileEntryStatusPending {
			// A pending entry on the dedup path means an earlier upload
			// committed the row but its embed job never went out. Re-queue
			// it, otherwise the entry stays pending forever.
			s.requeueEmbed(ctx, existing, input.Bytes, mimeType)
		}
		return &dto.AddFileResponse{
			Url:     s.blobStore.URL(existing.StorageId),
			EntryId: existing.Id,
			Created: false,
		}, nil
	}

	storageId, err := s.blobStore.Put(ctx, input.Bytes, filepath.Ext(input.Filename))
	if err != nil {
		return nil, err
	}

	text, err := s.extractor.Extract(ctx, input.Bytes, mimeType)
	if err != nil {
		s.discardBlob(ctx, storageId)
		return nil, apperror.BadRequest(err.Error())
	}

	entry := &entity.FileEntry{
		Id:          uuid.New(),
		Namespace:   namespace,
		Key:         input.Filename,
		Title:       input.Filename,
		ContentHash: contentHash,
		StorageId:   storageId,
		UploadedBy:  namespace,
		Category:    input.Category,
		MimeType:    mimeType,
		Status:      entity.FileEntryStatusPending,
		CreatedAt:   s.now(),
	}

	if err := uow.FileEntryRepository().Create(ctx, entry); err != nil {
		// A concurrent upload of the same bytes can win the unique
		// (namespace, content_hash) race; recheck before failing.
		winner, findErr := uow.FileEntryRepository().FindOne(ctx,
			specification.ByNamespace{Namespace: namespace},
			specification.ByContentHash{ContentHash: contentHash},
		)
		if findErr == nil && winner != nil {
			s.discardBlob(ctx, storageId)
			return &dto.AddFileResponse{
				Url:     s.blobStore.URL(winner.StorageId),
				EntryId: winner.Id,
				Created: false,
			}, nil
		}
		s.discardBlob(ctx, storageId)
		return nil, err
	}

	payload, err := json.Marshal(dto.EmbedFileMessage{
		FileEntryId: entry.Id,
		Namespace:   namespace,
		Text:        text,
	})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	s.emitFileEvent(ctx, events.TypeFileIndexed, namespace, entry.Id.String(), input.Filename)

	return &dto.AddFileResponse{
		Url:     s.blobStore.URL(storageId),
		EntryId: entry.Id,
		Created: true,
	}, nil
}

// DeleteFile removes an entry, its embeddings and its blob. Only the
// uploading organization may delete.
func (s *fileService) DeleteFile(ctx context.Context, principal entity.Principal, entryId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.FileEntryRepository().FindOne(ctx, specification.ByID{ID: entryId})
	if err != nil {
		return err
	}
	if entry == nil {
		return apperror.NotFound("Entry not found")
	}
	if entry.UploadedBy != principal.OrganizationId {
		return apperror.Unauthorized("Invalid Organization Id")
	}

	if entry.StorageId != "" {
		// Blob first: a missing blob tolerates retry, an orphaned one does
		// not get a second chance.
		if err := s.blobStore.Delete(ctx, entry.StorageId); err != nil {
			return err
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.FileEmbeddingRepository().DeleteByFileEntryId(ctx, entry.Id); err != nil {
		return err
	}
	if err := uow.FileEntryRepository().Delete(ctx, entry.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.emitFileEvent(ctx, events.TypeFileDeleted, principal.OrganizationId, entry.Id.String(), entry.Key)
	return nil
}

// GetMany pages the organization's indexed documents newest first.
func (s *fileService) GetMany(ctx context.Context, principal entity.Principal, cursorStr string, pageSize int) (*dto.Page[*dto.FileEntryResponse], error) {
	pageSize = dto.ClampPageSize(pageSize)

	specs := []specification.Specification{
		specification.ByNamespace{Namespace: principal.OrganizationId},
	}
	cursor, err := dto.DecodeCursor(cursorStr)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if cursor != nil {
		specs = append(specs, specification.CreatedBefore{CreatedAt: cursor.CreatedAt, ID: cursor.Id})
	}
	specs = append(specs,
		specification.OrderBy{Field: "(created_at, id)", Desc: true},
		specification.Limit{Limit: pageSize + 1},
	)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.FileEntryRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	isDone := len(entries) <= pageSize
	if !isDone {
		entries = entries[:pageSize]
	}

	items := make([]*dto.FileEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, &dto.FileEntryResponse{
			Id:        entry.Id,
			Filename:  entry.Key,
			MimeType:  entry.MimeType,
			Category:  entry.Category,
			Status:    string(entry.Status),
			Url:       s.blobStore.URL(entry.StorageId),
			CreatedAt: entry.CreatedAt,
		})
	}

	page := &dto.Page[*dto.FileEntryResponse]{
		Page:   items,
		IsDone: isDone,
	}
	if !isDone && len(entries) > 0 {
		last := entries[len(entries)-1]
		page.ContinueCursor = dto.Cursor{CreatedAt: last.CreatedAt, Id: last.Id}.Encode()
	}
	return page, nil
}

// requeueEmbed is best-effort: the caller still returns the existing entry
// even when re-queueing fails, the next identical upload gets another shot.
func (s *fileService) requeueEmbed(ctx context.Context, entry *entity.FileEntry, data []byte, mimeType string) {
	text, err := s.extractor.Extract(ctx, data, mimeType)
	if err != nil {
		s.logger.Warn("FileService", "Failed to re-extract pending entry", map[string]interface{}{
			"entry_id": entry.Id.String(),
			"error":    err.Error(),
		})
		return
	}
	payload, err := json.Marshal(dto.EmbedFileMessage{
		FileEntryId: entry.Id,
		Namespace:   entry.Namespace,
		Text:        text,
	})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("FileService", "Failed to re-queue embed job", map[string]interface{}{
			"entry_id": entry.Id.String(),
			"error":    err.Error(),
		})
	}
}

func (s *fileService) discardBlob(ctx context.Context, storageId string) {
	if err := s.blobStore.Delete(ctx, storageId); err != nil {
		s.logger.Warn("FileService", "Failed to delete blob", map[string]interface{}{
			"storage_id": storageId,
			"error":      err.Error(),
		})
	}
}

func (s *fileService) emitFileEvent(ctx context.Context, eventType, namespace, entryId, filename string) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewFileEvent(eventType, namespace, entryId, map[string]interface{}{
		"filename": filename,
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("FileService", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
