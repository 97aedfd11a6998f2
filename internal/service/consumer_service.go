package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/embedding"
	"support-chat-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Chunk sizing: ~1500 chars per chunk keeps well inside embedding context
// limits; 200 chars of overlap preserve continuity at boundaries.
const (
	embedChunkSize    = 1500
	embedChunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.EmbedFileMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Embedding file entry %s", payload.FileEntryId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.FileEntryRepository().FindOne(ctx, specification.ByID{ID: payload.FileEntryId})
	if err != nil {
		log.Printf("[ERROR] Failed to get file entry %s: %v", payload.FileEntryId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if entry == nil {
		log.Printf("[WARN] File entry %s gone before embedding, skipping", payload.FileEntryId)
		msg.Ack() // Entry deleted? Ack.
		return
	}

	chunks := utils.SplitText(payload.Text, embedChunkSize, embedChunkOverlap)
	log.Printf("[INFO] Content split into %d chunks for entry %s", len(chunks), entry.Id)

	var newEmbeddings []*entity.FileEmbedding
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of entry %s: %v", i, entry.Id, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.FileEmbedding{
			Id:          uuid.New(),
			FileEntryId: entry.Id,
			Namespace:   payload.Namespace,
			ChunkIndex:  i,
			Document:    chunk,
			Embedding:   res.Embedding.Values,
			CreatedAt:   time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-embedding replaces; never append to stale chunks.
	if err := uow.FileEmbeddingRepository().DeleteByFileEntryId(ctx, entry.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.FileEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to store embeddings for entry %s: %v", entry.Id, err)
			msg.Nack()
			return
		}
	}

	if err := uow.FileEntryRepository().UpdateStatus(ctx, entry.Id, entity.FileEntryStatusReady); err != nil {
		log.Printf("[ERROR] Failed to mark entry %s ready: %v", entry.Id, err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit embeddings for entry %s: %v", entry.Id, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Entry %s indexed with %d chunks", entry.Id, len(newEmbeddings))
	msg.Ack()
}
