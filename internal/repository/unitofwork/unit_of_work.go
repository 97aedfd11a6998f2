package unitofwork

import (
	"context"

	"support-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	OperatorRepository() contract.OperatorRepository
	ContactSessionRepository() contract.ContactSessionRepository
	ConversationRepository() contract.ConversationRepository
	ChatMessageRepository() contract.ChatMessageRepository
	FileEntryRepository() contract.FileEntryRepository
	FileEmbeddingRepository() contract.FileEmbeddingRepository
}
