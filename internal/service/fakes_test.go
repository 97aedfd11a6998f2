package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/contract"
	"support-chat-be/internal/repository/specification"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/pkg/embedding"
	"support-chat-be/pkg/llm"

	"github.com/google/uuid"
)

// In-memory repository doubles. They interpret the same specification values
// the GORM implementations translate to SQL, so service logic runs unchanged.

type queryOpts struct {
	desc          bool
	ordered       bool
	limit         int
	createdBefore *specification.CreatedBefore
	createdAfter  *specification.CreatedAfter
}

func splitSpecs(specs []specification.Specification) (filters []specification.Specification, opts queryOpts) {
	opts.limit = -1
	for _, s := range specs {
		switch v := s.(type) {
		case specification.OrderBy:
			opts.ordered = true
			opts.desc = v.Desc
		case specification.Limit:
			opts.limit = v.Limit
		case specification.CreatedBefore:
			cb := v
			opts.createdBefore = &cb
		case specification.CreatedAfter:
			ca := v
			opts.createdAfter = &ca
		default:
			filters = append(filters, s)
		}
	}
	return filters, opts
}

func keysetLess(aAt, bAt int64, aId, bId string) bool {
	if aAt != bAt {
		return aAt < bAt
	}
	return strings.Compare(aId, bId) < 0
}

func sortByKeyset[T any](items []T, key func(T) (int64, string), desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		aAt, aId := key(items[i])
		bAt, bId := key(items[j])
		if desc {
			return keysetLess(bAt, aAt, bId, aId)
		}
		return keysetLess(aAt, bAt, aId, bId)
	})
}

// --- conversations ---

type fakeConversationRepo struct {
	items []*entity.Conversation
}

func (r *fakeConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	r.items = append(r.items, c)
	return nil
}

func (r *fakeConversationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ConversationStatus) error {
	for _, c := range r.items {
		if c.Id == id {
			c.Status = status
		}
	}
	return nil
}

func (r *fakeConversationRepo) matches(c *entity.Conversation, specs []specification.Specification, opts queryOpts) bool {
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			if c.Id != v.ID {
				return false
			}
		case specification.ByOrganizationID:
			if c.OrganizationId != v.OrganizationID {
				return false
			}
		case specification.ByContactSessionID:
			if c.ContactSessionId != v.ContactSessionID {
				return false
			}
		case specification.ByThreadID:
			if c.ThreadId != v.ThreadID {
				return false
			}
		case specification.ByStatus:
			if string(c.Status) != v.Status {
				return false
			}
		}
	}
	if opts.createdBefore != nil {
		if !keysetLess(c.CreatedAt.UnixNano(), opts.createdBefore.CreatedAt.UnixNano(), c.Id.String(), opts.createdBefore.ID.String()) {
			return false
		}
	}
	if opts.createdAfter != nil {
		if !keysetLess(opts.createdAfter.CreatedAt.UnixNano(), c.CreatedAt.UnixNano(), opts.createdAfter.ID.String(), c.Id.String()) {
			return false
		}
	}
	return true
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	filters, opts := splitSpecs(specs)
	var out []*entity.Conversation
	for _, c := range r.items {
		if r.matches(c, filters, opts) {
			out = append(out, c)
		}
	}
	if opts.ordered {
		sortByKeyset(out, func(c *entity.Conversation) (int64, string) {
			return c.CreatedAt.UnixNano(), c.Id.String()
		}, opts.desc)
	}
	if opts.limit >= 0 && len(out) > opts.limit {
		out = out[:opts.limit]
	}
	return out, nil
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- contact sessions ---

type fakeSessionRepo struct {
	items []*entity.ContactSession
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.ContactSession) error {
	r.items = append(r.items, s)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContactSession, error) {
	filters, _ := splitSpecs(specs)
	for _, item := range r.items {
		ok := true
		for _, s := range filters {
			switch v := s.(type) {
			case specification.ByID:
				if item.Id != v.ID {
					ok = false
				}
			case specification.ByEmail:
				if item.Email != v.Email {
					ok = false
				}
			}
		}
		if ok {
			return item, nil
		}
	}
	return nil, nil
}

// --- chat messages ---

type fakeMessageRepo struct {
	items []*entity.ChatMessage
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.ChatMessage) error {
	r.items = append(r.items, m)
	return nil
}

func (r *fakeMessageRepo) matches(m *entity.ChatMessage, specs []specification.Specification, opts queryOpts) bool {
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			if m.Id != v.ID {
				return false
			}
		case specification.ByThreadID:
			if m.ThreadId != v.ThreadID {
				return false
			}
		}
	}
	if opts.createdBefore != nil {
		if !keysetLess(m.CreatedAt.UnixNano(), opts.createdBefore.CreatedAt.UnixNano(), m.Id.String(), opts.createdBefore.ID.String()) {
			return false
		}
	}
	if opts.createdAfter != nil {
		if !keysetLess(opts.createdAfter.CreatedAt.UnixNano(), m.CreatedAt.UnixNano(), opts.createdAfter.ID.String(), m.Id.String()) {
			return false
		}
	}
	return true
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	filters, opts := splitSpecs(specs)
	var out []*entity.ChatMessage
	for _, m := range r.items {
		if r.matches(m, filters, opts) {
			out = append(out, m)
		}
	}
	if opts.ordered {
		sortByKeyset(out, func(m *entity.ChatMessage) (int64, string) {
			return m.CreatedAt.UnixNano(), m.Id.String()
		}, opts.desc)
	}
	if opts.limit >= 0 && len(out) > opts.limit {
		out = out[:opts.limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- file entries ---

type fakeFileEntryRepo struct {
	items []*entity.FileEntry
}

func (r *fakeFileEntryRepo) Create(ctx context.Context, e *entity.FileEntry) error {
	r.items = append(r.items, e)
	return nil
}

func (r *fakeFileEntryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FileEntryStatus) error {
	for _, e := range r.items {
		if e.Id == id {
			e.Status = status
		}
	}
	return nil
}

func (r *fakeFileEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	out := r.items[:0]
	for _, e := range r.items {
		if e.Id != id {
			out = append(out, e)
		}
	}
	r.items = out
	return nil
}

func (r *fakeFileEntryRepo) matches(e *entity.FileEntry, specs []specification.Specification, opts queryOpts) bool {
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			if e.Id != v.ID {
				return false
			}
		case specification.ByNamespace:
			if e.Namespace != v.Namespace {
				return false
			}
		case specification.ByContentHash:
			if e.ContentHash != v.ContentHash {
				return false
			}
		}
	}
	if opts.createdBefore != nil {
		if !keysetLess(e.CreatedAt.UnixNano(), opts.createdBefore.CreatedAt.UnixNano(), e.Id.String(), opts.createdBefore.ID.String()) {
			return false
		}
	}
	return true
}

func (r *fakeFileEntryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileEntry, error) {
	filters, opts := splitSpecs(specs)
	var out []*entity.FileEntry
	for _, e := range r.items {
		if r.matches(e, filters, opts) {
			out = append(out, e)
		}
	}
	if opts.ordered {
		sortByKeyset(out, func(e *entity.FileEntry) (int64, string) {
			return e.CreatedAt.UnixNano(), e.Id.String()
		}, opts.desc)
	}
	if opts.limit >= 0 && len(out) > opts.limit {
		out = out[:opts.limit]
	}
	return out, nil
}

func (r *fakeFileEntryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileEntry, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

// --- file embeddings ---

type fakeFileEmbeddingRepo struct {
	items []*entity.FileEmbedding
}

func (r *fakeFileEmbeddingRepo) CreateBulk(ctx context.Context, embeddings []*entity.FileEmbedding) error {
	r.items = append(r.items, embeddings...)
	return nil
}

func (r *fakeFileEmbeddingRepo) DeleteByFileEntryId(ctx context.Context, entryId uuid.UUID) error {
	out := r.items[:0]
	for _, e := range r.items {
		if e.FileEntryId != entryId {
			out = append(out, e)
		}
	}
	r.items = out
	return nil
}

func (r *fakeFileEmbeddingRepo) Search(ctx context.Context, namespace string, vector []float32, limit int) ([]*entity.FileEmbedding, error) {
	var out []*entity.FileEmbedding
	for _, e := range r.items {
		if e.Namespace == namespace {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- operators ---

type fakeOperatorRepo struct {
	items []*entity.Operator
}

func (r *fakeOperatorRepo) Create(ctx context.Context, o *entity.Operator) error {
	r.items = append(r.items, o)
	return nil
}

func (r *fakeOperatorRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Operator, error) {
	filters, _ := splitSpecs(specs)
	for _, item := range r.items {
		ok := true
		for _, s := range filters {
			switch v := s.(type) {
			case specification.ByID:
				if item.Id != v.ID {
					ok = false
				}
			case specification.ByEmail:
				if item.Email != v.Email {
					ok = false
				}
			}
		}
		if ok {
			return item, nil
		}
	}
	return nil, nil
}

// --- unit of work ---

type fakeUow struct {
	conversations *fakeConversationRepo
	sessions      *fakeSessionRepo
	messages      *fakeMessageRepo
	entries       *fakeFileEntryRepo
	embeddings    *fakeFileEmbeddingRepo
	operators     *fakeOperatorRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		conversations: &fakeConversationRepo{},
		sessions:      &fakeSessionRepo{},
		messages:      &fakeMessageRepo{},
		entries:       &fakeFileEntryRepo{},
		embeddings:    &fakeFileEmbeddingRepo{},
		operators:     &fakeOperatorRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) OperatorRepository() contract.OperatorRepository             { return u.operators }
func (u *fakeUow) ContactSessionRepository() contract.ContactSessionRepository { return u.sessions }
func (u *fakeUow) ConversationRepository() contract.ConversationRepository     { return u.conversations }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository       { return u.messages }
func (u *fakeUow) FileEntryRepository() contract.FileEntryRepository           { return u.entries }
func (u *fakeUow) FileEmbeddingRepository() contract.FileEmbeddingRepository   { return u.embeddings }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// --- ambient doubles ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeEmailService signals over a channel because transcripts go out on a
// goroutine.
type fakeEmailService struct {
	sent chan string
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{sent: make(chan string, 8)}
}

func (f *fakeEmailService) SendTranscript(toEmail, contactName string, messages []*entity.ChatMessage) error {
	f.sent <- toEmail
	return nil
}

type fakeBlobStore struct {
	blobs   map[string][]byte
	puts    int
	deletes int
	nextId  int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(ctx context.Context, data []byte, ext string) (string, error) {
	f.puts++
	f.nextId++
	id := fmt.Sprintf("blob-%d%s", f.nextId, ext)
	f.blobs[id] = data
	return id, nil
}

func (f *fakeBlobStore) Get(ctx context.Context, storageId string) ([]byte, error) {
	data, ok := f.blobs[storageId]
	if !ok {
		return nil, fmt.Errorf("blob not found: %s", storageId)
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, storageId string) error {
	f.deletes++
	delete(f.blobs, storageId)
	return nil
}

func (f *fakeBlobStore) URL(storageId string) string {
	return "/uploads/" + storageId
}

type fakePublisher struct {
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

// stubLLM answers every prompt with a fixed string.
type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

type stubEmbedder struct{}

func (stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}
