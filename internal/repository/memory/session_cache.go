package memory

import (
	"time"

	"support-chat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionCache keeps validated contact sessions in process memory so the
// guard does not re-read the row on every widget call. Entries expire with
// the session itself, capped at a short TTL so revocations converge.
type SessionCache struct {
	cache *cache.Cache
}

const maxCacheTTL = 5 * time.Minute

func NewSessionCache() *SessionCache {
	c := cache.New(maxCacheTTL, 10*time.Minute)
	return &SessionCache{
		cache: c,
	}
}

func (r *SessionCache) Save(session *entity.ContactSession) {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return
	}
	if ttl > maxCacheTTL {
		ttl = maxCacheTTL
	}
	r.cache.Set(session.Id.String(), session, ttl)
}

func (r *SessionCache) Get(sessionId uuid.UUID) (*entity.ContactSession, bool) {
	if x, found := r.cache.Get(sessionId.String()); found {
		return x.(*entity.ContactSession), true
	}
	return nil, false
}

func (r *SessionCache) Delete(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
}
