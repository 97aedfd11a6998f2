package dto

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultPageSize = 10
const MaxPageSize = 100

// Page is the common cursor-pagination envelope. ContinueCursor points past
// the last item of this page; IsDone means no further page exists.
type Page[T any] struct {
	Page           []T    `json:"page"`
	ContinueCursor string `json:"continue_cursor,omitempty"`
	IsDone         bool   `json:"is_done"`
}

// Cursor is a keyset position: the (created_at, id) pair of the last item
// returned. Opaque to clients.
type Cursor struct {
	CreatedAt time.Time
	Id        uuid.UUID
}

func (c Cursor) Encode() string {
	raw := fmt.Sprintf("%d:%s", c.CreatedAt.UnixNano(), c.Id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed cursor")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	return &Cursor{CreatedAt: time.Unix(0, nanos), Id: id}, nil
}

// ClampPageSize normalizes a client-supplied page size.
func ClampPageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
