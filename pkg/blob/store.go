package blob

import "context"

// Store persists raw uploaded bytes. Entry metadata references blobs by
// storage id; a deduplicated upload's blob must be deleted, never retained
// twice.
type Store interface {
	Put(ctx context.Context, data []byte, ext string) (storageId string, err error)
	Get(ctx context.Context, storageId string) ([]byte, error)
	Delete(ctx context.Context, storageId string) error
	URL(storageId string) string
}
