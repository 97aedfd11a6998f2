package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps blobs on the local filesystem under a single directory,
// served statically by the HTTP server.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob dir %s: %w", dir, err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalStore) Put(ctx context.Context, data []byte, ext string) (string, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	storageId := uuid.New().String() + ext
	path := filepath.Join(s.dir, storageId)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return storageId, nil
}

func (s *LocalStore) Get(ctx context.Context, storageId string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, filepath.Base(storageId)))
}

func (s *LocalStore) Delete(ctx context.Context, storageId string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(storageId)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStore) URL(storageId string) string {
	return s.baseURL + "/uploads/" + storageId
}
