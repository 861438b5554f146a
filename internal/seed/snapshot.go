package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"homemeds/m/internal/config"
)

// ErrSnapshotMissing is returned by Read when no snapshot has been written yet.
var ErrSnapshotMissing = errors.New("seed snapshot missing")

// SnapshotStore holds the single official seed snapshot.
type SnapshotStore interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Location() string
}

// OpenStore selects the snapshot backend named by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.SeedConfig) (SnapshotStore, error) {
	switch cfg.Driver {
	case "", "fs":
		return NewFileStore(cfg.Path), nil
	case "s3":
		store, err := NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Key:       cfg.S3Key,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown seed driver %q", cfg.Driver)
	}
}

// FileStore keeps the snapshot in a local JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Location() string { return f.path }

func (f *FileStore) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", f.path, ErrSnapshotMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", f.path, err)
	}
	return data, nil
}

// Write replaces the snapshot atomically: readers see either the old or the new file.
func (f *FileStore) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".seed-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", f.path, err)
	}
	return nil
}
