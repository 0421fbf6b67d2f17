package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// FileStore keeps the gallery snapshot in a single file on local disk.
type FileStore struct {
	path string
}

var _ GalleryStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (*domain.Gallery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithError(fmt.Errorf("read gallery %s: %w", s.path, err))
	}
	return UnmarshalGallery(data)
}

// Ping reports whether the directory holding the snapshot exists. A missing
// snapshot file is not a failure: nothing has been saved yet.
func (s *FileStore) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("stat %s: %w", dir, err))
	}
	if !info.IsDir() {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("%s is not a directory", dir))
	}
	return nil
}

// Save writes the snapshot to a temporary file in the same directory and
// renames it over the previous one.
func (s *FileStore) Save(ctx context.Context, g *domain.Gallery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := MarshalGallery(g)
	if err != nil {
		return fmt.Errorf("marshal gallery: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return domain.ErrStorageUnavailable.WithError(fmt.Errorf("write gallery %s: %w", s.path, err))
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0o644)

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	tmpName = ""

	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
