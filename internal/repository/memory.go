package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// MemoryStore holds the encoded snapshot in memory. It goes through the same
// codec as the durable stores, so loaded galleries never alias saved ones.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

var _ GalleryStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*domain.Gallery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	data := s.data
	s.mu.Unlock()

	if data == nil {
		return nil, domain.ErrStorageUnavailable.WithError(errors.New("no gallery saved"))
	}
	return UnmarshalGallery(data)
}

func (s *MemoryStore) Save(ctx context.Context, g *domain.Gallery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := MarshalGallery(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Bytes returns a copy of the last saved snapshot, or nil.
func (s *MemoryStore) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}
