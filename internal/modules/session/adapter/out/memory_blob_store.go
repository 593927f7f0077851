package out

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	sessionout "storefront/internal/modules/session/port/out"
)

// MemoryBlobStore holds encoded blobs in process memory.
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

var _ sessionout.BlobStore = (*MemoryBlobStore)(nil)

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: map[string][]byte{}}
}

func (s *MemoryBlobStore) Get(_ context.Context, key string, dst any) bool {
	s.mu.Lock()
	payload, ok := s.blobs[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(payload, dst) == nil
}

func (s *MemoryBlobStore) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.SetRaw(ctx, key, payload)
}

func (s *MemoryBlobStore) SetRaw(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryBlobStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
