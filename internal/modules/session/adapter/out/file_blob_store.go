package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	sessionout "storefront/internal/modules/session/port/out"
	"storefront/internal/platform/slug"
)

// FileBlobStore writes one JSON file per key under dir.
type FileBlobStore struct {
	dir string
}

var _ sessionout.BlobStore = (*FileBlobStore)(nil)

func NewFileBlobStore(dataDir, profile string) *FileBlobStore {
	return &FileBlobStore{dir: filepath.Join(dataDir, "session", slug.Make(profile))}
}

func (s *FileBlobStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileBlobStore) Get(_ context.Context, key string, dst any) bool {
	payload, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	return json.Unmarshal(payload, dst) == nil
}

func (s *FileBlobStore) Set(ctx context.Context, key string, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.SetRaw(ctx, key, payload)
}

// SetRaw writes payload via a temp file and rename.
func (s *FileBlobStore) SetRaw(_ context.Context, key string, payload []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (s *FileBlobStore) Remove(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
