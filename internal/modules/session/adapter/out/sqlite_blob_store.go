package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sessionout "storefront/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

// sqliteDSNOpt makes a writer wait for the file lock instead of failing with
// SQLITE_BUSY.
const sqliteDSNOpt = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// SQLiteBlobStore keeps session blobs in one table, partitioned by profile.
type SQLiteBlobStore struct {
	db        *sql.DB
	namespace string
}

var _ sessionout.BlobStore = (*SQLiteBlobStore)(nil)

func NewSQLiteBlobStore(dbPath, namespace string) (*SQLiteBlobStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+sqliteDSNOpt)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers within the process.
	db.SetMaxOpenConns(1)
	s := &SQLiteBlobStore{db: db, namespace: namespace}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteBlobStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS blobs (
  namespace TEXT NOT NULL,
  key TEXT NOT NULL,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (namespace, key)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create blobs table: %w", err)
	}
	return nil
}

func (s *SQLiteBlobStore) Get(ctx context.Context, key string, dst any) bool {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE namespace = ? AND key = ?;`, s.namespace, key).Scan(&payload)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(payload), dst) == nil
}

func (s *SQLiteBlobStore) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.SetRaw(ctx, key, payload)
}

// SetRaw stores payload verbatim.
func (s *SQLiteBlobStore) SetRaw(ctx context.Context, key string, payload []byte) error {
	const stmt = `
INSERT INTO blobs (namespace, key, value, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(namespace, key) DO UPDATE SET
  value = excluded.value,
  updated_at = excluded.updated_at;
`
	if _, err := s.db.ExecContext(ctx, stmt, s.namespace, key, string(payload), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteBlobStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE namespace = ? AND key = ?;`, s.namespace, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteBlobStore) Close() error {
	return s.db.Close()
}
