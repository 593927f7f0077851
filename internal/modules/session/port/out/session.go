package out

import "context"

// BlobStore is a session-scoped key/value store of JSON blobs. Get reports
// false for missing, malformed or unreadable values and never fails.
type BlobStore interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

// AuthChecker answers whether the current session is authenticated.
type AuthChecker interface {
	IsAuthenticated(ctx context.Context) bool
}
