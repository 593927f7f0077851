package out

import "context"

// FlagStore persists the authentication flag next to the session slices.
type FlagStore interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

// UserSync refreshes the session profile after the flag changes.
type UserSync interface {
	SyncUser(ctx context.Context)
}
