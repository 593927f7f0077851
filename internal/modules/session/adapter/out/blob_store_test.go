package out_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	sessionout "storefront/internal/modules/session/adapter/out"
	"storefront/internal/modules/session/domain"
	sessionport "storefront/internal/modules/session/port/out"
)

type rawBlobStore interface {
	sessionport.BlobStore
	SetRaw(ctx context.Context, key string, payload []byte) error
}

func blobStores(t *testing.T) map[string]rawBlobStore {
	t.Helper()
	dir := t.TempDir()
	sqliteStore, err := sessionout.NewSQLiteBlobStore(filepath.Join(dir, "state.db"), "default")
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })
	return map[string]rawBlobStore{
		"sqlite": sqliteStore,
		"file":   sessionout.NewFileBlobStore(dir, "default"),
		"memory": sessionout.NewMemoryBlobStore(),
	}
}

func TestBlobStoresRoundTripAndRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, store := range blobStores(t) {
		cart := []domain.CartLine{{ID: 7, Quantity: 2}}
		if err := store.Set(ctx, domain.KeyCart, cart); err != nil {
			t.Fatalf("%s: set: %v", name, err)
		}
		var loaded []domain.CartLine
		if !store.Get(ctx, domain.KeyCart, &loaded) {
			t.Fatalf("%s: expected stored cart", name)
		}
		if len(loaded) != 1 || loaded[0].ID != 7 || loaded[0].Quantity != 2 {
			t.Fatalf("%s: unexpected cart %+v", name, loaded)
		}
		if err := store.Remove(ctx, domain.KeyCart); err != nil {
			t.Fatalf("%s: remove: %v", name, err)
		}
		if store.Get(ctx, domain.KeyCart, &loaded) {
			t.Fatalf("%s: expected absent after remove", name)
		}
		if err := store.Remove(ctx, domain.KeyCart); err != nil {
			t.Fatalf("%s: removing a missing key must succeed: %v", name, err)
		}
	}
}

func TestBlobStoresTreatMalformedAsAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for name, store := range blobStores(t) {
		if err := store.SetRaw(ctx, domain.KeyPurchaseHistory, []byte("{not json")); err != nil {
			t.Fatalf("%s: set raw: %v", name, err)
		}
		var history []domain.PurchaseRecord
		if store.Get(ctx, domain.KeyPurchaseHistory, &history) {
			t.Fatalf("%s: malformed blob must read as absent", name)
		}
		if store.Get(ctx, "missing", &history) {
			t.Fatalf("%s: missing key must read as absent", name)
		}
	}
}

func TestSQLiteBlobStoreIsolatesNamespaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	alice, err := sessionout.NewSQLiteBlobStore(dbPath, "alice")
	if err != nil {
		t.Fatalf("open alice: %v", err)
	}
	defer alice.Close()
	bob, err := sessionout.NewSQLiteBlobStore(dbPath, "bob")
	if err != nil {
		t.Fatalf("open bob: %v", err)
	}
	defer bob.Close()

	if err := alice.Set(ctx, domain.KeyAuthenticated, "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	var flag string
	if bob.Get(ctx, domain.KeyAuthenticated, &flag) {
		t.Fatalf("bob must not see alice's flag")
	}
	if !alice.Get(ctx, domain.KeyAuthenticated, &flag) || flag != "true" {
		t.Fatalf("expected alice flag, got %q", flag)
	}
}

func TestBlobStoresAcceptConcurrentWriters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "state.db")
	stores := map[string]rawBlobStore{
		"file":   sessionout.NewFileBlobStore(dir, "default"),
		"memory": sessionout.NewMemoryBlobStore(),
	}
	// Two handles on one database file contend for the same file lock.
	for _, profile := range []string{"default", "work"} {
		store, err := sessionout.NewSQLiteBlobStore(dbPath, profile)
		if err != nil {
			t.Fatalf("open sqlite %s: %v", profile, err)
		}
		t.Cleanup(func() { _ = store.Close() })
		stores["sqlite-"+profile] = store
	}

	const writers = 50
	type result struct {
		store string
		err   error
	}
	results := make(chan result, 2*writers*len(stores))
	var wg sync.WaitGroup
	for name, store := range stores {
		name, store := name, store
		for i := 0; i < writers; i++ {
			wg.Add(2)
			go func(qty int) {
				defer wg.Done()
				err := store.Set(ctx, domain.KeyCart, []domain.CartLine{{ID: int64(qty + 1), Quantity: qty + 1}})
				results <- result{store: name, err: err}
			}(i)
			go func() {
				defer wg.Done()
				results <- result{store: name, err: store.Set(ctx, domain.KeyAuthenticated, "true")}
			}()
		}
	}
	wg.Wait()
	close(results)
	failed := map[string]int{}
	for r := range results {
		if r.err != nil {
			failed[r.store]++
			t.Logf("%s: %v", r.store, r.err)
		}
	}
	for name, store := range stores {
		if failed[name] > 0 {
			t.Fatalf("%s: failed writes: %d/%d", name, failed[name], 2*writers)
		}
		var cart []domain.CartLine
		if !store.Get(ctx, domain.KeyCart, &cart) || len(cart) != 1 {
			t.Fatalf("%s: expected one readable cart line, got %+v", name, cart)
		}
		var flag string
		if !store.Get(ctx, domain.KeyAuthenticated, &flag) || flag != "true" {
			t.Fatalf("%s: expected auth flag, got %q", name, flag)
		}
	}
}

func TestFileBlobStoreLayout(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := sessionout.NewFileBlobStore(dir, "Work Laptop")
	if err := store.Set(context.Background(), domain.KeyCart, []domain.CartLine{}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "session", "work-laptop", "cart.json")); err != nil {
		t.Fatalf("expected cart file: %v", err)
	}
}
