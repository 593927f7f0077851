package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"storefront/internal/modules/session/domain"
	sessionout "storefront/internal/modules/session/port/out"
	"storefront/internal/platform/id"
)

// Store owns the SessionState of one browsing session. All mutation goes
// through Dispatch or Update; the persisted slices are written back on every
// patch that carries them.
type Store struct {
	id     string
	blobs  sessionout.BlobStore
	auth   sessionout.AuthChecker
	logger *slog.Logger

	mu    sync.Mutex
	state domain.SessionState

	// notifyMu keeps subscriber callbacks in dispatch order once mu is released.
	notifyMu    sync.Mutex
	subMu       sync.Mutex
	subscribers map[int]func(domain.SessionState)
	nextSub     int
}

func NewStore(ctx context.Context, blobs sessionout.BlobStore, auth sessionout.AuthChecker, ids id.Generator, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if ids == nil {
		ids = id.UUID{}
	}
	s := &Store{
		id:          ids.New(),
		blobs:       blobs,
		auth:        auth,
		subscribers: map[int]func(domain.SessionState){},
	}
	s.logger = logger.With("component", "session_store", "store_id", s.id)
	s.state = s.load(ctx, domain.InitialState())
	s.logger.Debug("session loaded",
		"cart_lines", len(s.state.Cart),
		"purchases", len(s.state.PurchaseHistory),
		"authenticated", s.state.Authenticated())
	return s
}

func (s *Store) ID() string {
	return s.id
}

// GetState returns a snapshot that callers may modify freely.
func (s *Store) GetState() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch merges patch into the current state. Persistence failures are
// logged and never roll back the in-memory state.
func (s *Store) Dispatch(ctx context.Context, patch domain.Patch) {
	if patch.Empty() {
		return
	}
	s.mu.Lock()
	s.apply(ctx, patch)
	s.release()
}

// Update computes a patch from the current state and applies it atomically.
// An error or an empty patch leaves the state untouched.
func (s *Store) Update(ctx context.Context, fn func(domain.SessionState) (domain.Patch, error)) error {
	s.mu.Lock()
	patch, err := fn(s.state.Clone())
	if err != nil || patch.Empty() {
		s.mu.Unlock()
		return err
	}
	s.apply(ctx, patch)
	s.release()
	return nil
}

// Subscribe registers fn to receive the state after every change. Callbacks
// run outside the state lock but must not dispatch synchronously.
func (s *Store) Subscribe(fn func(domain.SessionState)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	key := s.nextSub
	s.nextSub++
	s.subscribers[key] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, key)
	}
}

// Reload re-reads the persisted slices and the auth flag. Viewport and
// modal state are kept.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()
	current := s.state
	next := s.load(ctx, domain.InitialState())
	next.Viewport = current.Viewport
	next.ModalOpen = current.ModalOpen
	s.state = next
	s.release()
}

// SyncUser re-reads only the auth flag, seeding or clearing the profile.
func (s *Store) SyncUser(ctx context.Context) {
	var profile *domain.UserProfile
	if s.authenticated(ctx) {
		profile = domain.PlaceholderProfile()
	}
	s.Dispatch(ctx, domain.Patch{}.WithUserData(profile))
}

// apply must be called with mu held.
func (s *Store) apply(ctx context.Context, patch domain.Patch) {
	s.state = s.state.Merge(patch)
	if patch.Has(domain.FieldCart) {
		s.persist(ctx, domain.KeyCart, s.state.Cart)
	}
	if patch.Has(domain.FieldPurchaseHistory) {
		s.persist(ctx, domain.KeyPurchaseHistory, s.state.PurchaseHistory)
	}
}

// release hands the lock over to subscriber notification.
func (s *Store) release() {
	snapshot := s.state.Clone()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.subMu.Lock()
	keys := make([]int, 0, len(s.subscribers))
	for key := range s.subscribers {
		keys = append(keys, key)
	}
	fns := make([]func(domain.SessionState), 0, len(keys))
	slices.Sort(keys)
	for _, key := range keys {
		fns = append(fns, s.subscribers[key])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snapshot.Clone())
	}
}

func (s *Store) persist(ctx context.Context, key string, value any) {
	if s.blobs == nil {
		return
	}
	if err := s.blobs.Set(ctx, key, value); err != nil {
		s.logger.Warn("persist session slice", "key", key, "error", err)
	}
}

func (s *Store) load(ctx context.Context, state domain.SessionState) domain.SessionState {
	if s.blobs != nil {
		var cart []domain.CartLine
		if s.blobs.Get(ctx, domain.KeyCart, &cart) {
			if err := domain.ValidateCart(cart); err != nil {
				s.logger.Warn("discard persisted cart", "error", err)
			} else if cart != nil {
				state.Cart = cart
			}
		}
		var history []domain.PurchaseRecord
		if s.blobs.Get(ctx, domain.KeyPurchaseHistory, &history) {
			if err := domain.ValidateHistory(history); err != nil {
				s.logger.Warn("discard persisted purchase history", "error", err)
			} else if history != nil {
				state.PurchaseHistory = history
			}
		}
	}
	state.TotalPurchases, state.TotalSpent = domain.Totals(state.PurchaseHistory)
	if s.authenticated(ctx) {
		state.UserData = domain.PlaceholderProfile()
	}
	return state
}

func (s *Store) authenticated(ctx context.Context) bool {
	return s.auth != nil && s.auth.IsAuthenticated(ctx)
}
