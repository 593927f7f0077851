package id

import (
	"sync"

	"github.com/google/uuid"

	"storefront/internal/platform/clock"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Sequence hands out numeric identifiers for cart lines and purchase records.
type Sequence interface {
	Next() int64
}

// MillisSequence issues the current Unix time in milliseconds, bumped by one
// whenever two calls land in the same millisecond so values never repeat.
type MillisSequence struct {
	mu    sync.Mutex
	clock clock.Clock
	last  int64
}

func NewMillisSequence(clk clock.Clock) *MillisSequence {
	return &MillisSequence{clock: clk}
}

func (s *MillisSequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now().UnixMilli()
	if now <= s.last {
		now = s.last + 1
	}
	s.last = now
	return now
}

// Observe raises the floor so later values are greater than seen.
func (s *MillisSequence) Observe(seen int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seen > s.last {
		s.last = seen
	}
}
