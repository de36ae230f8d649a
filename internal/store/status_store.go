package store

import (
	"sync"
	"time"

	"github.com/josimar-silva/thermocord/internal/presence"
)

// CycleStats counts finished poll cycles by result.
type CycleStats struct {
	Total  uint64
	Sent   uint64
	Failed uint64
}

// InMemoryStatusStore implements presence.StatusRecorder, keeping the last
// cycle outcome and running totals in memory. Readings themselves are never stored.
type InMemoryStatusStore struct {
	mu         sync.RWMutex
	last       presence.CycleStatus
	hasLast    bool
	lastSentAt time.Time
	stats      CycleStats
}

// NewInMemoryStatusStore creates an empty InMemoryStatusStore.
func NewInMemoryStatusStore() *InMemoryStatusStore {
	return &InMemoryStatusStore{}
}

// Record stores the outcome of a finished cycle.
// A cycle counts as delivered only when the activity was sent without error.
func (s *InMemoryStatusStore) Record(status presence.CycleStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = status
	s.hasLast = true
	s.stats.Total++

	if status.Sent && status.Error == "" {
		s.stats.Sent++
		s.lastSentAt = status.FinishedAt
		return
	}
	s.stats.Failed++
}

// LastCycle returns the most recent cycle.
// Returns (status, true) once a cycle has been recorded, (zero-value, false) otherwise.
func (s *InMemoryStatusStore) LastCycle() (presence.CycleStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.last, s.hasLast
}

// LastSentAt returns when an activity was last delivered successfully.
func (s *InMemoryStatusStore) LastSentAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastSentAt, !s.lastSentAt.IsZero()
}

// Stats returns a snapshot of the cycle counters.
func (s *InMemoryStatusStore) Stats() CycleStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stats
}
