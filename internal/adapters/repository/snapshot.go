// Package repository keeps the latest score snapshot for concurrent
// readers. The sweep loop replaces the snapshot atomically after each
// pass; the debug HTTP surface reads ranked views of it.
package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/herald/internal/domain/score"
)

// Entry represents one ranked standings row.
type Entry struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Total    float64 `json:"total"`
}

// SnapshotStore guards the latest snapshot with a lock; the sweep loop is
// the only writer, HTTP handlers are the readers.
type SnapshotStore struct {
	mu   sync.RWMutex
	snap *score.Snapshot
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Replace swaps in a fresh snapshot.
func (s *SnapshotStore) Replace(snap *score.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// Latest returns the current snapshot, or nil before the first sweep.
// Callers must treat the returned snapshot as read-only.
func (s *SnapshotStore) Latest() *score.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// TopN returns the n best-ranked entries. Users with bit-identical totals
// share a rank. Returns ErrNoSnapshot before the first sweep completes.
func (s *SnapshotStore) TopN(_ context.Context, n int) ([]Entry, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	if snap == nil {
		return nil, ErrNoSnapshot
	}
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	usernames := make([]string, 0, len(snap.Rows))
	for username := range snap.Rows {
		usernames = append(usernames, username)
	}
	sort.Slice(usernames, func(i, j int) bool {
		ti, tj := snap.Total(usernames[i]), snap.Total(usernames[j])
		if ti != tj {
			return ti > tj
		}
		return usernames[i] < usernames[j]
	})

	if n > len(usernames) {
		n = len(usernames)
	}
	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		entries[i] = Entry{
			Rank:     i + 1,
			Username: usernames[i],
			Total:    snap.Total(usernames[i]),
		}
		if i > 0 && entries[i].Total == entries[i-1].Total {
			entries[i].Rank = entries[i-1].Rank
		}
	}
	return entries, nil
}

// Count returns the number of users in the current snapshot.
func (s *SnapshotStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return 0
	}
	return len(s.snap.Rows)
}
