package models

import (
	"sort"
	"sync"
)

// SnapshotStore keeps the last known invite baseline of every guild.
// Entries are replaced wholesale and never evicted.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]Snapshot),
	}
}

func (s *SnapshotStore) Get(guildID string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.data[guildID]
	return snap, ok
}

func (s *SnapshotStore) Put(guildID string, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[guildID] = snap
}

// Merge folds a single record into an existing baseline. It reports false
// and does nothing when the guild has no baseline yet.
func (s *SnapshotStore) Merge(guildID string, rec InviteRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.data[guildID]
	if !ok {
		return false
	}
	s.data[guildID] = snap.With(rec)
	return true
}

// Guilds returns the tracked guild IDs in ascending order.
func (s *SnapshotStore) Guilds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
