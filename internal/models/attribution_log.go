package models

import "sync"

const defaultHistorySize = 100

// AttributionLog keeps the most recent attributions of every guild in memory.
type AttributionLog struct {
	mu    sync.RWMutex
	size  int
	data  map[string][]Attribution
	total int64
}

func NewAttributionLog(size int) *AttributionLog {
	if size <= 0 {
		size = defaultHistorySize
	}
	return &AttributionLog{
		size: size,
		data: make(map[string][]Attribution),
	}
}

func (l *AttributionLog) Add(a Attribution) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := append(l.data[a.GuildID], a)
	if len(entries) > l.size {
		entries = append([]Attribution(nil), entries[len(entries)-l.size:]...)
	}
	l.data[a.GuildID] = entries
	l.total++
}

// List returns the guild's attributions, newest first.
func (l *AttributionLog) List(guildID string) []Attribution {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := l.data[guildID]
	out := make([]Attribution, len(entries))
	for i, a := range entries {
		out[len(entries)-1-i] = a
	}
	return out
}

// Total counts every attribution ever added, including trimmed ones.
func (l *AttributionLog) Total() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}
