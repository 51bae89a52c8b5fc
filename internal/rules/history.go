package rules

import (
	"sync"
	"time"
)

// DefaultHistoryCapacity bounds the sender history store
const DefaultHistoryCapacity = 100

// SenderHistoryEntry is one recorded message observation. Only a short
// text prefix is kept, never the full body.
type SenderHistoryEntry struct {
	Sender     string
	Timestamp  time.Time
	TextPrefix string
}

// HistoryStore is a bounded, chronologically ordered record of recent
// message observations. It is the only shared mutable state in the
// engine; all access goes through its internal lock.
type HistoryStore struct {
	mu       sync.Mutex
	entries  []SenderHistoryEntry
	capacity int
}

// NewHistoryStore creates a history store holding at most capacity
// entries, oldest evicted first. A non-positive capacity falls back to
// DefaultHistoryCapacity.
func NewHistoryStore(capacity int) *HistoryStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &HistoryStore{
		entries:  make([]SenderHistoryEntry, 0, capacity),
		capacity: capacity,
	}
}

// Observe records the entry and returns the prior entries from the
// same sender found among the window most recent records. The lookup
// and the append happen under one lock so that concurrent analyses
// cannot interleave an append between another request's burst read and
// its decision.
func (s *HistoryStore) Observe(e SenderHistoryEntry, window int) []SenderHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if window > 0 && len(s.entries) > window {
		start = len(s.entries) - window
	}

	var matches []SenderHistoryEntry
	for _, prev := range s.entries[start:] {
		if prev.Sender == e.Sender {
			matches = append(matches, prev)
		}
	}

	s.entries = append(s.entries, e)
	if len(s.entries) > s.capacity {
		// Drop oldest first; copy to keep the backing array from
		// pinning evicted entries
		trimmed := make([]SenderHistoryEntry, s.capacity)
		copy(trimmed, s.entries[len(s.entries)-s.capacity:])
		s.entries = trimmed
	}

	return matches
}

// Len reports the number of stored entries
func (s *HistoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of the stored entries in insertion order
func (s *HistoryStore) Entries() []SenderHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SenderHistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
