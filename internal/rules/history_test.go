package rules

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEvictsOldestFirst(t *testing.T) {
	store := NewHistoryStore(100)
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 150; i++ {
		store.Observe(SenderHistoryEntry{
			Sender:    fmt.Sprintf("sender-%03d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}, burstWindow)
	}

	require.Equal(t, 100, store.Len())
	entries := store.Entries()
	assert.Equal(t, "sender-050", entries[0].Sender)
	assert.Equal(t, "sender-149", entries[99].Sender)
}

func TestHistoryObserveReturnsPriorSameSenderEntries(t *testing.T) {
	store := NewHistoryStore(100)
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	store.Observe(SenderHistoryEntry{Sender: "a", Timestamp: base}, burstWindow)
	store.Observe(SenderHistoryEntry{Sender: "b", Timestamp: base.Add(time.Second)}, burstWindow)
	store.Observe(SenderHistoryEntry{Sender: "a", Timestamp: base.Add(2 * time.Second)}, burstWindow)

	matches := store.Observe(SenderHistoryEntry{Sender: "a", Timestamp: base.Add(3 * time.Second)}, burstWindow)
	require.Len(t, matches, 2)
	assert.Equal(t, base, matches[0].Timestamp)
	assert.Equal(t, base.Add(2*time.Second), matches[1].Timestamp)
}

func TestHistoryObserveHonorsLookupWindow(t *testing.T) {
	store := NewHistoryStore(100)
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 60; i++ {
		store.Observe(SenderHistoryEntry{
			Sender:    "bulk",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}, burstWindow)
	}

	matches := store.Observe(SenderHistoryEntry{Sender: "bulk", Timestamp: base.Add(time.Minute)}, burstWindow)
	assert.Len(t, matches, burstWindow)
}

func TestHistoryEmptySenderIsItsOwnBucket(t *testing.T) {
	store := NewHistoryStore(100)
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	store.Observe(SenderHistoryEntry{Sender: "", Timestamp: base}, burstWindow)
	store.Observe(SenderHistoryEntry{Sender: "a", Timestamp: base.Add(time.Second)}, burstWindow)

	matches := store.Observe(SenderHistoryEntry{Sender: "", Timestamp: base.Add(2 * time.Second)}, burstWindow)
	require.Len(t, matches, 1)
	assert.Empty(t, matches[0].Sender)
}

func TestHistoryNonPositiveCapacityFallsBack(t *testing.T) {
	store := NewHistoryStore(0)

	for i := 0; i < 150; i++ {
		store.Observe(SenderHistoryEntry{Sender: "x"}, burstWindow)
	}
	assert.Equal(t, DefaultHistoryCapacity, store.Len())
}

func TestHistoryConcurrentObserve(t *testing.T) {
	store := NewHistoryStore(100)
	done := make(chan struct{})

	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 50; i++ {
				store.Observe(SenderHistoryEntry{
					Sender:    fmt.Sprintf("g%d", g),
					Timestamp: time.Now(),
				}, burstWindow)
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	assert.Equal(t, 100, store.Len())
}
