// Salescope - Sales Analytics Query Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salescope

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/salescope/internal/config"
)

// memoryEntry is a node in the recency list.
type memoryEntry struct {
	key       string
	value     []byte
	prev      *memoryEntry
	next      *memoryEntry
	expiresAt time.Time
}

// MemoryStore is an in-process LRU Store with per-entry TTL. It is meant for
// development and tests; each replica keeps its own copy.
//
// Get, Set and eviction are O(1): a map indexes nodes of a doubly-linked
// list ordered from most to least recently used. Expired entries are removed
// lazily on access.
type MemoryStore struct {
	mu sync.Mutex

	capacity int
	items    map[string]*memoryEntry

	// head.next is the most recently used, tail.prev the least.
	head *memoryEntry
	tail *memoryEntry

	now func() time.Time
}

// NewMemoryStore creates a store that holds at most capacity entries.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 1024
	}

	s := &MemoryStore{
		capacity: capacity,
		items:    make(map[string]*memoryEntry, capacity),
		head:     &memoryEntry{},
		tail:     &memoryEntry{},
		now:      time.Now,
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// Get returns a copy of the stored value or ErrCacheMiss.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !s.now().Before(entry.expiresAt) {
		s.removeEntry(entry)
		return nil, ErrCacheMiss
	}

	s.moveToFront(entry)
	return append([]byte(nil), entry.value...), nil
}

// Set stores a copy of value. The least recently used entry is evicted
// when the store is full.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(ttl)
	value = append([]byte(nil), value...)

	if entry, ok := s.items[key]; ok {
		entry.value = value
		entry.expiresAt = expiresAt
		s.moveToFront(entry)
		return nil
	}

	entry := &memoryEntry{key: key, value: value, expiresAt: expiresAt}
	s.addToFront(entry)
	s.items[key] = entry

	for len(s.items) > s.capacity {
		s.evictOldest()
	}
	return nil
}

// Len returns the number of entries, including expired ones not yet evicted.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close drops every entry.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*memoryEntry)
	s.head.next = s.tail
	s.tail.prev = s.head
	return nil
}

// Name returns "memory".
func (s *MemoryStore) Name() string { return config.CacheMemory }

// Internal methods (must be called with lock held)

func (s *MemoryStore) addToFront(entry *memoryEntry) {
	entry.prev = s.head
	entry.next = s.head.next
	s.head.next.prev = entry
	s.head.next = entry
}

func (s *MemoryStore) moveToFront(entry *memoryEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	s.addToFront(entry)
}

func (s *MemoryStore) removeEntry(entry *memoryEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(s.items, entry.key)
}

func (s *MemoryStore) evictOldest() {
	oldest := s.tail.prev
	if oldest == s.head {
		return
	}
	s.removeEntry(oldest)
}
