package model

import (
	"slices"
	"sync"
)

// StringSet is a set of strings that only ever grows.
// It is safe for concurrent use, although the pipeline merges into it
// from a single goroutine after each stage completes.
type StringSet struct {
	mu    sync.RWMutex
	items map[string]struct{}
}

// NewStringSet creates a set holding the given items.
func NewStringSet(items ...string) *StringSet {
	s := &StringSet{items: make(map[string]struct{}, len(items))}
	s.AddAll(items)
	return s
}

// Add inserts item and reports whether it was not already present.
func (s *StringSet) Add(item string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item]; ok {
		return false
	}
	s.items[item] = struct{}{}
	return true
}

// AddAll inserts every item and returns how many were new.
func (s *StringSet) AddAll(items []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, item := range items {
		if _, ok := s.items[item]; ok {
			continue
		}
		s.items[item] = struct{}{}
		added++
	}
	return added
}

// Has reports whether item is in the set.
func (s *StringSet) Has(item string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[item]
	return ok
}

// Len returns the number of items.
func (s *StringSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Sorted returns the items in lexicographic byte order.
func (s *StringSet) Sorted() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}
	s.mu.RUnlock()

	slices.Sort(out)
	return out
}
