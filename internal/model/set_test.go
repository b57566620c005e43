package model

import (
	"slices"
	"sync"
	"testing"
)

// TestStringSet tests the write-once set.
func TestStringSet(t *testing.T) {
	t.Parallel()

	t.Run("Add reports new items only", func(t *testing.T) {
		t.Parallel()

		s := NewStringSet()
		if !s.Add("a.example.com") {
			t.Error("expected first Add to report true")
		}
		if s.Add("a.example.com") {
			t.Error("expected duplicate Add to report false")
		}
		if s.Len() != 1 {
			t.Errorf("got %d items, expected 1", s.Len())
		}
	})

	t.Run("AddAll counts new items", func(t *testing.T) {
		t.Parallel()

		s := NewStringSet("a")
		added := s.AddAll([]string{"a", "b", "b", "c"})
		if added != 2 {
			t.Errorf("got %d added, expected 2", added)
		}
		if !s.Has("c") {
			t.Error("expected set to contain c")
		}
	})

	t.Run("Sorted orders by bytes", func(t *testing.T) {
		t.Parallel()

		s := NewStringSet("www.example.com", "Mail.example.com", "api.example.com")
		got := s.Sorted()
		expected := []string{"Mail.example.com", "api.example.com", "www.example.com"}
		if !slices.Equal(got, expected) {
			t.Errorf("got %v, expected %v", got, expected)
		}
	})

	t.Run("union is independent of insertion order", func(t *testing.T) {
		t.Parallel()

		parts := [][]string{{"x", "y"}, {"y", "z"}, {"w"}}

		forward := NewStringSet()
		for _, p := range parts {
			forward.AddAll(p)
		}
		backward := NewStringSet()
		for i := len(parts) - 1; i >= 0; i-- {
			backward.AddAll(parts[i])
		}

		if !slices.Equal(forward.Sorted(), backward.Sorted()) {
			t.Errorf("got %v and %v", forward.Sorted(), backward.Sorted())
		}
	})

	t.Run("concurrent adds are safe", func(t *testing.T) {
		t.Parallel()

		s := NewStringSet()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Add(string(rune('a' + i%26)))
			}()
		}
		wg.Wait()

		if s.Len() != 26 {
			t.Errorf("got %d items, expected 26", s.Len())
		}
	})
}
