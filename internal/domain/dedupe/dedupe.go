// Package dedupe provides insertion-ordered string sets used to merge
// repeated evidence without duplicates.
package dedupe

import "sort"

// Set records keys once, remembering the order they were first added.
// It is not safe for concurrent use; the pipeline is single-threaded.
type Set struct {
	seen     map[string]struct{}
	order    []string
	capacity int // 0 or negative = unbounded
}

// New creates an empty set.
func New(opts ...Option) *Set {
	s := &Set{seen: make(map[string]struct{})}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records key and reports whether it was newly recorded. A key already
// present, or any new key once the capacity is reached, returns false.
func (s *Set) Add(key string) bool {
	if _, exists := s.seen[key]; exists {
		return false
	}
	if s.capacity > 0 && len(s.order) >= s.capacity {
		return false
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}

// AddAll records every non-empty key.
func (s *Set) AddAll(keys ...string) {
	for _, k := range keys {
		if k != "" {
			s.Add(k)
		}
	}
}

// Has reports whether key was recorded.
func (s *Set) Has(key string) bool {
	_, ok := s.seen[key]
	return ok
}

// Len returns the number of recorded keys.
func (s *Set) Len() int {
	return len(s.order)
}

// Full reports whether a bounded set reached its capacity.
func (s *Set) Full() bool {
	return s.capacity > 0 && len(s.order) >= s.capacity
}

// Keys returns the keys in insertion order.
func (s *Set) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Sorted returns the keys in ascending order.
func (s *Set) Sorted() []string {
	out := s.Keys()
	sort.Strings(out)
	return out
}

// Intersects reports whether both sets share at least one key.
func Intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	index := make(map[string]struct{}, len(large))
	for _, k := range large {
		index[k] = struct{}{}
	}
	for _, k := range small {
		if _, ok := index[k]; ok {
			return true
		}
	}
	return false
}
