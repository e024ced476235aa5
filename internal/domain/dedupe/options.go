// Package dedupe provides insertion-ordered string sets used to merge
// repeated evidence without duplicates.
package dedupe

// Option applies a configuration option to a Set.
type Option func(*Set)

// WithCapacity caps how many keys the set keeps.
// If capacity > 0: keys beyond the cap are rejected (the first ones win).
// If capacity <= 0: unbounded.
func WithCapacity(capacity int) Option {
	return func(s *Set) {
		s.capacity = capacity
	}
}
