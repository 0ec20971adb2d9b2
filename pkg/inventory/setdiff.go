package inventory

import (
	"cmp"
	"slices"
)

// Set is an unordered collection of unique keys.
type Set[K comparable] map[K]struct{}

// NewSet builds a set from items.
func NewSet[K comparable](items ...K) Set[K] {
	s := make(Set[K], len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// KeySet returns the keys of m as a set.
func KeySet[K comparable, V any](m map[K]V) Set[K] {
	s := make(Set[K], len(m))
	for k := range m {
		s[k] = struct{}{}
	}
	return s
}

func (s Set[K]) Has(k K) bool {
	_, ok := s[k]
	return ok
}

func (s Set[K]) Add(k K) {
	s[k] = struct{}{}
}

// Sorted returns the members of s in ascending order.
func Sorted[K cmp.Ordered](s Set[K]) []K {
	out := make([]K, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Diff describes how a next set differs from a previous one.
type Diff[K comparable] struct {
	Added   Set[K] // in next only
	Removed Set[K] // in prev only
	Common  Set[K] // in both
}

// DiffSets partitions the union of prev and next. Every key lands in exactly
// one of Added, Removed or Common.
func DiffSets[K comparable](prev, next Set[K]) Diff[K] {
	diff := Diff[K]{
		Added:   make(Set[K]),
		Removed: make(Set[K]),
		Common:  make(Set[K]),
	}

	for k := range prev {
		if next.Has(k) {
			diff.Common.Add(k)
		} else {
			diff.Removed.Add(k)
		}
	}
	for k := range next {
		if !prev.Has(k) {
			diff.Added.Add(k)
		}
	}

	return diff
}

func (d Diff[K]) Unchanged() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}
