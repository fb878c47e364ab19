// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package bitset implements the fixed-width terminal sets used for
// FIRST sets and configuration follow-sets. The width is fixed when a
// set is created and every set participating in a union must share it.
package bitset

// Set is a set of terminal indices in [0, width).
type Set struct {
	bits []uint64
}

// New returns an empty set able to hold indices 0 through n inclusive.
func New(n int) *Set {
	return &Set{bits: make([]uint64, (n+64)/64)}
}

// Add inserts x and reports whether x was newly added.
func (s *Set) Add(x int) bool {
	w, b := x/64, uint(x%64)
	if s.bits[w]&(1<<b) != 0 {
		return false
	}
	s.bits[w] |= 1 << b
	return true
}

// Has reports whether x is in the set.
func (s *Set) Has(x int) bool {
	w, b := x/64, uint(x%64)
	if w >= len(s.bits) {
		return false
	}
	return s.bits[w]&(1<<b) != 0
}

// Union adds every element of other to s and reports whether s changed.
// The two sets must have been created with the same width.
func (s *Set) Union(other *Set) bool {
	changed := false
	for i, w := range other.bits {
		if n := s.bits[i] | w; n != s.bits[i] {
			s.bits[i] = n
			changed = true
		}
	}
	return changed
}

// Clear removes every element.
func (s *Set) Clear() {
	for i := range s.bits {
		s.bits[i] = 0
	}
}
