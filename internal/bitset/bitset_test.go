// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddReportsNew(t *testing.T) {
	s := New(10)
	assert.True(t, s.Add(3), "first add should report new")
	assert.False(t, s.Add(3), "second add should not")
	assert.True(t, s.Has(3))
	assert.False(t, s.Has(4))
}

func TestUnionReportsChange(t *testing.T) {
	a := New(100)
	b := New(100)
	b.Add(0)
	b.Add(64)
	b.Add(100)

	assert.True(t, a.Union(b), "union adding elements should report change")
	assert.False(t, a.Union(b), "second union should be a no-op")
	for _, x := range []int{0, 64, 100} {
		assert.True(t, a.Has(x), "element %d", x)
	}
}

func TestHasOutOfRange(t *testing.T) {
	s := New(3)
	assert.False(t, s.Has(200))
}

func TestClear(t *testing.T) {
	s := New(8)
	s.Add(1)
	s.Add(7)
	s.Clear()
	assert.False(t, s.Has(1))
	assert.False(t, s.Has(7))
	assert.True(t, s.Add(1))
}
