package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodingTwoSymbols(t *testing.T) {
	e := newEncoding([]string{"a", "b"})
	assert.Equal(t, 2, e.size)
	assert.Equal(t, 3, e.mask)
	assert.Equal(t, 2, e.code["a"])
	assert.Equal(t, 3, e.code["b"])
	assert.Equal(t, 3, e.div)
}

func TestEncodingSizes(t *testing.T) {
	cases := []struct {
		n    int
		size int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{7, 4},
		{8, 4},
	}
	for _, c := range cases {
		syms := make([]string, c.n)
		for i := range syms {
			syms[i] = string(rune('a' + i))
		}
		e := newEncoding(syms)
		assert.Equal(t, c.size, e.size, "n=%d", c.n)
		assert.Equal(t, 1<<c.size-1, e.mask, "n=%d", c.n)
	}
}

func TestEncodingCodesDistinctAndNonzero(t *testing.T) {
	syms := []string{"a", "b", "c", "d", "e", "f", "g"}
	e := newEncoding(syms)
	seen := map[int]bool{}
	for _, s := range syms {
		code := e.code[s]
		assert.NotZero(t, code)
		assert.False(t, seen[code], "code %d assigned twice", code)
		assert.NotZero(t, code&(1<<(e.size-1)), "code %d lacks the leading bit", code)
		seen[code] = true
	}
}

func TestEncodingDenseAlphabetWidensDivisor(t *testing.T) {
	// seven symbols need eight decoder branches but only four field bits
	syms := []string{"a", "b", "c", "d", "e", "f", "g"}
	e := newEncoding(syms)
	assert.Equal(t, 4, e.size)
	assert.Equal(t, 8, e.div)
}

func TestCounterWidth(t *testing.T) {
	e := newEncoding([]string{"a", "b"})
	// 31 two-bit fields fit a 64-bit input
	assert.Equal(t, 5, e.counterWidth())
}

func TestStackIDs(t *testing.T) {
	s := newStackIDs([]string{"Z", "X"})
	assert.Equal(t, 1, s.id["Z"])
	assert.Equal(t, 2, s.id["X"])
	assert.Equal(t, 3, s.none)
	assert.Equal(t, "ST_Z", s.macroName("Z"))
}
