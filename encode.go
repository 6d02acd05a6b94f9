package main

import (
	"math/bits"
)

// encoding fixes the bit layout of the input symbol stream. symbol i
// (1-based) gets the field value 1<<(size-1) | (i-1): the leading 1 keeps
// every code nonzero so the all-zero field is free to mean END.
type encoding struct {
	syms []string       // alphabet in description order
	code map[string]int // symbol -> field value
	size int            // A_SIZE, field width in bits
	mask int            // A_MASK, low size bits
	div  int            // __COUNTER__ ticks per consumed field
}

func newEncoding(alphabet []string) *encoding {
	n := len(alphabet)
	size := 1
	if n > 1 {
		size = bits.Len(uint(n-1)) + 1
	}
	e := &encoding{
		syms: alphabet,
		code: make(map[string]int, n),
		size: size,
		mask: 1<<size - 1,
	}
	for i, a := range alphabet {
		e.code[a] = 1<<(size-1) | i
	}
	// the decoder ladder ticks __COUNTER__ once per branch, one branch per
	// symbol plus END, so the period must cover the ladder even when the
	// alphabet is dense.
	e.div = size + 1
	if n+1 > e.div {
		e.div = n + 1
	}
	return e
}

// macroName returns the A_<sym> macro for an alphabet symbol
func (e *encoding) macroName(sym string) string {
	return "A_" + sym
}

// counterWidth is the number of counter bit macros needed to count every
// symbol a 64-bit INPUT can hold at this field width.
func (e *encoding) counterWidth() int {
	return bits.Len(uint(63 / e.size))
}

// stackIDs maps each stack symbol to its small integer id, 1-based so a
// delta of zero never matches. the id one past the alphabet is reserved
// for the empty-stack continuation.
type stackIDs struct {
	syms []string
	id   map[string]int
	none int // matches no stack symbol
}

func newStackIDs(stack []string) *stackIDs {
	s := &stackIDs{syms: stack, id: make(map[string]int, len(stack))}
	for i, g := range stack {
		s.id[g] = i + 1
	}
	s.none = len(stack) + 1
	return s
}

func (s *stackIDs) macroName(sym string) string {
	return "ST_" + sym
}
