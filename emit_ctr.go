package main

import (
	"fmt"
	"strings"
)

func ctrStateFile(q string) string     { return fmt.Sprintf("ctr_%s.h", q) }
func ctrNoConsumeFile(q string) string { return fmt.Sprintf("ctr_%s_no_consume.h", q) }

func ctrBit(i int) string { return fmt.Sprintf("CTR_B%d", i) }

// emitCTR writes the header family for a one-counter automaton: the entry
// header, the include-level symbol decoder, the counter machinery and the
// per-state dispatch headers.
func emitCTR(e *emitter, m *ctrMachine) error {
	enc := newEncoding(m.desc.alphabet)
	width := enc.counterWidth()
	if err := emitCTRTop(e, m, enc); err != nil {
		return err
	}
	if err := emitSymLadder(e, enc, false); err != nil {
		return err
	}
	if err := emitCounterFiles(e, width); err != nil {
		return err
	}
	for _, q := range m.desc.states {
		if err := emitCTRState(e, m, enc, q, true); err != nil {
			return err
		}
		if m.noConsume[q] {
			if err := emitCTRState(e, m, enc, q, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func emitCTRTop(e *emitter, m *ctrMachine, enc *encoding) error {
	h := newHeader("ctr.h")
	emitCodes(h, enc)
	// the decoder reads by include depth: get_sym.h is three includes
	// below the user file on the first read (user, ctr.h, state header)
	// and every consumed symbol nests the next state one level deeper.
	h.define("GET_SYM", "((INPUT >> ((__INCLUDE_LEVEL__ - 3) * A_SIZE & 63)) & A_MASK)")
	h.line("#include \"init_ctr.h\"")
	h.line("#include %q", ctrStateFile(m.desc.initial))
	return e.write(h)
}

// emitCounterFiles writes the counter held in width defined/undefined bit
// macros. IS_ZERO is the only observable: 1 exactly when every bit is clear.
func emitCounterFiles(e *emitter, width int) error {
	h := newHeader("init_ctr.h")
	for i := 0; i < width; i++ {
		h.line("#undef %s", ctrBit(i))
	}
	h.define("IS_ZERO", "1")
	if err := e.write(h); err != nil {
		return err
	}

	h = newHeader("stab.h")
	h.line("#if (__COUNTER__ & 3) != 0")
	h.line("#include \"stab.h\"")
	h.line("#endif")
	if err := e.write(h); err != nil {
		return err
	}

	h = newHeader("next2pow.h")
	h.line("#error counter out of range")
	if err := e.write(h); err != nil {
		return err
	}

	// ripple carry from the low bit up. overflow past the top bit cannot
	// happen for any input that fits INPUT, so it lands in the sink.
	h = newHeader("advance_msb.h")
	for i := 0; i < width; i++ {
		h.line("#ifndef %s", ctrBit(i))
		h.line("#define %s", ctrBit(i))
		h.line("#else")
		h.line("#undef %s", ctrBit(i))
	}
	h.line("#include \"next2pow.h\"")
	for i := 0; i < width; i++ {
		h.line("#endif")
	}
	if err := e.write(h); err != nil {
		return err
	}

	// ripple borrow. a borrow past the top bit is a decrement at zero.
	h = newHeader("advance_lsb.h")
	for i := 0; i < width; i++ {
		h.line("#ifdef %s", ctrBit(i))
		h.line("#undef %s", ctrBit(i))
		h.line("#else")
		h.line("#define %s", ctrBit(i))
	}
	h.line("#include \"next2pow.h\"")
	for i := 0; i < width; i++ {
		h.line("#endif")
	}
	if err := e.write(h); err != nil {
		return err
	}

	h = newHeader("inc.h")
	h.line("#include \"stab.h\"")
	h.define("IS_ZERO", "0")
	h.line("#include \"advance_msb.h\"")
	if err := e.write(h); err != nil {
		return err
	}

	h = newHeader("dec.h")
	h.line("#include \"stab.h\"")
	h.line("#include \"advance_lsb.h\"")
	h.line("#undef IS_ZERO")
	clear := make([]string, width)
	for i := range clear {
		clear[i] = fmt.Sprintf("!defined(%s)", ctrBit(i))
	}
	h.line("#if %s", strings.Join(clear, " && "))
	h.line("#define IS_ZERO 1")
	h.line("#else")
	h.line("#define IS_ZERO 0")
	h.line("#endif")
	return e.write(h)
}

// ctrCond renders the guard of one edge: symbol test joined with the
// counter test. an edge with neither is unconditional.
func ctrCond(enc *encoding, t ctrTrans) string {
	var parts []string
	if t.sym != "" {
		parts = append(parts, symCond(enc, t.sym))
	}
	switch t.cond {
	case condZero:
		parts = append(parts, "IS_ZERO")
	case condPos:
		parts = append(parts, "!IS_ZERO")
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, " && ")
}

// emitCTRState writes one dispatch header. the consuming variant reads a
// fresh symbol and carries the deferred-consume shim; the no_consume
// variant dispatches on the symbol its includer already read, so a
// consuming edge taken there must hand the include back to the nearest
// consuming header where the decoder depth is right.
func emitCTRState(e *emitter, m *ctrMachine, enc *encoding, q string, consuming bool) error {
	var h *headerFile
	if consuming {
		h = newHeader(ctrStateFile(q))
		h.line("#include \"get_sym.h\"")
	} else {
		h = newHeader(ctrNoConsumeFile(q))
	}
	final := m.final[q]
	if final {
		h.define("RECOGNIZED", "")
	}
	edges := m.edges[q]
	for i, t := range edges {
		kw := "#elif"
		if i == 0 {
			kw = "#if"
		}
		h.line("%s %s", kw, ctrCond(enc, t))
		if final {
			h.line("#undef RECOGNIZED")
		}
		switch t.act {
		case actInc:
			h.line("#include \"inc.h\"")
		case actDec:
			h.line("#include \"dec.h\"")
		}
		switch {
		case t.sym == "":
			h.line("#include %q", ctrNoConsumeFile(t.next))
		case consuming:
			h.line("#include %q", ctrStateFile(t.next))
		default:
			h.define("NEXT_STATE", fmt.Sprintf("%q", ctrStateFile(t.next)))
			h.define("CONSUME", "")
		}
	}
	if final {
		kw := "#elif"
		if len(edges) == 0 {
			kw = "#if"
		}
		h.line("%s CUR_SYM != END", kw)
		h.line("#undef RECOGNIZED")
	}
	if final || len(edges) > 0 {
		h.line("#endif")
	}
	if consuming {
		h.line("#ifdef CONSUME")
		h.line("#undef CONSUME")
		h.line("#include NEXT_STATE")
		h.line("#endif")
	}
	return e.write(h)
}
