package main

import "fmt"

func dfaStateFile(q string) string { return fmt.Sprintf("dfa_%s.h", q) }

// emitDFA writes the complete header family for a finite automaton:
// dfa.h, get_sym.h and one dfa_<q>.h per state.
func emitDFA(e *emitter, m *dfaMachine) error {
	enc := newEncoding(m.desc.alphabet)
	if err := emitDFATop(e, m, enc); err != nil {
		return err
	}
	if err := emitSymLadder(e, enc, true); err != nil {
		return err
	}
	for _, q := range m.desc.states {
		if err := emitDFAState(e, m, enc, q); err != nil {
			return err
		}
	}
	return nil
}

// dfa.h: symbol codes, the counting decoder and the initial state
func emitDFATop(e *emitter, m *dfaMachine, enc *encoding) error {
	h := newHeader("dfa.h")
	emitCodes(h, enc)
	h.define("CTR", fmt.Sprintf("(__COUNTER__ / %d)", enc.div))
	// mask the shift amount so reads past the end of INPUT decode as END
	h.define("GET_SYM", "((INPUT >> (CTR * A_SIZE & 63)) & A_MASK)")
	h.line("#include %q", dfaStateFile(m.desc.initial))
	return e.write(h)
}

func emitDFAState(e *emitter, m *dfaMachine, enc *encoding, q string) error {
	h := newHeader(dfaStateFile(q))
	h.line("#include \"get_sym.h\"")
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
		h.line("%s %s", kw, symCond(enc, t.sym))
		if final {
			h.line("#undef RECOGNIZED")
		}
		h.line("#include %q", dfaStateFile(t.next))
	}
	// leftover input at an accepting state is not a match
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
	return e.write(h)
}
