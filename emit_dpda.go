package main

import (
	"fmt"
)

func dpdaStateFile(q string) string { return fmt.Sprintf("dpda_%s.h", q) }
func dpdaEmptyFile(q string) string { return fmt.Sprintf("dpda_%s_empty.h", q) }

// emitDPDA writes the header family for a pushdown automaton: dpda.h,
// get_sym.h, a dpda_<q>.h per state and a dpda_<q>_empty.h for states
// entered without consuming input.
func emitDPDA(e *emitter, m *dpdaMachine) error {
	enc := newEncoding(m.desc.alphabet)
	ids := newStackIDs(m.desc.stack)
	if err := emitDPDATop(e, m, enc, ids); err != nil {
		return err
	}
	if err := emitSymLadder(e, enc, true); err != nil {
		return err
	}
	for _, q := range m.states {
		if err := emitDPDAState(e, m, enc, ids, q, true); err != nil {
			return err
		}
		if m.empty[q] {
			if err := emitDPDAState(e, m, enc, ids, q, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// dpda.h: codes, decoder, stack ids, the stack-top probe and the entry
// into the initial state with the bottom symbol stamped. the trailing
// block catches a pop of the bottom symbol and continues with a top id
// that matches nothing, so further stack guards stay quiet.
func emitDPDATop(e *emitter, m *dpdaMachine, enc *encoding, ids *stackIDs) error {
	h := newHeader("dpda.h")
	emitCodes(h, enc)
	h.define("CTR", fmt.Sprintf("(__COUNTER__ / %d)", enc.div))
	h.define("GET_SYM", "((INPUT >> (CTR * A_SIZE & 63)) & A_MASK)")
	for _, g := range ids.syms {
		h.define(ids.macroName(g), fmt.Sprintf("%d", ids.id[g]))
	}
	h.define("ST_NONE", fmt.Sprintf("%d", ids.none))
	h.line("#undef TOP")
	h.line("#define TOP(L) (__LINE__ - (L))")
	h.define("NEXT_ST_SYM", ids.macroName(m.desc.bottom))
	h.line("#include %q", dpdaStateFile(m.desc.initial))
	h.line("#ifdef POP")
	h.line("#undef POP")
	h.line("#undef NEXT_ST_SYM")
	h.line("#define NEXT_ST_SYM ST_NONE")
	h.line("#include NEXT_STATE")
	h.line("#endif")
	return e.write(h)
}

// dpdaCond renders one atom guard. the stack test reads the activation's
// own stamp as a line delta, so it depends on where in the file the
// condition lands.
func dpdaCond(h *headerFile, enc *encoding, ids *stackIDs, a atom) string {
	top := fmt.Sprintf("TOP(%d) == %s", h.delta(), ids.macroName(a.top))
	if a.sym == "" {
		return top
	}
	return fmt.Sprintf("%s && %s", symCond(enc, a.sym), top)
}

// emitPopShim re-derives the exposed top after a pop raised inside the
// include just above and resumes in the popped-to state. one shim per
// push site: a pop that travels further belongs to a lower cell and
// falls through to the includer's shim.
func emitPopShim(h *headerFile, ids *stackIDs) {
	h.line("#ifdef POP")
	h.line("#undef POP")
	h.line("#undef NEXT_ST_SYM")
	for i, g := range ids.syms {
		kw := "#elif"
		if i == 0 {
			kw = "#if"
		}
		h.line("%s TOP(%d) == %s", kw, h.delta(), ids.macroName(g))
		h.line("#define NEXT_ST_SYM %s", ids.macroName(g))
	}
	if len(ids.syms) > 0 {
		h.line("#endif")
	}
	h.line("#include NEXT_STATE")
	h.line("#endif")
}

// emitDPDAState writes one state header. every activation stamps the
// stack cell it stands on; the fresh variant then reads the next input
// symbol, while the empty variant dispatches on the symbol already in
// flight. symbol-bearing pop and replace branches read their own
// replacement symbol inline before leaving.
func emitDPDAState(e *emitter, m *dpdaMachine, enc *encoding, ids *stackIDs, q string, fresh bool) error {
	var h *headerFile
	if fresh {
		h = newHeader(dpdaStateFile(q))
	} else {
		h = newHeader(dpdaEmptyFile(q))
	}
	h.restamp("NEXT_ST_SYM")
	if fresh {
		h.line("#include \"get_sym.h\"")
	}
	final := m.final[q]
	if final {
		h.define("RECOGNIZED", "")
	}
	atoms := m.atoms[q]
	for i, a := range atoms {
		kw := "#elif"
		if i == 0 {
			kw = "#if"
		}
		h.line("%s %s", kw, dpdaCond(h, enc, ids, a))
		if final {
			h.line("#undef RECOGNIZED")
		}
		switch a.kind {
		case atomPush:
			h.define("NEXT_ST_SYM", ids.macroName(a.arg))
			if a.sym != "" {
				h.line("#include %q", dpdaStateFile(a.next))
			} else {
				h.line("#include %q", dpdaEmptyFile(a.next))
			}
			emitPopShim(h, ids)
		case atomReplace:
			if a.sym != "" {
				h.line("#include \"get_sym.h\"")
			}
			h.define("NEXT_ST_SYM", ids.macroName(a.arg))
			h.line("#include %q", dpdaEmptyFile(a.next))
		case atomPop:
			if a.sym != "" {
				h.line("#include \"get_sym.h\"")
			}
			h.define("NEXT_STATE", fmt.Sprintf("%q", dpdaEmptyFile(a.next)))
			h.define("POP", "")
		}
	}
	if final {
		kw := "#elif"
		if len(atoms) == 0 {
			kw = "#if"
		}
		h.line("%s CUR_SYM != END", kw)
		h.line("#undef RECOGNIZED")
	}
	if final || len(atoms) > 0 {
		h.line("#endif")
	}
	return e.write(h)
}
