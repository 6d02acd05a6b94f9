package main

import (
	"fmt"
)

type atomKind int

const (
	atomPop atomKind = iota
	atomReplace
	atomPush
)

func (k atomKind) String() string {
	switch k {
	case atomPop:
		return "pop"
	case atomReplace:
		return "replace"
	default:
		return "push"
	}
}

// atom is a pushdown transition performing exactly one stack action
type atom struct {
	cur  string
	sym  string // "" for ε, $ for end
	top  string
	kind atomKind
	arg  string // pushed or replacement symbol, empty for pop
	next string
}

type dpdaMachine struct {
	desc   *description
	states []string // user states followed by synthetics, in creation order
	atoms  map[string][]atom
	final  map[string]bool
	// entered without consuming: target of any atom except a symbol-push.
	// such states get a dpda_<q>_empty.h that must not re-read the input.
	empty map[string]bool
}

// atomizeDPDA validates the description and rewrites every multi-push
// transition into a chain of elementary atoms. synthetic chain states are
// namespaced by one counter across the whole machine so chains never collide.
func atomizeDPDA(d *description) (*dpdaMachine, error) {
	final, err := checkDPDA(d)
	if err != nil {
		return nil, err
	}
	m := &dpdaMachine{
		desc:   d,
		states: append([]string(nil), d.states...),
		atoms:  make(map[string][]atom),
		final:  final,
		empty:  make(map[string]bool),
	}
	nsynth := 0
	synth := func(base string) string {
		q := fmt.Sprintf("%s.%d", base, nsynth)
		nsynth++
		m.states = append(m.states, q)
		return q
	}
	add := func(a atom) {
		m.atoms[a.cur] = append(m.atoms[a.cur], a)
		if a.kind != atomPush || a.sym == "" {
			m.empty[a.next] = true
		}
	}
	for _, t := range d.dpda {
		w := t.push
		switch len(w) {
		case 0:
			add(atom{cur: t.cur, sym: t.sym, top: t.top, kind: atomPop, next: t.next})
		case 1:
			add(atom{cur: t.cur, sym: t.sym, top: t.top, kind: atomReplace, arg: w, next: t.next})
		default:
			// w[0] replaces the popped top, the rest are pushed above it
			// one by one so that the last symbol of w ends up on top.
			cur, top, i := t.cur, t.top, 1
			if top != w[:1] {
				next := synth(t.cur)
				add(atom{cur: cur, sym: t.sym, top: top, kind: atomReplace, arg: w[:1], next: next})
				cur, top = next, w[:1]
			} else {
				// the exposed top doubles as the bottom of the pushed
				// string, so the chain starts with a push and keeps σ.
				next := t.next
				if len(w) > 2 {
					next = synth(t.cur)
				}
				add(atom{cur: cur, sym: t.sym, top: top, kind: atomPush, arg: w[1:2], next: next})
				cur, top, i = next, w[1:2], 2
			}
			for ; i < len(w); i++ {
				next := t.next
				if i < len(w)-1 {
					next = synth(t.cur)
				}
				add(atom{cur: cur, top: top, kind: atomPush, arg: w[i : i+1], next: next})
				cur, top = next, w[i:i+1]
			}
		}
	}
	return m, nil
}
