package main

import (
	"github.com/pingcap/errors"
)

type dfaMachine struct {
	desc  *description
	edges map[string][]dfaTrans // keyed by source state, description order
	final map[string]bool
}

type ctrMachine struct {
	desc      *description
	edges     map[string][]ctrTrans
	final     map[string]bool
	noConsume map[string]bool // entered by some ε-edge
}

// checkStates validates initial and final membership and returns the final set
func checkStates(d *description) (map[string]bool, error) {
	if !member(d.states, d.initial) {
		return nil, errors.Errorf("initial state %s is not in the state set", d.initial)
	}
	final := make(map[string]bool)
	for _, f := range d.final {
		if !member(d.states, f) {
			return nil, errors.Errorf("final state %s is not in the state set", f)
		}
		final[f] = true
	}
	return final, nil
}

func checkEndpoints(d *description, cur, next string) error {
	if !member(d.states, cur) {
		return errors.Errorf("transition from unknown state %s", cur)
	}
	if !member(d.states, next) {
		return errors.Errorf("transition to unknown state %s", next)
	}
	return nil
}

// checkSym validates a transition input symbol that may also be ε or $
func checkSym(d *description, sym string) error {
	if sym == "" || sym == symEnd || member(d.alphabet, sym) {
		return nil
	}
	return errors.Errorf("transition on unknown symbol %s", sym)
}

// checkDeadEnds rejects a non-final state with no outgoing transitions
func checkDeadEnds(states []string, final map[string]bool, degree map[string]int) error {
	for _, q := range states {
		if degree[q] == 0 && !final[q] {
			return errors.Errorf("Dead end non-final transition: state %s has no way out", q)
		}
	}
	return nil
}

func buildDFA(d *description) (*dfaMachine, error) {
	final, err := checkStates(d)
	if err != nil {
		return nil, err
	}
	edges := make(map[string][]dfaTrans)
	degree := make(map[string]int)
	type key struct{ cur, sym string }
	seen := make(map[key]bool)
	for _, t := range d.dfa {
		if err := checkEndpoints(d, t.cur, t.next); err != nil {
			return nil, err
		}
		if !member(d.alphabet, t.sym) {
			return nil, errors.Errorf("transition on unknown symbol %s", t.sym)
		}
		k := key{t.cur, t.sym}
		if seen[k] {
			return nil, errors.Errorf("Duplicate transition (%s,%s)", t.cur, t.sym)
		}
		seen[k] = true
		edges[t.cur] = append(edges[t.cur], t)
		degree[t.cur]++
	}
	if err := checkDeadEnds(d.states, final, degree); err != nil {
		return nil, err
	}
	return &dfaMachine{desc: d, edges: edges, final: final}, nil
}

func buildCTR(d *description) (*ctrMachine, error) {
	final, err := checkStates(d)
	if err != nil {
		return nil, err
	}
	edges := make(map[string][]ctrTrans)
	degree := make(map[string]int)
	noConsume := make(map[string]bool)
	for _, t := range d.ctr {
		if err := checkEndpoints(d, t.cur, t.next); err != nil {
			return nil, err
		}
		if err := checkSym(d, t.sym); err != nil {
			return nil, err
		}
		edges[t.cur] = append(edges[t.cur], t)
		degree[t.cur]++
		if t.sym == "" {
			noConsume[t.next] = true
		}
	}
	if err := checkDeadEnds(d.states, final, degree); err != nil {
		return nil, err
	}
	return &ctrMachine{desc: d, edges: edges, final: final, noConsume: noConsume}, nil
}

// checkDPDA validates the raw pushdown description before atomization.
// every pushed symbol is checked against the stack alphabet, not just
// the popped top.
func checkDPDA(d *description) (map[string]bool, error) {
	final, err := checkStates(d)
	if err != nil {
		return nil, err
	}
	if !member(d.stack, d.bottom) {
		return nil, errors.Errorf("bottom symbol %s is not in the stack alphabet", d.bottom)
	}
	degree := make(map[string]int)
	for _, t := range d.dpda {
		if err := checkEndpoints(d, t.cur, t.next); err != nil {
			return nil, err
		}
		if err := checkSym(d, t.sym); err != nil {
			return nil, err
		}
		if !member(d.stack, t.top) {
			return nil, errors.Errorf("transition on unknown stack symbol %s", t.top)
		}
		for _, s := range t.push {
			if !member(d.stack, string(s)) {
				return nil, errors.Errorf("transition pushes unknown stack symbol %c", s)
			}
		}
		degree[t.cur]++
	}
	if err := checkDeadEnds(d.states, final, degree); err != nil {
		return nil, err
	}
	return final, nil
}
