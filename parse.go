package main

import (
	"strings"

	"github.com/pingcap/errors"
)

// automaton flavor selected by the subcommand
type flavor int

const (
	flavorDFA flavor = iota
	flavorCTR
	flavorDPDA
)

func (f flavor) String() string {
	switch f {
	case flavorDFA:
		return "dfa"
	case flavorCTR:
		return "ctr"
	default:
		return "dpda"
	}
}

// counter guards and actions as they appear in the description text.
// the empty string stands for ε in every position that allows it.
const (
	condAny  = ""
	condZero = "z"
	condPos  = "p"

	actNop = ""
	actInc = "i"
	actDec = "d"
)

// symEnd marks end of input in the symbol position of a transition
const symEnd = "$"

type dfaTrans struct {
	cur  string
	sym  string
	next string
}

type ctrTrans struct {
	cur  string
	sym  string // letter, $ or empty for ε
	cond string // condAny, condZero or condPos
	next string
	act  string // actNop, actInc or actDec
}

type dpdaTrans struct {
	cur  string
	sym  string // letter, $ or empty for ε
	top  string
	next string
	push string // stack symbols left in place of top, last char is the new top
}

// description is the raw parse result. references are not checked here;
// the builder does that.
type description struct {
	flavor   flavor
	alphabet []string
	states   []string
	initial  string
	final    []string
	stack    []string
	bottom   string
	dfa      []dfaTrans
	ctr      []ctrTrans
	dpda     []dpdaTrans
}

// cursor walks the whitespace-folded description text
type cursor struct {
	src string
	pos int
}

func (c *cursor) eof() bool { return c.pos >= len(c.src) }

func (c *cursor) skipSpace() {
	for c.pos < len(c.src) && c.src[c.pos] == ' ' {
		c.pos++
	}
}

// literal consumes lit if it is next, skipping leading space
func (c *cursor) literal(lit string) bool {
	c.skipSpace()
	if strings.HasPrefix(c.src[c.pos:], lit) {
		c.pos += len(lit)
		return true
	}
	return false
}

// word consumes a maximal run of \w characters, possibly empty
func (c *cursor) word() string {
	c.skipSpace()
	start := c.pos
	for c.pos < len(c.src) && isWordChar(c.src[c.pos]) {
		c.pos++
	}
	return c.src[start:c.pos]
}

// rest returns the unconsumed tail, clipped for diagnostics
func (c *cursor) rest() string {
	c.skipSpace()
	tail := c.src[c.pos:]
	if len(tail) > 40 {
		tail = tail[:40] + "..."
	}
	return tail
}

func (c *cursor) clauseErr(clause string) error {
	return errors.Errorf("malformed %s clause near %q", clause, c.rest())
}

// foldSpaces collapses every run of whitespace to a single space
func foldSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseDescription consumes the clauses of a description in fixed order:
// alphabet, states, initial, final, (dpda: stack, bottom), transitions.
func parseDescription(fl flavor, text string) (*description, error) {
	c := &cursor{src: foldSpaces(text)}
	d := &description{flavor: fl}
	var err error

	if d.alphabet, err = c.parseSet("alphabet"); err != nil {
		return nil, err
	}
	for _, a := range d.alphabet {
		if len(a) != 1 {
			return nil, errors.Errorf("malformed alphabet clause: symbol %q is not a single character", a)
		}
	}
	if d.states, err = c.parseSet("states"); err != nil {
		return nil, err
	}
	if d.initial, err = c.parseAssign("initial"); err != nil {
		return nil, err
	}
	if d.final, err = c.parseSet("final"); err != nil {
		return nil, err
	}
	if fl == flavorDPDA {
		if d.stack, err = c.parseSet("stack"); err != nil {
			return nil, err
		}
		for _, g := range d.stack {
			if len(g) != 1 {
				return nil, errors.Errorf("malformed stack clause: symbol %q is not a single character", g)
			}
		}
		if d.bottom, err = c.parseAssign("bottom"); err != nil {
			return nil, err
		}
	}
	if err = c.parseTransitions(d); err != nil {
		return nil, err
	}
	c.skipSpace()
	if !c.eof() {
		return nil, errors.Errorf("trailing text after transitions clause: %q", c.rest())
	}
	return d, nil
}

// parseSet consumes name={w1,w2,...}. the set may be empty.
func (c *cursor) parseSet(name string) ([]string, error) {
	if !c.literal(name) || !c.literal("=") || !c.literal("{") {
		return nil, c.clauseErr(name)
	}
	var items []string
	if c.literal("}") {
		return items, nil
	}
	for {
		w := c.word()
		if w == "" {
			return nil, c.clauseErr(name)
		}
		items = append(items, w)
		if c.literal("}") {
			return items, nil
		}
		if !c.literal(",") {
			return nil, c.clauseErr(name)
		}
	}
}

// parseAssign consumes name=word
func (c *cursor) parseAssign(name string) (string, error) {
	if !c.literal(name) || !c.literal("=") {
		return "", c.clauseErr(name)
	}
	w := c.word()
	if w == "" {
		return "", c.clauseErr(name)
	}
	return w, nil
}

// symField reads the input-symbol position of a transition:
// a word, a literal $, or nothing for ε
func (c *cursor) symField() string {
	if c.literal(symEnd) {
		return symEnd
	}
	return c.word()
}

func (c *cursor) parseTransitions(d *description) error {
	const name = "transitions"
	if !c.literal(name) || !c.literal("=") || !c.literal("{") {
		return c.clauseErr(name)
	}
	if c.literal("}") {
		return nil
	}
	for {
		var err error
		switch d.flavor {
		case flavorDFA:
			err = c.parseDFATrans(d)
		case flavorCTR:
			err = c.parseCTRTrans(d)
		default:
			err = c.parseDPDATrans(d)
		}
		if err != nil {
			return err
		}
		if c.literal("}") {
			return nil
		}
		if !c.literal(",") {
			return c.clauseErr(name)
		}
	}
}

// (q,a)->q'
func (c *cursor) parseDFATrans(d *description) error {
	const name = "transitions"
	var t dfaTrans
	if !c.literal("(") {
		return c.clauseErr(name)
	}
	if t.cur = c.word(); t.cur == "" {
		return c.clauseErr(name)
	}
	if !c.literal(",") {
		return c.clauseErr(name)
	}
	if t.sym = c.word(); t.sym == "" {
		return c.clauseErr(name)
	}
	if !c.literal(")") || !c.literal("->") {
		return c.clauseErr(name)
	}
	if t.next = c.word(); t.next == "" {
		return c.clauseErr(name)
	}
	d.dfa = append(d.dfa, t)
	return nil
}

// (q,σ,c)->(q',α) with σ in letter|$|ε, c in {z,p,ε}, α in {i,d,ε}
func (c *cursor) parseCTRTrans(d *description) error {
	const name = "transitions"
	var t ctrTrans
	if !c.literal("(") {
		return c.clauseErr(name)
	}
	if t.cur = c.word(); t.cur == "" {
		return c.clauseErr(name)
	}
	if !c.literal(",") {
		return c.clauseErr(name)
	}
	t.sym = c.symField()
	if !c.literal(",") {
		return c.clauseErr(name)
	}
	t.cond = c.word()
	if t.cond != condAny && t.cond != condZero && t.cond != condPos {
		return errors.Errorf("malformed transitions clause: unknown counter guard %q", t.cond)
	}
	if !c.literal(")") || !c.literal("->") || !c.literal("(") {
		return c.clauseErr(name)
	}
	if t.next = c.word(); t.next == "" {
		return c.clauseErr(name)
	}
	if !c.literal(",") {
		return c.clauseErr(name)
	}
	t.act = c.word()
	if t.act != actNop && t.act != actInc && t.act != actDec {
		return errors.Errorf("malformed transitions clause: unknown counter action %q", t.act)
	}
	if !c.literal(")") {
		return c.clauseErr(name)
	}
	d.ctr = append(d.ctr, t)
	return nil
}

// (q,σ,γ)->(q',w) with w a possibly empty run of stack symbols
func (c *cursor) parseDPDATrans(d *description) error {
	const name = "transitions"
	var t dpdaTrans
	if !c.literal("(") {
		return c.clauseErr(name)
	}
	if t.cur = c.word(); t.cur == "" {
		return c.clauseErr(name)
	}
	if !c.literal(",") {
		return c.clauseErr(name)
	}
	t.sym = c.symField()
	if !c.literal(",") {
		return c.clauseErr(name)
	}
	if t.top = c.word(); t.top == "" {
		return c.clauseErr(name)
	}
	if !c.literal(")") || !c.literal("->") || !c.literal("(") {
		return c.clauseErr(name)
	}
	if t.next = c.word(); t.next == "" {
		return c.clauseErr(name)
	}
	if !c.literal(",") {
		return c.clauseErr(name)
	}
	t.push = c.word()
	if !c.literal(")") {
		return c.clauseErr(name)
	}
	d.dpda = append(d.dpda, t)
	return nil
}
