package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pingcap/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// headerFile accumulates one emitted header. physical lines are counted so
// that stack reads can be phrased as deltas from the last #line directive.
type headerFile struct {
	name  string
	buf   bytes.Buffer
	phys  int // lines written so far
	stamp int // physical line holding the last #line directive
}

func newHeader(name string) *headerFile { return &headerFile{name: name} }

// line writes one formatted line
func (h *headerFile) line(format string, args ...interface{}) {
	fmt.Fprintf(&h.buf, format, args...)
	h.buf.WriteByte('\n')
	h.phys++
}

// restamp writes a #line directive and records its position
func (h *headerFile) restamp(value string) {
	h.line("#line %s", value)
	h.stamp = h.phys
}

// delta returns d such that on the next written line __LINE__ - d equals
// the value stamped by the last #line directive
func (h *headerFile) delta() int { return h.phys - h.stamp }

// define emits an #undef/#define pair. every reused macro is cleared
// before redefinition so headers stay includable in any order.
func (h *headerFile) define(name, value string) {
	h.line("#undef %s", name)
	if value == "" {
		h.line("#define %s", name)
	} else {
		h.line("#define %s %s", name, value)
	}
}

type emitter struct {
	fs    afero.Fs
	dir   string
	log   *zap.SugaredLogger
	files []string
}

func newEmitter(fs afero.Fs, dir string, log *zap.SugaredLogger) *emitter {
	return &emitter{fs: fs, dir: dir, log: log}
}

func (e *emitter) write(h *headerFile) error {
	path := filepath.Join(e.dir, h.name)
	if err := afero.WriteFile(e.fs, path, h.buf.Bytes(), 0644); err != nil {
		return errors.Annotatef(err, "writing %s", h.name)
	}
	e.files = append(e.files, h.name)
	e.log.Debugw("wrote header", "file", h.name, "lines", h.phys)
	return nil
}

// symCond renders the current-symbol test for a transition symbol
func symCond(enc *encoding, sym string) string {
	if sym == symEnd {
		return "CUR_SYM == END"
	}
	return fmt.Sprintf("CUR_SYM == %s", enc.macroName(sym))
}

// emitCodes writes the END sentinel, symbol codes and field geometry
func emitCodes(h *headerFile, enc *encoding) {
	h.define("END", "0")
	for _, sym := range enc.syms {
		h.define(enc.macroName(sym), fmt.Sprintf("%d", enc.code[sym]))
	}
	h.define("A_SIZE", fmt.Sprintf("%d", enc.size))
	h.define("A_MASK", fmt.Sprintf("%d", enc.mask))
}

// emitSymLadder writes get_sym.h: decode GET_SYM once into CUR_SYM so
// later tests do not re-evaluate the stream position. when stabilize is
// set, every branch pads __COUNTER__ to the next field boundary so the
// decoder advances by exactly one field per inclusion no matter which
// symbol matched.
func emitSymLadder(e *emitter, enc *encoding, stabilize bool) error {
	h := newHeader("get_sym.h")
	h.line("#undef CUR_SYM")
	for i, sym := range enc.syms {
		kw := "#elif"
		if i == 0 {
			kw = "#if"
		}
		h.line("%s GET_SYM == %s", kw, enc.macroName(sym))
		h.line("#define CUR_SYM %s", enc.macroName(sym))
		if stabilize {
			emitStabilize(h, enc.div-1-i)
		}
	}
	kw := "#elif"
	if len(enc.syms) == 0 {
		kw = "#if"
	}
	h.line("%s GET_SYM == END", kw)
	h.line("#define CUR_SYM END")
	if stabilize {
		emitStabilize(h, enc.div-1-len(enc.syms))
	}
	h.line("#endif")
	return e.write(h)
}

// emitStabilize burns n extra __COUNTER__ ticks inside a dead conditional
func emitStabilize(h *headerFile, n int) {
	if n <= 0 {
		return
	}
	terms := make([]string, n)
	for i := range terms {
		terms[i] = "0 * CTR"
	}
	h.line("#if %s", strings.Join(terms, " + "))
	h.line("#endif")
}
