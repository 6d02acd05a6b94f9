package main

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// runCompile drives the full pipeline on an in-memory filesystem and
// returns the emitted files by name.
func runCompile(t *testing.T, fl flavor, desc string) map[string]string {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "in.txt", []byte(desc), 0644))
	require.NoError(t, compile(fl, fs, "in.txt", "out", zap.NewNop().Sugar()))
	infos, err := afero.ReadDir(fs, "out")
	require.NoError(t, err)
	files := make(map[string]string, len(infos))
	for _, fi := range infos {
		data, err := afero.ReadFile(fs, filepath.Join("out", fi.Name()))
		require.NoError(t, err)
		files[fi.Name()] = string(data)
	}
	return files
}

func fileNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func TestHeaderLineDelta(t *testing.T) {
	h := newHeader("x.h")
	h.restamp("NEXT_ST_SYM")
	assert.Equal(t, 0, h.delta())
	h.line("one")
	assert.Equal(t, 1, h.delta())
	h.line("two")
	assert.Equal(t, 2, h.delta())
}

func TestEmitDFAFileSet(t *testing.T) {
	files := runCompile(t, flavorDFA, dfaDesc)
	assert.Equal(t, []string{"dfa.h", "dfa_s.h", "dfa_t.h", "get_sym.h"}, fileNames(files))
}

func TestEmitDFATop(t *testing.T) {
	files := runCompile(t, flavorDFA, dfaDesc)
	want := `#undef END
#define END 0
#undef A_a
#define A_a 2
#undef A_b
#define A_b 3
#undef A_SIZE
#define A_SIZE 2
#undef A_MASK
#define A_MASK 3
#undef CTR
#define CTR (__COUNTER__ / 3)
#undef GET_SYM
#define GET_SYM ((INPUT >> (CTR * A_SIZE & 63)) & A_MASK)
#include "dfa_s.h"
`
	assert.Equal(t, want, files["dfa.h"])
}

func TestEmitDFAGetSym(t *testing.T) {
	files := runCompile(t, flavorDFA, dfaDesc)
	want := `#undef CUR_SYM
#if GET_SYM == A_a
#define CUR_SYM A_a
#if 0 * CTR + 0 * CTR
#endif
#elif GET_SYM == A_b
#define CUR_SYM A_b
#if 0 * CTR
#endif
#elif GET_SYM == END
#define CUR_SYM END
#endif
`
	assert.Equal(t, want, files["get_sym.h"])
}

func TestEmitDFAStates(t *testing.T) {
	files := runCompile(t, flavorDFA, dfaDesc)
	wantS := `#include "get_sym.h"
#if CUR_SYM == A_a
#include "dfa_s.h"
#elif CUR_SYM == A_b
#include "dfa_t.h"
#endif
`
	assert.Equal(t, wantS, files["dfa_s.h"])
	wantT := `#include "get_sym.h"
#undef RECOGNIZED
#define RECOGNIZED
#if CUR_SYM != END
#undef RECOGNIZED
#endif
`
	assert.Equal(t, wantT, files["dfa_t.h"])
}

func TestEmitCTRFileSet(t *testing.T) {
	files := runCompile(t, flavorCTR, ctrDesc)
	assert.Equal(t, []string{
		"advance_lsb.h", "advance_msb.h", "ctr.h", "ctr_f.h", "ctr_s.h", "ctr_t.h",
		"dec.h", "get_sym.h", "inc.h", "init_ctr.h", "next2pow.h", "stab.h",
	}, fileNames(files))
}

func TestEmitCTRTop(t *testing.T) {
	files := runCompile(t, flavorCTR, ctrDesc)
	top := files["ctr.h"]
	assert.Contains(t, top, "#define GET_SYM ((INPUT >> ((__INCLUDE_LEVEL__ - 3) * A_SIZE & 63)) & A_MASK)")
	assert.Contains(t, top, "#include \"init_ctr.h\"")
	assert.Contains(t, top, "#include \"ctr_s.h\"")
}

func TestEmitCTRCounterFiles(t *testing.T) {
	files := runCompile(t, flavorCTR, ctrDesc)
	wantStab := `#if (__COUNTER__ & 3) != 0
#include "stab.h"
#endif
`
	assert.Equal(t, wantStab, files["stab.h"])
	wantInc := `#include "stab.h"
#undef IS_ZERO
#define IS_ZERO 0
#include "advance_msb.h"
`
	assert.Equal(t, wantInc, files["inc.h"])
	wantDec := `#include "stab.h"
#include "advance_lsb.h"
#undef IS_ZERO
#if !defined(CTR_B0) && !defined(CTR_B1) && !defined(CTR_B2) && !defined(CTR_B3) && !defined(CTR_B4)
#define IS_ZERO 1
#else
#define IS_ZERO 0
#endif
`
	assert.Equal(t, wantDec, files["dec.h"])
	assert.Contains(t, files["init_ctr.h"], "#define IS_ZERO 1")
	assert.Contains(t, files["advance_msb.h"], "#include \"next2pow.h\"")
	assert.Contains(t, files["next2pow.h"], "#error")
}

func TestEmitCTRStateDispatch(t *testing.T) {
	files := runCompile(t, flavorCTR, ctrDesc)
	want := `#include "get_sym.h"
#if CUR_SYM == A_a
#include "inc.h"
#include "ctr_s.h"
#elif CUR_SYM == A_b && !IS_ZERO
#include "dec.h"
#include "ctr_t.h"
#elif CUR_SYM == END && IS_ZERO
#include "ctr_f.h"
#endif
#ifdef CONSUME
#undef CONSUME
#include NEXT_STATE
#endif
`
	assert.Equal(t, want, files["ctr_s.h"])
}

func TestEmitCTRNoConsumeVariant(t *testing.T) {
	desc := `alphabet={a} states={s,t} initial=s final={t}
		transitions={(s,a,)->(s,i),(s,,z)->(t,),(t,a,p)->(s,d)}`
	files := runCompile(t, flavorCTR, desc)
	nc, ok := files["ctr_t_no_consume.h"]
	require.True(t, ok)
	// no fresh read and no trailing consume block of its own
	assert.NotContains(t, nc, "#include \"get_sym.h\"")
	assert.NotContains(t, nc, "#ifdef CONSUME")
	// a consuming edge defers the include to the enclosing reader
	assert.Contains(t, nc, "#define NEXT_STATE \"ctr_s.h\"")
	assert.Contains(t, nc, "#define CONSUME")
}

func TestEmitDPDAFileSet(t *testing.T) {
	files := runCompile(t, flavorDPDA, dpdaDesc)
	assert.Equal(t, []string{
		"dpda.h", "dpda_f.h", "dpda_f_empty.h", "dpda_s.h", "dpda_s_empty.h", "get_sym.h",
	}, fileNames(files))
}

func TestEmitDPDATop(t *testing.T) {
	files := runCompile(t, flavorDPDA, dpdaDesc)
	want := `#undef END
#define END 0
#undef A_a
#define A_a 2
#undef A_b
#define A_b 3
#undef A_SIZE
#define A_SIZE 2
#undef A_MASK
#define A_MASK 3
#undef CTR
#define CTR (__COUNTER__ / 3)
#undef GET_SYM
#define GET_SYM ((INPUT >> (CTR * A_SIZE & 63)) & A_MASK)
#undef ST_Z
#define ST_Z 1
#undef ST_X
#define ST_X 2
#undef ST_NONE
#define ST_NONE 3
#undef TOP
#define TOP(L) (__LINE__ - (L))
#undef NEXT_ST_SYM
#define NEXT_ST_SYM ST_Z
#include "dpda_s.h"
#ifdef POP
#undef POP
#undef NEXT_ST_SYM
#define NEXT_ST_SYM ST_NONE
#include NEXT_STATE
#endif
`
	assert.Equal(t, want, files["dpda.h"])
}

// the state header for the balanced-bracket machine, with every stack
// probe spelled as the line delta back to the #line stamp at the top.
func TestEmitDPDAStateHeader(t *testing.T) {
	files := runCompile(t, flavorDPDA, dpdaDesc)
	want := `#line NEXT_ST_SYM
#include "get_sym.h"
#if CUR_SYM == A_a && TOP(1) == ST_Z
#undef NEXT_ST_SYM
#define NEXT_ST_SYM ST_X
#include "dpda_s.h"
#ifdef POP
#undef POP
#undef NEXT_ST_SYM
#if TOP(8) == ST_Z
#define NEXT_ST_SYM ST_Z
#elif TOP(10) == ST_X
#define NEXT_ST_SYM ST_X
#endif
#include NEXT_STATE
#endif
#elif CUR_SYM == A_a && TOP(15) == ST_X
#undef NEXT_ST_SYM
#define NEXT_ST_SYM ST_X
#include "dpda_s.h"
#ifdef POP
#undef POP
#undef NEXT_ST_SYM
#if TOP(22) == ST_Z
#define NEXT_ST_SYM ST_Z
#elif TOP(24) == ST_X
#define NEXT_ST_SYM ST_X
#endif
#include NEXT_STATE
#endif
#elif CUR_SYM == A_b && TOP(29) == ST_X
#include "get_sym.h"
#undef NEXT_STATE
#define NEXT_STATE "dpda_s_empty.h"
#undef POP
#define POP
#elif CUR_SYM == END && TOP(35) == ST_Z
#include "get_sym.h"
#undef NEXT_ST_SYM
#define NEXT_ST_SYM ST_Z
#include "dpda_f_empty.h"
#endif
`
	assert.Equal(t, want, files["dpda_s.h"])
}

func TestEmitDPDAEmptyVariant(t *testing.T) {
	files := runCompile(t, flavorDPDA, dpdaDesc)
	want := `#line NEXT_ST_SYM
#undef RECOGNIZED
#define RECOGNIZED
#if CUR_SYM != END
#undef RECOGNIZED
#endif
`
	assert.Equal(t, want, files["dpda_f_empty.h"])
	// the empty variant of s dispatches without re-reading
	assert.NotContains(t, files["dpda_s_empty.h"], "#include \"get_sym.h\"\n#if")
	assert.Contains(t, files["dpda_s_empty.h"], "#line NEXT_ST_SYM")
}

func TestCompileRejectsDeadEnd(t *testing.T) {
	fs := afero.NewMemMapFs()
	desc := `alphabet={a} states={s,t} initial=s final={} transitions={(s,a)->t}`
	require.NoError(t, afero.WriteFile(fs, "in.txt", []byte(desc), 0644))
	err := compile(flavorDFA, fs, "in.txt", "out", zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dead end non-final transition")
}

func TestCompileRejectsDuplicate(t *testing.T) {
	fs := afero.NewMemMapFs()
	desc := `alphabet={a} states={s,t,u} initial=s final={t,u} transitions={(s,a)->t,(s,a)->u}`
	require.NoError(t, afero.WriteFile(fs, "in.txt", []byte(desc), 0644))
	err := compile(flavorDFA, fs, "in.txt", "out", zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duplicate transition")
}

func TestCompileMissingInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	err := compile(flavorDFA, fs, "absent.txt", "out", zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.txt")
}
