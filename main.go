package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

func newLogger() (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

var flavorShort = map[flavor]string{
	flavorDFA:  "compile a finite automaton description",
	flavorCTR:  "compile a one-counter automaton description",
	flavorDPDA: "compile a pushdown automaton description",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cpp-translators",
		Short:         "compile automaton descriptions into C preprocessor recognizers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log the parsed machine and every emitted file")
	for _, fl := range []flavor{flavorDFA, flavorCTR, flavorDPDA} {
		fl := fl
		root.AddCommand(&cobra.Command{
			Use:   fl.String() + " <description-file> <output-dir>",
			Short: flavorShort[fl],
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				log, err := newLogger()
				if err != nil {
					return err
				}
				defer func() { _ = log.Sync() }()
				return compile(fl, afero.NewOsFs(), args[0], args[1], log)
			},
		})
	}
	return root
}

// compile runs the whole pipeline for one flavor on the given filesystem:
// read, parse, build, atomize for pushdown machines, then emit headers.
func compile(fl flavor, fs afero.Fs, inPath, outDir string, log *zap.SugaredLogger) error {
	text, err := readDescription(fs, inPath)
	if err != nil {
		return err
	}
	d, err := parseDescription(fl, text)
	if err != nil {
		return err
	}
	dumpDescription(log, d)
	if err := ensureDir(fs, outDir); err != nil {
		return err
	}
	e := newEmitter(fs, outDir, log)
	switch fl {
	case flavorDFA:
		m, err := buildDFA(d)
		if err != nil {
			return err
		}
		if err := emitDFA(e, m); err != nil {
			return err
		}
	case flavorCTR:
		m, err := buildCTR(d)
		if err != nil {
			return err
		}
		if err := emitCTR(e, m); err != nil {
			return err
		}
	default:
		m, err := atomizeDPDA(d)
		if err != nil {
			return err
		}
		dumpAtoms(log, m)
		if err := emitDPDA(e, m); err != nil {
			return err
		}
	}
	log.Infow("emitted recognizer",
		"flavor", fl.String(),
		"states", len(d.states),
		"files", len(e.files))
	return nil
}

// dumpDescription logs the parsed machine before validation
func dumpDescription(log *zap.SugaredLogger, d *description) {
	log.Debugw("parsed description",
		"flavor", d.flavor.String(),
		"alphabet", d.alphabet,
		"states", d.states,
		"initial", d.initial,
		"final", d.final)
	if d.flavor == flavorDPDA {
		log.Debugw("stack alphabet", "stack", d.stack, "bottom", d.bottom)
	}
	for _, t := range d.dfa {
		log.Debugf("transition (%s,%s) -> %s", t.cur, t.sym, t.next)
	}
	for _, t := range d.ctr {
		log.Debugf("transition (%s,%s,%s) -> (%s,%s)", t.cur, orEps(t.sym), orEps(t.cond), t.next, orEps(t.act))
	}
	for _, t := range d.dpda {
		log.Debugf("transition (%s,%s,%s) -> (%s,%s)", t.cur, orEps(t.sym), t.top, t.next, orEps(t.push))
	}
}

// dumpAtoms logs the machine after multi-push rewriting
func dumpAtoms(log *zap.SugaredLogger, m *dpdaMachine) {
	for _, q := range m.states {
		for _, a := range m.atoms[q] {
			act := a.kind.String()
			if a.arg != "" {
				act += " " + a.arg
			}
			log.Debugf("atom (%s,%s,%s) -> (%s, %s)", a.cur, orEps(a.sym), a.top, a.next, act)
		}
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("error:"), err)
		os.Exit(1)
	}
}
