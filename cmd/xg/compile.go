package main

import (
	"math/rand"
	"os"

	"github.com/dekarrin/xg/emit"
	"github.com/dekarrin/xg/grammar"
	"github.com/dekarrin/xg/internal/config"
	"github.com/dekarrin/xg/internal/gdesc"
	"github.com/dekarrin/xg/internal/report"
	"github.com/dekarrin/xg/lookahead"
	"github.com/dekarrin/xg/lr0"
	"github.com/dekarrin/xg/sentence"
	"github.com/dekarrin/xg/xgerrors"
	"github.com/pterm/pterm"
)

// lookaheadMode selects which lookahead construction the pipeline runs,
// matching spec.md §2's "(+ FOLLOW ⇒ SLR lookaheads) OR (+ digraph ⇒ LALR
// lookaheads)" branch in the data-flow diagram.
type lookaheadMode int

const (
	modeLALR1 lookaheadMode = iota
	modeSLR1
)

// pipelineResult bundles everything a later --print-*/--dump-* flag might
// need, so main only has to run the pipeline once per invocation.
type pipelineResult struct {
	grammar *grammar.Grammar
	dfa     *lr0.Automaton
	la      *lookahead.Result
	log     *lookahead.ConflictLog
}

// runPipeline executes every pass spec.md §2 lists, leaves-first: grammar
// load/finalize, FIRST/FOLLOW, LR(0) automaton, lookahead construction,
// conflict resolution. It does not emit source or write any report; that is
// the caller's job once it has decided what to do with the result. On
// failure, the caller is expected to remove any partially-written output
// per spec.md §7 (the pipeline itself never opens the output file).
func runPipeline(grammarPath string, mode lookaheadMode) (*pipelineResult, error) {
	f, err := os.Open(grammarPath)
	if err != nil {
		return nil, xgerrors.Wrap(xgerrors.KindIO, err, "open grammar file %q", grammarPath)
	}
	defer f.Close()

	pterm.Info.Println("loading grammar: " + grammarPath)
	g, err := gdesc.Load(f)
	if err != nil {
		return nil, xgerrors.Wrap(xgerrors.KindSemantic, err, "parse grammar description")
	}
	logStage("loaded grammar from %s", grammarPath)

	if err := g.Finalize(); err != nil {
		return nil, err
	}
	pterm.Success.Println("grammar finalized (start symbol, augmenting production)")

	g.ComputeFirst()
	g.ComputeFollow()
	pterm.Success.Println("computed nullable/FIRST/FOLLOW")

	dfa := lr0.Build(g)
	pterm.Success.Printf("built LR(0) automaton: %d states, %d transitions\n", len(dfa.States), len(dfa.Transitions))

	var la *lookahead.Result
	switch mode {
	case modeSLR1:
		la = lookahead.ComputeSLR1(g, dfa)
		pterm.Success.Println("computed SLR(1) lookahead sets")
	default:
		la = lookahead.ComputeLALR1(g, dfa)
		pterm.Success.Println("computed LALR(1) lookahead sets (DeRemer-Pennello)")
	}

	conflictLog := lookahead.Resolve(g, dfa, la)
	for _, c := range conflictLog.ShiftReduce {
		logConflict("state %d, symbol %d: shift/reduce resolved %s (prod %d)%s",
			c.State, c.Symbol, c.Resolution, c.Prod, defaultSuffix(c.ViaDefault))
	}
	for _, c := range conflictLog.ReduceReduce {
		logConflict("state %d, symbol %d: reduce/reduce resolved in favor of production %d over %d",
			c.State, c.Symbol, c.WinProd, c.LoseProd)
	}
	if n := len(conflictLog.ShiftReduce) + len(conflictLog.ReduceReduce); n > 0 {
		pterm.Warning.Printf("resolved %d conflict(s); see --print-conflicts\n", n)
	} else {
		pterm.Success.Println("no conflicts")
	}

	return &pipelineResult{grammar: g, dfa: dfa, la: la, log: conflictLog}, nil
}

func defaultSuffix(viaDefault bool) string {
	if viaDefault {
		return " via maximal-munch default"
	}
	return ""
}

// emitParser writes the jump-threaded C parser for res to outPath,
// following spec.md §7's unwind rule: a failure partway through leaves no
// partial file behind.
func emitParser(res *pipelineResult, outPath string, cfg config.EmitConfig) error {
	f, err := os.Create(outPath)
	if err != nil {
		return xgerrors.Wrap(xgerrors.KindIO, err, "create output file %q", outPath)
	}

	err = emit.Emit(f, res.grammar, res.dfa, res.la, emit.Options{DebugTrace: cfg.DebugTrace})
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(outPath)
		return xgerrors.Wrap(xgerrors.KindIO, err, "write output file %q", outPath)
	}

	if cfg.SplitThreshold > 0 && len(res.dfa.States) > cfg.SplitThreshold {
		pterm.Warning.Printf(
			"emitted function spans %d states (> %d); consider a function-splitting build of the emitter\n",
			len(res.dfa.States), cfg.SplitThreshold,
		)
	}

	pterm.Success.Println("wrote parser: " + outPath)
	return nil
}

// generateSentences draws n random derivations from res.grammar and writes
// them to stdout, per spec.md §4.7.
func generateSentences(res *pipelineResult, n, budget int, seed int64, format sentence.Format) error {
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}
	gen := sentence.New(res.grammar, rng)

	for i := 0; i < n; i++ {
		s, err := gen.Generate(budget)
		if err != nil {
			return xgerrors.Wrap(xgerrors.KindResource, err, "generate sentence %d/%d", i+1, n)
		}
		if err := gen.Write(os.Stdout, s, format); err != nil {
			return err
		}
	}
	return nil
}

// writeDumpFile builds and writes the --dump-automaton diagnostic artifact.
func writeDumpFile(res *pipelineResult, path string) error {
	dump := report.BuildDump(res.dfa, res.la)
	if err := report.WriteDump(path, dump); err != nil {
		return xgerrors.Wrap(xgerrors.KindIO, err, "write automaton dump %q", path)
	}
	pterm.Success.Println("wrote automaton dump: " + path + " (run " + dump.RunID + ")")
	return nil
}
