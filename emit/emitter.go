// Package emit renders a resolved automaton into a jump-threaded ISO C
// parser: one labeled block per state, reduce labels per production, and a
// goto-switch per non-terminal symbol, exactly as the reference generator's
// xg_gen_c_parser produces. Emission never touches the grammar or automaton
// it is given; callers run conflict resolution first.
package emit

import (
	"fmt"
	"io"
	"sort"

	"github.com/dekarrin/xg/grammar"
	"github.com/dekarrin/xg/lookahead"
	"github.com/dekarrin/xg/lr0"
)

// Options controls emission details that don't affect the parser's
// behavior, only the shape of the emitted source. The zero value omits the
// debug tables; set DebugTrace to emit them.
type Options struct {
	// DebugTrace gates emission of the #ifndef NDEBUG symbol-name and
	// production-text tables, exactly as gen-c-parser.c's own NDEBUG guard
	// does. SPEC_FULL.md §4 recovers this as a caller-visible choice rather
	// than a compile-time-only one.
	DebugTrace bool
}

// Emit writes a complete C translation unit implementing xg_parse for g's
// automaton dfa, using res as the (already conflict-resolved) reduce-action
// table. The output is deterministic: identical inputs always produce
// byte-identical output, since every map-derived iteration order below is
// sorted before use.
func Emit(w io.Writer, g *grammar.Grammar, dfa *lr0.Automaton, res *lookahead.Result, opts Options) error {
	e := &emitter{w: w, g: g, dfa: dfa, opts: opts}
	e.indexReductions(res)

	steps := []func() error{
		e.emitHeader,
		e.emitSymbolNames,
		e.emitProductionText,
		e.emitFunctionPreamble,
		e.emitStates,
		e.emitReduceLabels,
		e.emitGotoSwitches,
		e.emitTrailer,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

type emitter struct {
	w       io.Writer
	g       *grammar.Grammar
	dfa     *lr0.Automaton
	opts    Options
	byState map[int][]lookahead.Reduction
}

func (e *emitter) indexReductions(res *lookahead.Result) {
	e.byState = map[int][]lookahead.Reduction{}
	for _, rd := range res.Reductions {
		e.byState[rd.State] = append(e.byState[rd.State], rd)
	}
}

func (e *emitter) printf(format string, a ...interface{}) error {
	_, err := fmt.Fprintf(e.w, format, a...)
	return err
}

func (e *emitter) emitHeader() error {
	return e.printf("#include <xg-c-parser.h>\n\n")
}

// emitSymbolNames emits the #ifndef NDEBUG symbol-name table, one entry per
// named (non-literal) symbol in code order, terminated by a null sentinel.
func (e *emitter) emitSymbolNames() error {
	if !e.opts.DebugTrace {
		return nil
	}
	if err := e.printf("#ifndef NDEBUG\nstatic const char *xg__symbol_name[] =\n{\n"); err != nil {
		return err
	}
	for _, code := range e.g.AllSymbols() {
		if code <= grammar.MaxLiteral {
			continue
		}
		if err := e.printf("  \"%s\",\n", e.g.GetSymbol(code).DisplayName()); err != nil {
			return err
		}
	}
	return e.printf("  0\n};\n\n")
}

// emitProductionText emits the #ifndef NDEBUG production-text table used by
// the runtime for debug tracing, one rendered production per line.
func (e *emitter) emitProductionText() error {
	if !e.opts.DebugTrace {
		return nil
	}
	if err := e.printf("static const char *xg__prod[] =\n{\n"); err != nil {
		return err
	}
	for _, p := range e.g.Productions() {
		if err := e.printf("  \"%s\",\n", p.String(e.g)); err != nil {
			return err
		}
	}
	return e.printf("  0\n};\n#endif /* NDEBUG */\n\n")
}

func (e *emitter) emitFunctionPreamble() error {
	return e.printf("int\nxg_parse(xg_parse_ctx *ctx)\n{\n  XG__PARSER_FUNCTION_START;\n\n")
}

// emitStates emits one jump-threaded block per automaton state: a shift_N
// label if the state is entered on a terminal, else push_N; the stack push;
// and a single switch(token) covering both shift and reduce actions, with
// the single most frequent reduce destination chosen as the default case.
func (e *emitter) emitStates() error {
	for _, state := range e.dfa.States {
		if state.Access != grammar.Epsilon && e.g.IsTerminal(state.Access) {
			if err := e.printf("shift_%d:\n  XG__SHIFT;\n", state.ID); err != nil {
				return err
			}
		} else if err := e.printf("push_%d:\n", state.ID); err != nil {
			return err
		}
		if err := e.printf("  XG__PUSH(%d);\n\n  switch (token)\n  {\n", state.ID); err != nil {
			return err
		}

		for _, tid := range state.Transitions {
			tr := e.dfa.Transitions[tid]
			if !e.g.IsTerminal(tr.Sym) {
				continue
			}
			if err := e.printf("    case %d:\n      goto shift_%d;\n", tr.Sym, tr.Dst); err != nil {
				return err
			}
		}

		if err := e.emitReduceCases(state); err != nil {
			return err
		}

		if err := e.printf("  }\n\n\n"); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) emitReduceCases(state *lr0.State) error {
	reducts := e.byState[state.ID]

	switch {
	case len(reducts) > 1:
		freq := map[int]int{}
		for _, rd := range reducts {
			freq[rd.Prod] += rd.Lookahead.Len()
		}
		defaultProd := maxFreq(freq)
		if err := e.printf("    default:\n      goto reduce_%d;\n", defaultProd); err != nil {
			return err
		}
		for _, rd := range reducts {
			if rd.Prod == defaultProd {
				continue
			}
			for _, sym := range rd.Lookahead.Elements() {
				if err := e.printf("    case %d:\n      goto reduce_%d;\n", sym, rd.Prod); err != nil {
					return err
				}
			}
		}
	case len(reducts) == 1:
		if err := e.printf("    default:\n      goto reduce_%d;\n", reducts[0].Prod); err != nil {
			return err
		}
	default:
		if state.Accept {
			return e.printf("    default:\n      goto accept;\n")
		}
		return e.printf("    default:\n      goto parse_error;\n")
	}
	return nil
}

// emitReduceLabels emits one reduce_N label per production, skipping
// production 0: reducing by the augmenting production is always rewritten
// as an accept and is never reached through a reduce_0 label.
func (e *emitter) emitReduceLabels() error {
	for _, p := range e.g.Productions() {
		if p.Index == 0 {
			continue
		}
		if err := e.printf(
			"reduce_%d:\n  XG__REDUCE(%d, %d);\n  goto symbol_%d;\n\n",
			p.Index, p.Index, p.Len(), p.LHS,
		); err != nil {
			return err
		}
	}
	return nil
}

// emitGotoSwitches emits, for every non-terminal symbol other than the
// augmented start symbol (which never appears on a right-hand side and so
// never has a goto to resolve), a switch(state) choosing the destination
// state for a goto on that symbol, again picking the most frequent
// destination as the default case.
func (e *emitter) emitGotoSwitches() error {
	for _, sym := range e.g.NonTerminals() {
		if sym == e.g.StartSymbol() {
			continue
		}

		var matching []*lr0.Trans
		freq := map[int]int{}
		for _, tr := range e.dfa.Transitions {
			if tr.Sym == sym {
				matching = append(matching, tr)
				freq[tr.Dst]++
			}
		}

		// the label is emitted even for a non-terminal no state ever
		// transitions on: its productions' reduce blocks still name it.
		if err := e.printf("symbol_%d:\n  switch (state)\n  {\n", sym); err != nil {
			return err
		}
		if len(matching) > 0 {
			dst := maxFreq(freq)
			for _, tr := range matching {
				if tr.Dst == dst {
					continue
				}
				if err := e.printf("    case %d:\n      goto push_%d;\n", tr.Src, tr.Dst); err != nil {
					return err
				}
			}
			if err := e.printf("    default:\n      goto push_%d;\n", dst); err != nil {
				return err
			}
		}
		if err := e.printf("  }\n\n"); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) emitTrailer() error {
	return e.printf(
		"internal_error:\n  XG__PARSER_FUNCTION_END(-1);\n\n" +
			"parse_error:\n  XG__PARSER_FUNCTION_END(-1);\n\n" +
			"accept:\n  XG__PARSER_FUNCTION_END(0);\n}\n",
	)
}

// maxFreq returns the key with the highest value in freq, breaking ties by
// smallest key so that output is deterministic across runs (the original's
// unordered vector scan left ties unspecified; spec.md's determinism
// invariant does not allow that here).
func maxFreq(freq map[int]int) int {
	keys := make([]int, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	best, bestFreq := keys[0], -1
	for _, k := range keys {
		if freq[k] > bestFreq {
			best, bestFreq = k, freq[k]
		}
	}
	return best
}
