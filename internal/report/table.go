// Package report renders the finalized parser tables and conflict log into
// human-readable text (via rosed, the same library dekarrin-tunaq's
// internal/ictiobus/parse package uses for its LALR1.String() ACTION/GOTO
// table) and into a binary diagnostic dump (via rezi, the library tunaq
// uses to serialize game.State to its save-game store). Nothing in this
// package affects the emitted C parser; it is a write-only reporting
// sidecar, per spec.md §6.3's "Persisted state: None" (the dump is never
// read back in as compiler input).
package report

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/xg/grammar"
	"github.com/dekarrin/xg/lookahead"
	"github.com/dekarrin/xg/lr0"
)

// ActionGotoTable renders dfa/res as a fixed-width ACTION/GOTO table, one
// row per state, one column per terminal (ACTION) and non-terminal (GOTO),
// in the same "S | A:x A:y | G:X G:Y" column layout
// dekarrin-tunaq/internal/ictiobus/parse/lalr.go's LALR1.String() uses.
func ActionGotoTable(g *grammar.Grammar, dfa *lr0.Automaton, res *lookahead.Result) string {
	byState := map[int][]lookahead.Reduction{}
	for _, rd := range res.Reductions {
		byState[rd.State] = append(byState[rd.State], rd)
	}

	// EOF never appears in the grammar's declared symbol order but heads
	// the ACTION columns: accept and end-of-input reductions land there.
	terms := append([]int{grammar.EOF}, g.Terminals()...)
	nonTerms := g.NonTerminals()

	headers := []string{"S", "|"}
	for _, t := range terms {
		headers = append(headers, "A:"+g.GetSymbol(t).DisplayName())
	}
	headers = append(headers, "|")
	for _, nt := range nonTerms {
		headers = append(headers, "G:"+g.GetSymbol(nt).DisplayName())
	}

	data := [][]string{headers}

	for _, state := range dfa.States {
		row := []string{fmt.Sprintf("%d", state.ID), "|"}

		for _, t := range terms {
			cell := ""
			if tid := state.TransOn(dfa, t); tid >= 0 {
				cell = fmt.Sprintf("s%d", dfa.Transitions[tid].Dst)
			}
			for _, rd := range byState[state.ID] {
				if rd.Lookahead.Has(t) {
					if cell != "" {
						cell += "/"
					}
					cell += fmt.Sprintf("r%d", rd.Prod)
				}
			}
			if state.Accept && t == grammar.EOF {
				cell = "acc"
			}
			row = append(row, cell)
		}

		row = append(row, "|")

		for _, nt := range nonTerms {
			cell := ""
			if tid := state.TransOn(dfa, nt); tid >= 0 {
				cell = fmt.Sprintf("%d", dfa.Transitions[tid].Dst)
			}
			row = append(row, cell)
		}

		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// ConflictLogText renders a *lookahead.ConflictLog as fixed-width text, one row
// per resolved conflict, for --print-conflicts. Conflicts are rendered in
// resolution order (spec.md §7: "Conflict logs are emitted at pass end, not
// interleaved"), shift/reduce first, then reduce/reduce.
func ConflictLogText(g *grammar.Grammar, log *lookahead.ConflictLog) string {
	data := [][]string{{"state", "symbol", "kind", "resolution", "detail"}}

	for _, c := range log.ShiftReduce {
		kind := "shift/reduce"
		detail := fmt.Sprintf("reduce %d", c.Prod)
		if c.ViaDefault {
			detail += " (maximal munch default)"
		}
		data = append(data, []string{
			fmt.Sprintf("%d", c.State),
			g.GetSymbol(c.Symbol).DisplayName(),
			kind,
			c.Resolution.String(),
			detail,
		})
	}

	for _, c := range log.ReduceReduce {
		data = append(data, []string{
			fmt.Sprintf("%d", c.State),
			g.GetSymbol(c.Symbol).DisplayName(),
			"reduce/reduce",
			"reduce",
			fmt.Sprintf("%d wins over %d (lower production index)", c.WinProd, c.LoseProd),
		})
	}

	if len(data) == 1 {
		return "(no conflicts)\n"
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
