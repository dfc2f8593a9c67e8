package lookahead

import (
	"github.com/dekarrin/xg/grammar"
	"github.com/dekarrin/xg/lr0"
)

// Resolution records how a shift/reduce conflict was settled.
type Resolution int

const (
	ResolveNone Resolution = iota
	ResolveShift
	ResolveShiftDefault
	ResolveReduce
	ResolveError
)

func (r Resolution) String() string {
	switch r {
	case ResolveShift, ResolveShiftDefault:
		return "shift"
	case ResolveReduce:
		return "reduce"
	case ResolveError:
		return "error"
	default:
		return "none"
	}
}

// ShiftReduceEntry records one shift/reduce conflict and its resolution, for
// the caller to log or render into a report. ViaDefault is true when no
// precedence/associativity information was available and the maximal-munch
// default (always shift) applied.
type ShiftReduceEntry struct {
	State      int
	Symbol     int
	Prod       int
	Resolution Resolution
	ViaDefault bool
}

// ReduceReduceEntry records one reduce/reduce conflict and its resolution
// (always in favor of the lower production index).
type ReduceReduceEntry struct {
	State    int
	Symbol   int
	WinProd  int
	LoseProd int
}

// ConflictLog accumulates every conflict Resolve encountered, in the order
// they were resolved, for a caller to render as a report without Resolve
// itself depending on any logging or formatting library.
type ConflictLog struct {
	ShiftReduce  []ShiftReduceEntry
	ReduceReduce []ReduceReduceEntry
}

// resolveShiftReduce decides a single shift/reduce conflict between a shift
// on terminal la and a reduction whose production's precedence token is rm
// (nil if the production has none). When both la and rm carry known
// associativity, precedence breaks the tie, then associativity; %nonassoc at
// equal precedence makes the token an error action (both the shift and the
// reduce are dropped). Otherwise maximal munch applies: shift.
func resolveShiftReduce(g *grammar.Grammar, la, rm *grammar.Symbol) Resolution {
	if rm != nil && rm.Assoc != grammar.AssocUnknown && la.Assoc != grammar.AssocUnknown {
		switch {
		case rm.Precedence > la.Precedence:
			return ResolveReduce
		case rm.Precedence < la.Precedence:
			return ResolveShift
		default:
			switch {
			case rm.Assoc == grammar.AssocLeft:
				return ResolveReduce
			case rm.Assoc == grammar.AssocNone:
				return ResolveError
			default:
				return ResolveShift
			}
		}
	}
	return ResolveShiftDefault
}

// Resolve resolves every shift/reduce and reduce/reduce conflict left over
// in res's reductions against dfa's shift transitions, mutating both in
// place: conflicting lookahead bits are cleared from the losing reduction,
// and a reduce-preferred shift transition is removed from its state
// entirely. Reductions left with an empty lookahead set afterward are
// dropped. The returned ConflictLog records every decision made.
func Resolve(g *grammar.Grammar, dfa *lr0.Automaton, res *Result) *ConflictLog {
	log := &ConflictLog{}

	byState := map[int][]*Reduction{}
	for i := range res.Reductions {
		rd := &res.Reductions[i]
		byState[rd.State] = append(byState[rd.State], rd)
	}

	for _, state := range dfa.States {
		reducts := byState[state.ID]
		if len(reducts) == 0 {
			continue
		}

		resolveShiftReduceConflicts(g, dfa, state, reducts, log)
		resolveReduceReduceConflicts(g, state.ID, reducts, log)
	}

	filtered := res.Reductions[:0]
	for _, rd := range res.Reductions {
		if !rd.Lookahead.Empty() {
			filtered = append(filtered, rd)
		}
	}
	res.Reductions = filtered

	return log
}

func resolveShiftReduceConflicts(g *grammar.Grammar, dfa *lr0.Automaton, state *lr0.State, reducts []*Reduction, log *ConflictLog) {
	kept := state.Transitions[:0]
	for _, tid := range state.Transitions {
		tr := dfa.Transitions[tid]
		if !g.IsTerminal(tr.Sym) {
			kept = append(kept, tid)
			continue
		}

		la := g.GetSymbol(tr.Sym)
		dropTrans := false

		for _, rd := range reducts {
			if !rd.Lookahead.Has(tr.Sym) {
				continue
			}

			p := g.GetProduction(rd.Prod)
			var rm *grammar.Symbol
			if p.PrecedenceToken != grammar.Epsilon {
				rm = g.GetSymbol(p.PrecedenceToken)
			}

			r := resolveShiftReduce(g, la, rm)
			if r == ResolveShiftDefault || r == ResolveError {
				// precedence-directed resolutions are not diagnostics and
				// stay out of the log
				log.ShiftReduce = append(log.ShiftReduce, ShiftReduceEntry{
					State: state.ID, Symbol: tr.Sym, Prod: rd.Prod,
					Resolution: r, ViaDefault: r == ResolveShiftDefault,
				})
			}

			switch r {
			case ResolveShift, ResolveShiftDefault:
				rd.Lookahead.Clear(tr.Sym)
			case ResolveReduce:
				dropTrans = true
			case ResolveError:
				rd.Lookahead.Clear(tr.Sym)
				dropTrans = true
			}

			if dropTrans {
				break
			}
		}

		if !dropTrans {
			kept = append(kept, tid)
		}
	}
	state.Transitions = kept
}

func resolveReduceReduceConflicts(g *grammar.Grammar, stateID int, reducts []*Reduction, log *ConflictLog) {
	for i := 0; i < len(reducts); i++ {
		bmax := reducts[i].Lookahead.Max()
		for j := i + 1; j < len(reducts); j++ {
			for sym := 0; sym < bmax; sym++ {
				if !reducts[i].Lookahead.Has(sym) || !reducts[j].Lookahead.Has(sym) {
					continue
				}

				win, lose := reducts[i], reducts[j]
				if reducts[j].Prod < reducts[i].Prod {
					win, lose = reducts[j], reducts[i]
				}
				lose.Lookahead.Clear(sym)

				log.ReduceReduce = append(log.ReduceReduce, ReduceReduceEntry{
					State: stateID, Symbol: sym, WinProd: win.Prod, LoseProd: lose.Prod,
				})
			}
		}
	}
}
