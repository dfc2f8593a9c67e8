// Package lookahead computes lookahead sets for the reductions of an LR(0)
// automaton, by either the SLR(1) approximation (slr.go) or the exact
// LALR(1) construction (this file, plus digraph.go), and resolves the
// shift/reduce and reduce/reduce conflicts that remain (conflict.go).
package lookahead

import (
	"github.com/dekarrin/xg/grammar"
	"github.com/dekarrin/xg/internal/util"
	"github.com/dekarrin/xg/lr0"
)

// Reduction is a single entry in a state's reduce action: on any lookahead
// symbol in Lookahead, reduce by production Prod while in state State.
type Reduction struct {
	State     int
	Prod      int
	Lookahead *util.Bitset
}

// Result is the per-state reduction table produced by either lookahead
// construction. Production 0 (the augmenting production) never appears
// here: reducing by it is always rewritten as Accept, not as a reduction.
type Result struct {
	Reductions []Reduction
}

// lalrTrans is the per-(state,non-terminal)-transition bookkeeping the
// DeRemer-Pennello construction accumulates into: nil for any transition
// labeled by a terminal, since only non-terminal transitions carry a
// lookahead-propagation relation.
type lalrTrans struct {
	rel   []int
	value *util.Bitset
}

// ComputeLALR1 computes exact LALR(1) lookahead sets for dfa's reductions,
// following DeRemer & Pennello's "Efficient Computation of LALR(1)
// Look-Ahead Sets" (TOPLAS 4:4, 1982): DirectRead sets seed a digraph pass
// over the "reads" relation to get Read sets, then a second digraph pass
// over the "includes" relation propagates Read into Follow, and a final
// lookback pass turns Follow(transition) into LA(state, production).
func ComputeLALR1(g *grammar.Grammar, dfa *lr0.Automaton) *Result {
	trans := make([]*lalrTrans, len(dfa.Transitions))
	for i, t := range dfa.Transitions {
		if !g.IsTerminal(t.Sym) {
			trans[i] = &lalrTrans{value: util.NewBitset()}
		}
	}

	computeDirectReadSets(g, dfa, trans)
	computeReadsRelation(g, dfa, trans)
	runDigraph(relOf(trans), valueOf(trans))

	clearRel(trans)
	computeIncludesRelation(g, dfa, trans)
	runDigraph(relOf(trans), valueOf(trans))

	return computeLookaheads(g, dfa, trans)
}

func relOf(trans []*lalrTrans) [][]int {
	out := make([][]int, len(trans))
	for i, tr := range trans {
		if tr != nil {
			out[i] = tr.rel
		}
	}
	return out
}

func valueOf(trans []*lalrTrans) []*util.Bitset {
	out := make([]*util.Bitset, len(trans))
	for i, tr := range trans {
		if tr != nil {
			out[i] = tr.value
		}
	}
	return out
}

func clearRel(trans []*lalrTrans) {
	for _, tr := range trans {
		if tr != nil {
			tr.rel = nil
		}
	}
}

// computeDirectReadSets seeds each non-terminal transition (p, A) with
// DR(p, A) = { t terminal | p -A-> r -t-> }: every terminal that labels an
// outgoing transition of the destination state r.
func computeDirectReadSets(g *grammar.Grammar, dfa *lr0.Automaton, trans []*lalrTrans) {
	for i, t := range dfa.Transitions {
		if trans[i] == nil {
			continue
		}
		r := dfa.States[t.Dst]
		for _, tid := range r.Transitions {
			out := dfa.Transitions[tid]
			if g.IsTerminal(out.Sym) {
				trans[i].value.Set(out.Sym)
			}
		}
	}
}

// computeReadsRelation builds the "reads" relation: (p, A) reads (r, C) iff
// p -A-> r -C-> and C is nullable. Read(p,A) = DR(p,A) ∪ ⋃{Read(r,C)}.
func computeReadsRelation(g *grammar.Grammar, dfa *lr0.Automaton, trans []*lalrTrans) {
	for i, t := range dfa.Transitions {
		if trans[i] == nil {
			continue
		}
		r := dfa.States[t.Dst]
		for _, tid := range r.Transitions {
			out := dfa.Transitions[tid]
			if !g.IsTerminal(out.Sym) && g.NullableSymbol(out.Sym) {
				trans[i].rel = append(trans[i].rel, tid)
			}
		}
	}
}

// findTrans returns the id of state s's outgoing transition on sym, or -1.
func findTrans(dfa *lr0.Automaton, s *lr0.State, sym int) int {
	return s.TransOn(dfa, sym)
}

// computeIncludesRelation builds the "includes" relation:
// (p, A) includes (p', B) iff B -> b A y, y is nullable, and p' -b-> p.
// Follow(p,A) ⊇ Follow(p',B) is expressed by, for each such pair, appending
// (p',B)'s transition id into the rel list of (p,A)'s transition, so the
// digraph pass over "includes" folds Follow(p',B) into Follow(p,A).
func computeIncludesRelation(g *grammar.Grammar, dfa *lr0.Automaton, trans []*lalrTrans) {
	for i, t := range dfa.Transitions {
		if trans[i] == nil {
			continue
		}

		def := g.GetSymbol(t.Sym)
		for _, prodIdx := range def.Productions {
			p := g.GetProduction(prodIdx)
			rhs := p.RHS
			k := len(rhs)
			state := dfa.States[t.Src]

			for k > 0 {
				sym := rhs[len(rhs)-k]
				tt := findTrans(dfa, state, sym)

				if !g.IsTerminal(sym) && (k == 1 || g.NullableForm(rhs[len(rhs)-k+1:])) {
					trans[tt].rel = append(trans[tt].rel, i)
				}

				state = dfa.States[dfa.Transitions[tt].Dst]
				k--
			}
		}
	}
}

// computeLookaheads turns the Follow value computed for each (state,
// non-terminal) transition into LA(end, production) for every reduction:
// for every non-kernel item <production, 0> in a state `start`, trace the
// production's right-hand side to the state `end` holding the final item,
// then look back at the transition (start, production.LHS) to find the
// Follow set to use as that reduction's lookahead.
func computeLookaheads(g *grammar.Grammar, dfa *lr0.Automaton, trans []*lalrTrans) *Result {
	index := map[[2]int]*Reduction{}
	var order [][2]int

	addReduct := func(state, prod int, la *util.Bitset) {
		key := [2]int{state, prod}
		rd, ok := index[key]
		if !ok {
			rd = &Reduction{State: state, Prod: prod, Lookahead: util.NewBitset()}
			index[key] = rd
			order = append(order, key)
		}
		if la != nil {
			rd.Lookahead.Or(la)
		}
	}

	for _, start := range dfa.States {
		for _, it := range start.Items {
			if it.Dot != 0 {
				continue
			}
			if it.Prod == 0 {
				// Production 0 is the augmenting production; its
				// "reduction" is always rewritten as Accept, never a real
				// LALR reduction entry.
				continue
			}

			p := g.GetProduction(it.Prod)
			end := start
			for _, sym := range p.RHS {
				tid := findTrans(dfa, end, sym)
				end = dfa.States[dfa.Transitions[tid].Dst]
			}

			lookbackTid := findTrans(dfa, start, p.LHS)
			if lookbackTid < 0 {
				// No outgoing transition on the production's left-hand
				// side from this state: the augmented start symbol never
				// appears on a right-hand side, so this can only happen
				// while tracing it, never for a user production.
				continue
			}

			addReduct(end.ID, it.Prod, trans[lookbackTid].value)
		}
	}

	res := &Result{}
	for _, key := range order {
		res.Reductions = append(res.Reductions, *index[key])
	}
	return res
}
