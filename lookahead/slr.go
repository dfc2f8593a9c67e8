package lookahead

import (
	"github.com/dekarrin/xg/grammar"
	"github.com/dekarrin/xg/lr0"
)

// ComputeSLR1 computes SLR(1) lookahead sets: LA(state, production) is
// simply FOLLOW(LHS(production)) for every complete item (dot at the end of
// the production's right-hand side) in the state, production 0 excepted
// since its "reduction" is always rewritten as Accept. FIRST and FOLLOW
// must already be computed on g.
func ComputeSLR1(g *grammar.Grammar, dfa *lr0.Automaton) *Result {
	res := &Result{}

	for _, state := range dfa.States {
		for _, it := range state.Items {
			p := g.GetProduction(it.Prod)
			if it.Dot != p.Len() {
				continue
			}
			if it.Prod == 0 {
				continue
			}

			res.Reductions = append(res.Reductions, Reduction{
				State:     state.ID,
				Prod:      it.Prod,
				Lookahead: g.GetSymbol(p.LHS).Follow.Copy(),
			})
		}
	}

	return res
}
