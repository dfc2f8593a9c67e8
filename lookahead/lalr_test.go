package lookahead

import (
	"testing"

	"github.com/dekarrin/xg/grammar"
	"github.com/dekarrin/xg/lr0"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildExprGrammar mirrors the classic E/T/F expression grammar used
// throughout the grammar package's own tests.
func buildExprGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g := grammar.New()

	e := g.AddSymbol("E")
	tN := g.AddSymbol("T")
	f := g.AddSymbol("F")
	id := g.AddSymbol("id")
	plus, _ := g.AddLiteral('+')
	star, _ := g.AddLiteral('*')
	lparen, _ := g.AddLiteral('(')
	rparen, _ := g.AddLiteral(')')

	p, err := g.AddProduction(e)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, e)
	g.AppendRHSSymbol(p, plus)
	g.AppendRHSSymbol(p, tN)

	p, err = g.AddProduction(e)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, tN)

	p, err = g.AddProduction(tN)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, tN)
	g.AppendRHSSymbol(p, star)
	g.AppendRHSSymbol(p, f)

	p, err = g.AddProduction(tN)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, f)

	p, err = g.AddProduction(f)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, lparen)
	g.AppendRHSSymbol(p, e)
	g.AppendRHSSymbol(p, rparen)

	p, err = g.AddProduction(f)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, id)

	g.SetStart(e)
	require.NoError(t, g.Finalize())
	g.ComputeFirst()
	g.ComputeFollow()
	return g
}

func Test_ComputeLALR1_noConflictsOnExprGrammar(t *testing.T) {
	g := buildExprGrammar(t)
	dfa := lr0.Build(g)

	res := ComputeLALR1(g, dfa)
	require.NotEmpty(t, res.Reductions)

	// this grammar is unambiguous under LALR(1): no two reductions in the
	// same state should ever share a lookahead symbol before resolution.
	byState := map[int][]Reduction{}
	for _, rd := range res.Reductions {
		byState[rd.State] = append(byState[rd.State], rd)
	}
	for _, reducts := range byState {
		for i := range reducts {
			for j := i + 1; j < len(reducts); j++ {
				assert.False(t, reducts[i].Lookahead.Intersects(reducts[j].Lookahead),
					"reductions for productions %d and %d share a lookahead symbol",
					reducts[i].Prod, reducts[j].Prod)
			}
		}
	}
}

func Test_ComputeLALR1_matchesSLR1OnExprGrammar(t *testing.T) {
	// The classic E/T/F grammar is SLR(1), and for an SLR(1) grammar the
	// LALR(1) and SLR(1) lookahead sets must coincide state-for-state,
	// production-for-production (LALR(1) only ever computes a subset of
	// what SLR(1) would allow through FOLLOW).
	g := buildExprGrammar(t)
	dfa := lr0.Build(g)

	lalr := ComputeLALR1(g, dfa)
	slr := ComputeSLR1(g, dfa)

	slrByKey := map[[2]int]Reduction{}
	for _, rd := range slr.Reductions {
		slrByKey[[2]int{rd.State, rd.Prod}] = rd
	}

	for _, rd := range lalr.Reductions {
		slrRd, ok := slrByKey[[2]int{rd.State, rd.Prod}]
		require.True(t, ok, "LALR reduction (state %d, prod %d) has no SLR counterpart", rd.State, rd.Prod)
		assert.True(t, rd.Lookahead.Equal(slrRd.Lookahead),
			"LALR and SLR lookahead sets differ for state %d, prod %d", rd.State, rd.Prod)
	}
}
