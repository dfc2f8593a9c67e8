package lookahead

import (
	"testing"

	"github.com/dekarrin/xg/grammar"
	"github.com/dekarrin/xg/lr0"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDanglingElseGrammar builds the classic ambiguous
//
//	S -> if E then S
//	S -> if E then S else S
//	S -> other
//
// grammar, which has a shift/reduce conflict on ELSE with no declared
// precedence, resolved by maximal munch (always shift).
func buildDanglingElseGrammar(t *testing.T) (g *grammar.Grammar, elseCode int) {
	t.Helper()
	g = grammar.New()

	s := g.AddSymbol("S")
	e := g.AddSymbol("E")
	ifTok := g.AddSymbol("if")
	thenTok := g.AddSymbol("then")
	elseTok := g.AddSymbol("else")
	other := g.AddSymbol("other")

	p, err := g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, ifTok)
	g.AppendRHSSymbol(p, e)
	g.AppendRHSSymbol(p, thenTok)
	g.AppendRHSSymbol(p, s)

	p, err = g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, ifTok)
	g.AppendRHSSymbol(p, e)
	g.AppendRHSSymbol(p, thenTok)
	g.AppendRHSSymbol(p, s)
	g.AppendRHSSymbol(p, elseTok)
	g.AppendRHSSymbol(p, s)

	p, err = g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, other)

	p, err = g.AddProduction(e)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, other)

	g.SetStart(s)
	require.NoError(t, g.Finalize())
	g.ComputeFirst()
	g.ComputeFollow()
	return g, elseTok
}

func Test_Resolve_danglingElseShiftsByDefault(t *testing.T) {
	g, elseTok := buildDanglingElseGrammar(t)
	dfa := lr0.Build(g)
	res := ComputeLALR1(g, dfa)

	log := Resolve(g, dfa, res)

	require.NotEmpty(t, log.ShiftReduce, "expected a shift/reduce conflict on 'else'")
	for _, entry := range log.ShiftReduce {
		assert.Equal(t, elseTok, entry.Symbol)
		assert.True(t, entry.ViaDefault)
		assert.Equal(t, ResolveShiftDefault, entry.Resolution)
	}

	// no surviving reduction in a state that reported the conflict should
	// claim 'else' as a valid lookahead: the shift transition won every time.
	// (Reductions in other states, such as S -> other, keep 'else'.)
	conflictStates := map[int]bool{}
	for _, entry := range log.ShiftReduce {
		conflictStates[entry.State] = true
	}
	for _, rd := range res.Reductions {
		if conflictStates[rd.State] {
			assert.False(t, rd.Lookahead.Has(elseTok))
		}
	}
}

func Test_Resolve_nonassocMakesTokenAnError(t *testing.T) {
	// S : S '+' S | 'n' ; %nonassoc '+' ; -- the shift/reduce conflict on
	// '+' at equal precedence becomes an error action: the reduction loses
	// '+' from its lookahead set AND the shift transition is removed, so
	// "n + n + n" has nowhere to go after the first reduction.
	g := grammar.New()
	s := g.AddSymbol("S")
	n, _ := g.AddLiteral('n')
	plus, _ := g.AddLiteral('+')

	p, err := g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, s)
	g.AppendRHSSymbol(p, plus)
	g.AppendRHSSymbol(p, s)

	p, err = g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, n)

	require.NoError(t, g.SetPrecedence([]int{plus}, grammar.AssocNone))
	g.SetStart(s)
	require.NoError(t, g.Finalize())
	g.ComputeFirst()
	g.ComputeFollow()

	dfa := lr0.Build(g)
	res := ComputeLALR1(g, dfa)
	log := Resolve(g, dfa, res)

	require.NotEmpty(t, log.ShiftReduce)
	var sawError bool
	errorStates := map[int]bool{}
	for _, entry := range log.ShiftReduce {
		if entry.Resolution == ResolveError {
			sawError = true
			errorStates[entry.State] = true
			assert.Equal(t, plus, entry.Symbol)
			assert.False(t, entry.ViaDefault)
		}
	}
	assert.True(t, sawError, "expected an error-action resolution on '+'")

	// the reduction in each error-action state lost '+'; S -> 'n' elsewhere
	// legitimately keeps it
	for _, rd := range res.Reductions {
		if errorStates[rd.State] {
			assert.False(t, rd.Lookahead.Has(plus))
		}
	}
	for _, state := range dfa.States {
		for _, tid := range state.Transitions {
			tr := dfa.Transitions[tid]
			if tr.Sym != plus {
				continue
			}
			// a state with the conflict dropped its shift on '+'; a state
			// without any reduction legitimately keeps it
			var hasReduct bool
			for _, rd := range res.Reductions {
				if rd.State == state.ID {
					hasReduct = true
				}
			}
			assert.False(t, hasReduct,
				"state %d kept its shift on '+' despite carrying a reduction", state.ID)
		}
	}
}

func Test_Resolve_reduceReducePrefersLowerProduction(t *testing.T) {
	g := grammar.New()
	s := g.AddSymbol("S")
	a := g.AddSymbol("A")
	b := g.AddSymbol("B")
	x, _ := g.AddLiteral('x')

	pS, err := g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(pS, a)

	pS2, err := g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(pS2, b)

	pA, err := g.AddProduction(a)
	require.NoError(t, err)
	g.AppendRHSSymbol(pA, x)

	pB, err := g.AddProduction(b)
	require.NoError(t, err)
	g.AppendRHSSymbol(pB, x)

	g.SetStart(s)
	require.NoError(t, g.Finalize())
	g.ComputeFirst()
	g.ComputeFollow()

	dfa := lr0.Build(g)
	res := ComputeLALR1(g, dfa)
	log := Resolve(g, dfa, res)

	require.NotEmpty(t, log.ReduceReduce)
	for _, entry := range log.ReduceReduce {
		assert.Less(t, entry.WinProd, entry.LoseProd)
	}
}
