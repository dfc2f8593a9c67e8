package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildExprGrammar builds the classic
//
//	E -> E '+' T | T
//	T -> T '*' F | F
//	F -> '(' E ')' | id
//
// grammar, returning the grammar and the non-terminal codes for convenient
// assertions.
func buildExprGrammar(t *testing.T) (g *Grammar, e, tN, f, id int) {
	t.Helper()
	g = New()

	e = g.AddSymbol("E")
	tN = g.AddSymbol("T")
	f = g.AddSymbol("F")
	id = g.AddSymbol("id")
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
	return g, e, tN, f, id
}

func Test_Grammar_AddSymbol_dedups(t *testing.T) {
	g := New()
	a := g.AddSymbol("foo")
	b := g.AddSymbol("foo")
	assert.Equal(t, a, b)
}

func Test_Grammar_AddLiteral_range(t *testing.T) {
	g := New()
	_, err := g.AddLiteral(0)
	assert.Error(t, err)

	code, err := g.AddLiteral('+')
	require.NoError(t, err)
	assert.Equal(t, int('+'), code)
}

func Test_Grammar_AddProduction_terminalAsLHS(t *testing.T) {
	g := New()
	code, _ := g.AddLiteral('a')
	require.NoError(t, g.SetPrecedence([]int{code}, AssocLeft))

	_, err := g.AddProduction(code)
	assert.Error(t, err)
}

func Test_Grammar_Finalize_augments(t *testing.T) {
	g, e, _, _, _ := buildExprGrammar(t)

	before := g.NumProductions()
	require.NoError(t, g.Finalize())

	assert.Equal(t, before+1, g.NumProductions())
	aug := g.GetProduction(0)
	assert.Equal(t, g.StartSymbol(), aug.LHS)
	assert.Equal(t, []int{e, EOF}, aug.RHS)

	// every shifted production kept its original content, just moved up
	// by one slot
	p1 := g.GetProduction(1)
	assert.Equal(t, e, p1.LHS)
}

func Test_Grammar_Finalize_empty(t *testing.T) {
	g := New()
	err := g.Finalize()
	assert.Error(t, err)
}

func Test_Grammar_Finalize_twice(t *testing.T) {
	g, _, _, _, _ := buildExprGrammar(t)
	require.NoError(t, g.Finalize())
	assert.Error(t, g.Finalize())
}

func Test_Grammar_rightmostTerminal_default(t *testing.T) {
	g, _, _, _, _ := buildExprGrammar(t)
	require.NoError(t, g.Finalize())

	// E -> E '+' T, production 1 after the augmenting shift: rightmost
	// terminal on the RHS is '+'.
	p := g.GetProduction(1)
	assert.Equal(t, int('+'), p.PrecedenceToken)
}
