package grammar

import (
	"testing"

	"github.com/dekarrin/xg/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ComputeFollow_exprGrammar(t *testing.T) {
	g, e, tN, f, _ := buildExprGrammar(t)
	require.NoError(t, g.Finalize())
	g.ComputeFirst()
	g.ComputeFollow()

	plus, _ := g.AddLiteral('+')
	star, _ := g.AddLiteral('*')
	rparen, _ := g.AddLiteral(')')

	followE := g.GetSymbol(e).Follow
	assert.True(t, followE.Has(plus))
	assert.True(t, followE.Has(rparen))
	assert.True(t, followE.Has(EOF))

	followT := g.GetSymbol(tN).Follow
	assert.True(t, followT.Has(plus))
	assert.True(t, followT.Has(star))
	assert.True(t, followT.Has(rparen))
	assert.True(t, followT.Has(EOF))

	followF := g.GetSymbol(f).Follow
	assert.True(t, followF.Has(star))
	assert.True(t, followF.Has(plus))
	assert.True(t, followF.Has(rparen))
	assert.True(t, followF.Has(EOF))
}

func Test_ComputeFirstFollow_fixpointsAreStable(t *testing.T) {
	// re-running either fixpoint on a completed grammar must leave every
	// set exactly as it was.
	g, e, tN, f, _ := buildExprGrammar(t)
	require.NoError(t, g.Finalize())
	g.ComputeFirst()
	g.ComputeFollow()

	type snapshot struct{ first, follow *util.Bitset }
	before := map[int]snapshot{}
	for _, nt := range []int{e, tN, f} {
		sym := g.GetSymbol(nt)
		before[nt] = snapshot{first: sym.First.Copy(), follow: sym.Follow.Copy()}
	}

	g.ComputeFirst()
	g.ComputeFollow()

	for _, nt := range []int{e, tN, f} {
		sym := g.GetSymbol(nt)
		assert.True(t, sym.First.Equal(before[nt].first), "FIRST(%d) changed on re-run", nt)
		assert.True(t, sym.Follow.Equal(before[nt].follow), "FOLLOW(%d) changed on re-run", nt)
	}
}

func Test_ComputeFollow_seedsEOFOnStart(t *testing.T) {
	g := New()
	s := g.AddSymbol("S")
	x, _ := g.AddLiteral('x')

	p, err := g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, x)

	g.SetStart(s)
	require.NoError(t, g.Finalize())
	g.ComputeFirst()
	g.ComputeFollow()

	assert.True(t, g.GetSymbol(g.StartSymbol()).Follow.Has(EOF))
}
