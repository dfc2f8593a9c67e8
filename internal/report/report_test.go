package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/xg/grammar"
	"github.com/dekarrin/xg/lookahead"
	"github.com/dekarrin/xg/lr0"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSumGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
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

	require.NoError(t, g.SetPrecedence([]int{plus}, grammar.AssocLeft))
	g.SetStart(s)
	require.NoError(t, g.Finalize())
	g.ComputeFirst()
	g.ComputeFollow()
	return g
}

func TestActionGotoTable(t *testing.T) {
	g := buildSumGrammar(t)
	dfa := lr0.Build(g)
	res := lookahead.ComputeLALR1(g, dfa)
	lookahead.Resolve(g, dfa, res)

	text := ActionGotoTable(g, dfa, res)
	assert.Contains(t, text, "A:+")
	assert.Contains(t, text, "G:S")
	assert.NotEmpty(t, text)
}

func TestConflictLogText_noConflicts(t *testing.T) {
	g := buildSumGrammar(t)
	dfa := lr0.Build(g)
	res := lookahead.ComputeLALR1(g, dfa)
	log := lookahead.Resolve(g, dfa, res)

	text := ConflictLogText(g, log)
	assert.Contains(t, text, "no conflicts")
}

func TestConflictLogText_reportsDanglingElse(t *testing.T) {
	// "S : 'i' E 't' S | 'i' E 't' S 'e' S | 'a' ; E : 'b' ;" with no
	// %right/%left/%nonassoc on 'e': both the shift and reduce have unknown
	// associativity, so the shift/reduce resolves via the maximal-munch
	// default and should show up in the log.
	g := grammar.New()
	s := g.AddSymbol("S")
	e := g.AddSymbol("E")
	i, _ := g.AddLiteral('i')
	th, _ := g.AddLiteral('t')
	el, _ := g.AddLiteral('e')
	a, _ := g.AddLiteral('a')
	b, _ := g.AddLiteral('b')

	p, err := g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, i)
	g.AppendRHSSymbol(p, e)
	g.AppendRHSSymbol(p, th)
	g.AppendRHSSymbol(p, s)

	p, err = g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, i)
	g.AppendRHSSymbol(p, e)
	g.AppendRHSSymbol(p, th)
	g.AppendRHSSymbol(p, s)
	g.AppendRHSSymbol(p, el)
	g.AppendRHSSymbol(p, s)

	p, err = g.AddProduction(s)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, a)

	p, err = g.AddProduction(e)
	require.NoError(t, err)
	g.AppendRHSSymbol(p, b)

	g.SetStart(s)
	require.NoError(t, g.Finalize())
	g.ComputeFirst()
	g.ComputeFollow()

	dfa := lr0.Build(g)
	res := lookahead.ComputeLALR1(g, dfa)
	log := lookahead.Resolve(g, dfa, res)

	require.NotEmpty(t, log.ShiftReduce)
	text := ConflictLogText(g, log)
	assert.Contains(t, text, "shift/reduce")
	assert.Contains(t, text, "maximal munch default")
}

func TestDump_roundTrips(t *testing.T) {
	g := buildSumGrammar(t)
	dfa := lr0.Build(g)
	res := lookahead.ComputeLALR1(g, dfa)
	lookahead.Resolve(g, dfa, res)

	dump := BuildDump(dfa, res)
	require.NotEmpty(t, dump.RunID)
	require.Len(t, dump.States, len(dfa.States))
	require.Len(t, dump.Transitions, len(dfa.Transitions))

	path := filepath.Join(t.TempDir(), "out.xgdump")
	require.NoError(t, WriteDump(path, dump))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	got, err := ReadDump(path)
	require.NoError(t, err)
	assert.Equal(t, dump.RunID, got.RunID)
	assert.Equal(t, len(dump.States), len(got.States))
	assert.Equal(t, len(dump.Transitions), len(got.Transitions))
	assert.Equal(t, len(dump.Reductions), len(got.Reductions))
}
