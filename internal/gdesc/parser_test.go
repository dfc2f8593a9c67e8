package gdesc

import (
	"strings"
	"testing"

	"github.com/dekarrin/xg/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_arithmeticGrammar(t *testing.T) {
	src := `
%left '+' ;
%left '*' ;

E : E '+' T | T ;
T : T '*' F | F ;
F : '(' E ')' | 'n' ;
`
	g, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.NoError(t, g.Finalize())

	assert.Equal(t, 7, g.NumProductions()) // 6 user productions + augmenting production 0
}

func Test_Load_startDirective(t *testing.T) {
	src := `
%start S ;
S : 'a' ;
`
	g, err := Load(strings.NewReader(src))
	require.NoError(t, err)

	sName := g.GetSymbol(g.StartSymbol()).Name
	assert.Equal(t, "S", sName)
}

func Test_Load_precDirectiveOverridesDefault(t *testing.T) {
	src := `
%left '+' ;
%left UMINUS ;

E : E '+' E | '-' E %prec UMINUS | 'n' ;
`
	g, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	require.NoError(t, g.Finalize())

	var found bool
	for _, p := range g.Productions() {
		if p.Index == 0 {
			continue
		}
		if len(p.RHS) == 2 {
			sym := g.GetSymbol(p.PrecedenceToken)
			if sym.DisplayName() == "UMINUS" {
				found = true
			}
		}
	}
	assert.True(t, found, "unary minus production should carry the UMINUS precedence token")
}

func Test_Load_rejectsMalformedLiteral(t *testing.T) {
	_, err := Load(strings.NewReader(`S : 'ab' ;`))
	assert.Error(t, err)
}

func Test_Load_emptyProduction(t *testing.T) {
	g, err := Load(strings.NewReader(`S : ;`))
	require.NoError(t, err)
	require.NoError(t, g.Finalize())

	var empty *grammar.Production
	for _, p := range g.Productions() {
		if p.Index != 0 && p.Len() == 0 {
			empty = p
		}
	}
	require.NotNil(t, empty)
}
