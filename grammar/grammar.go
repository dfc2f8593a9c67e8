package grammar

import (
	"github.com/dekarrin/xg/xgerrors"
)

// augmentedName is the name given to the synthetic start symbol S' created
// at finalization. It can never collide with a user-declared name since
// user names come from the grammar-description identifier syntax, which
// does not allow a '$' character.
const augmentedName = "$accept"

// Grammar is the grammar store: a symbol table indexed by code and a
// production table indexed by production id. It is built incrementally via
// AddSymbol/AddProduction/AppendRHSSymbol and is not ready for analysis
// until Finalize succeeds.
type Grammar struct {
	start       int
	haveStart   bool
	symbols     map[int]*Symbol
	order       []int // codes in first-introduced order, for deterministic iteration
	names       map[string]int
	productions []*Production
	nextCode    int
	nextPrecLvl int
	finalized   bool
}

// New creates an empty Grammar, ready to accept symbols and productions.
func New() *Grammar {
	g := &Grammar{
		symbols:  map[int]*Symbol{},
		names:    map[string]int{},
		nextCode: FirstNamedCode,
	}
	return g
}

// AddSymbol introduces (or looks up) a named symbol and returns its code.
// The first call for a given name assigns the next code above MaxLiteral and
// records it as an implicit terminal; later calls with the same name return
// the previously assigned code unchanged.
func (g *Grammar) AddSymbol(name string) int {
	if code, ok := g.names[name]; ok {
		return code
	}
	code := g.nextCode
	g.nextCode++
	sym := newSymbol(code)
	sym.Name = name
	g.symbols[code] = sym
	g.names[name] = code
	g.order = append(g.order, code)
	return code
}

// AddLiteral introduces (or looks up) a single-character literal terminal,
// returning its code (which is simply the character's value, 2..MaxLiteral).
func (g *Grammar) AddLiteral(ch byte) (int, error) {
	if int(ch) < 2 || int(ch) > MaxLiteral {
		return 0, xgerrors.New(xgerrors.KindSemantic, "literal %q out of range 2..%d", ch, MaxLiteral)
	}
	code := int(ch)
	if _, ok := g.symbols[code]; !ok {
		sym := newSymbol(code)
		g.symbols[code] = sym
		g.order = append(g.order, code)
	}
	return code, nil
}

// SetSymbolAt installs a definition for a reserved or literal-range code,
// giving it a display name and kind. Used for EOF/EPSILON bookkeeping and for
// naming literal terminals (e.g. giving code '+' the display name "'+'").
func (g *Grammar) SetSymbolAt(code int, name string, kind Kind) {
	sym, ok := g.symbols[code]
	if !ok {
		sym = newSymbol(code)
		g.symbols[code] = sym
		g.order = append(g.order, code)
	}
	sym.Name = name
	sym.Kind = kind
	if name != "" {
		g.names[name] = code
	}
}

// GetSymbol returns the definition for code. Per spec.md §3, a code with no
// definition (always true for an as-yet-unreferenced literal) is equivalent
// to an unnamed implicit terminal, so this never returns nil.
func (g *Grammar) GetSymbol(code int) *Symbol {
	if sym, ok := g.symbols[code]; ok {
		return sym
	}
	return newSymbol(code)
}

// IsTerminal reports whether sym is a terminal (implicit or explicit) as
// opposed to a non-terminal. Symbols below FirstNamedCode are terminals
// unless they happen to be EOF/EPSILON, which are also treated as terminals
// for the purpose of this check (callers that need to special-case them
// check the code directly).
func (g *Grammar) IsTerminal(sym int) bool {
	if sym < FirstNamedCode {
		return true
	}
	return g.GetSymbol(sym).Kind != NonTerminal
}

// SetStart records the user's explicit start symbol declaration (%start).
func (g *Grammar) SetStart(code int) {
	g.start = code
	g.haveStart = true
}

// StartSymbol returns the grammar's start symbol code. Before Finalize, this
// is the user's declared (or defaulted) start symbol; after Finalize, it is
// the synthetic augmented start symbol S'.
func (g *Grammar) StartSymbol() int {
	return g.start
}

// SetPrecedence declares a new precedence level (strictly higher than any
// previously declared level, per spec.md §6.1) and assigns it, along with
// assoc, to every symbol in syms. Each symbol is marked an explicit
// terminal; a symbol already used as a production's left-hand side is a
// semantic error (a non-terminal cannot carry precedence).
func (g *Grammar) SetPrecedence(syms []int, assoc Assoc) error {
	g.nextPrecLvl++
	lvl := g.nextPrecLvl
	for _, code := range syms {
		sym, ok := g.symbols[code]
		if !ok {
			sym = newSymbol(code)
			g.symbols[code] = sym
			g.order = append(g.order, code)
		}
		if sym.Kind == NonTerminal {
			return xgerrors.New(xgerrors.KindSemantic,
				"symbol %q is used as a production left-hand side and cannot carry precedence", sym.DisplayName())
		}
		sym.Kind = ExplicitTerminal
		sym.Precedence = lvl
		sym.Assoc = assoc
	}
	return nil
}

// AddProduction begins a new production with the given left-hand side and
// returns its (pre-finalization) index. lhs is marked a non-terminal; it is
// a semantic error for a symbol already marked an explicit terminal to be
// used as a left-hand side.
func (g *Grammar) AddProduction(lhs int) (int, error) {
	sym, ok := g.symbols[lhs]
	if !ok {
		sym = newSymbol(lhs)
		g.symbols[lhs] = sym
		g.order = append(g.order, lhs)
	}
	if sym.Kind == ExplicitTerminal {
		return 0, xgerrors.New(xgerrors.KindSemantic,
			"symbol %q is declared as a terminal and cannot be a production left-hand side", sym.DisplayName())
	}
	sym.Kind = NonTerminal

	idx := len(g.productions)
	p := &Production{Index: idx, LHS: lhs, PrecedenceToken: Epsilon}
	g.productions = append(g.productions, p)
	sym.Productions = append(sym.Productions, idx)
	return idx, nil
}

// AppendRHSSymbol appends sym to the right-hand side of production prod.
func (g *Grammar) AppendRHSSymbol(prod, sym int) {
	p := g.productions[prod]
	p.RHS = append(p.RHS, sym)
}

// SetProductionPrecedenceToken overrides the precedence token for prod (the
// %prec directive).
func (g *Grammar) SetProductionPrecedenceToken(prod, code int) {
	g.productions[prod].PrecedenceToken = code
}

// GetProduction returns the production with the given index.
func (g *Grammar) GetProduction(idx int) *Production {
	return g.productions[idx]
}

// NumProductions returns the number of productions, including the augmented
// production 0 once Finalize has run.
func (g *Grammar) NumProductions() int {
	return len(g.productions)
}

// Productions returns every production in index order.
func (g *Grammar) Productions() []*Production {
	return g.productions
}

// Finalized reports whether Finalize has already succeeded.
func (g *Grammar) Finalized() bool {
	return g.finalized
}

// Finalize performs the one-time preparation spec.md §4.1 describes:
// defaulting the start symbol, augmenting the grammar with a synthetic
// production 0 (S' -> S EOF), and resolving every production's precedence
// token that was never given an explicit %prec. It must be called exactly
// once, after every user production has been added, and before any analysis
// pass runs.
func (g *Grammar) Finalize() error {
	if g.finalized {
		return xgerrors.New(xgerrors.KindSemantic, "grammar already finalized")
	}
	if len(g.productions) == 0 {
		return xgerrors.Wrap(xgerrors.KindSemantic, xgerrors.ErrGrammarEmpty, "cannot finalize an empty grammar")
	}

	if !g.haveStart {
		g.start = g.productions[0].LHS
	}

	// Resolve each production's default precedence token before shifting
	// indices, since it only depends on RHS contents.
	for _, p := range g.productions {
		if p.PrecedenceToken != Epsilon {
			continue
		}
		p.PrecedenceToken = g.rightmostTerminal(p)
	}

	// Shift every existing production up by one slot and insert the
	// augmented production S' -> S EOF at index 0.
	startPrime := g.AddSymbol(augmentedName)
	g.symbols[startPrime].Kind = NonTerminal

	shifted := make([]*Production, len(g.productions)+1)
	augmented := &Production{Index: 0, LHS: startPrime, RHS: []int{g.start, EOF}, PrecedenceToken: Epsilon}
	shifted[0] = augmented
	for i, p := range g.productions {
		p.Index = i + 1
		shifted[i+1] = p
	}
	g.productions = shifted

	// Fix up every symbol's Productions list to reflect the +1 shift, and
	// give S' its own production list.
	for _, sym := range g.symbols {
		for i := range sym.Productions {
			sym.Productions[i]++
		}
	}
	g.symbols[startPrime].Productions = []int{0}

	g.start = startPrime
	g.finalized = true
	return nil
}

// rightmostTerminal implements spec.md §4.1 step 3: a production's default
// precedence token is the rightmost right-hand-side symbol that is a
// terminal, or Epsilon if the production has no terminal at all.
func (g *Grammar) rightmostTerminal(p *Production) int {
	for i := len(p.RHS) - 1; i >= 0; i-- {
		if g.IsTerminal(p.RHS[i]) {
			return p.RHS[i]
		}
	}
	return Epsilon
}

// Terminals returns every terminal symbol code introduced so far, in
// first-introduced order (the literal range is included only for codes that
// were actually referenced).
func (g *Grammar) Terminals() []int {
	var out []int
	for _, code := range g.order {
		if g.symbols[code].Kind != NonTerminal {
			out = append(out, code)
		}
	}
	return out
}

// NonTerminals returns every non-terminal symbol code in first-introduced
// order.
func (g *Grammar) NonTerminals() []int {
	var out []int
	for _, code := range g.order {
		if g.symbols[code].Kind == NonTerminal {
			out = append(out, code)
		}
	}
	return out
}

// AllSymbols returns every known symbol's code in first-introduced order.
func (g *Grammar) AllSymbols() []int {
	return append([]int(nil), g.order...)
}
