// Package grammar implements the grammar store: the symbol table and
// production table that every later analysis pass (nullable/FIRST/FOLLOW,
// the LR(0) automaton, the lookahead engine) reads but never owns — callers
// hand the finalized Grammar to each pass by reference, never by copy.
package grammar

import "github.com/dekarrin/xg/internal/util"

// Reserved symbol codes. Codes 2..MaxLiteral are reserved for single-
// character literal terminals; their code is simply the character's byte
// value, same as the original generator's XG_TOKEN_LITERAL_MAX scheme.
const (
	EOF        = 0
	Epsilon    = 1
	MaxLiteral = 255

	// FirstNamedCode is the first code assigned to a named (non-literal)
	// symbol.
	FirstNamedCode = MaxLiteral + 1
)

// epsilonMask is the constant {EPSILON} bitset used by ComputeFirst and
// ComputeFollow to strip EPSILON out of a borrowed FIRST set (mirrors the
// original generator's xg_epsilon_set).
var epsilonMask = func() *util.Bitset {
	b := util.NewBitset()
	b.Set(Epsilon)
	return b
}()

// Kind classifies a symbol.
type Kind int

const (
	ImplicitTerminal Kind = iota
	ExplicitTerminal
	NonTerminal
)

func (k Kind) String() string {
	switch k {
	case ImplicitTerminal:
		return "implicit-terminal"
	case ExplicitTerminal:
		return "explicit-terminal"
	case NonTerminal:
		return "non-terminal"
	default:
		return "unknown-kind"
	}
}

// Assoc is a symbol or production's associativity, used to resolve
// shift/reduce conflicts at the same precedence level.
type Assoc int

const (
	AssocUnknown Assoc = iota
	AssocNone
	AssocLeft
	AssocRight
)

func (a Assoc) String() string {
	switch a {
	case AssocNone:
		return "none"
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "unknown"
	}
}

// Symbol is the definition attached to a symbol code. FIRST and FOLLOW are
// only ever populated for non-terminals; Productions lists, in declaration
// order, every production whose left-hand side is this symbol (meaningless
// for terminals, which are never a production's lhs).
type Symbol struct {
	Code        int
	Name        string
	Kind        Kind
	Precedence  int // 0 = unset
	Assoc       Assoc
	First       *util.Bitset
	Follow      *util.Bitset
	Productions []int
}

// newSymbol creates an unnamed implicit-terminal stub for code. This is the
// definition spec.md says is equivalent to "absence of a definition" in the
// literal range, and is also the starting definition for any symbol freshly
// introduced by reference.
func newSymbol(code int) *Symbol {
	return &Symbol{
		Code:   code,
		Kind:   ImplicitTerminal,
		First:  util.NewBitset(),
		Follow: util.NewBitset(),
	}
}

// DisplayName returns the symbol's declared name if it has one, or its
// literal character rendering if it falls in the literal-code range.
func (s *Symbol) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Code == EOF {
		return "$"
	}
	if s.Code == Epsilon {
		return "ε"
	}
	if s.Code >= 2 && s.Code <= MaxLiteral {
		return string(rune(s.Code))
	}
	return ""
}
