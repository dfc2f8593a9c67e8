// Package sentence implements a guided random sentence generator: it
// expands the grammar's start symbol by repeatedly choosing a random
// alternative for each non-terminal it encounters, under a recursion budget,
// backtracking to the next alternative when a choice can't be completed
// within that budget. Mirrors original_source/random-gen.c's expand/
// xg_make_random_sentence pair.
package sentence

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/dekarrin/xg/grammar"
)

// randSeed returns a seed derived from the current time, used only when New
// is given a nil *rand.Rand (i.e. the caller has no reproducibility need),
// mirroring random-gen.c's unconditional srand(time(0)) call.
func randSeed() int64 {
	return time.Now().UnixNano()
}

// ErrBudgetExceeded is returned by Generate when no alternative of the start
// symbol (or of some symbol reached while expanding it) could be completed
// to a terminal string within the recursion budget given.
var ErrBudgetExceeded = errors.New("sentence: recursion budget exceeded")

// Format selects how terminal symbols are rendered by Write.
type Format int

const (
	// FormatChar renders literal terminals (codes 2..255) as their
	// character and named terminals by their declared name, exactly as
	// random-gen.c's xg_make_random_sentence does.
	FormatChar Format = iota
	// FormatName renders every terminal, literal or named, by its display
	// name (so a literal given a name through SetSymbolAt, such as "'+'",
	// prints under that name; an unnamed literal prints as its character in
	// either format).
	FormatName
)

// Generator draws random derivations from a finalized grammar.
type Generator struct {
	g   *grammar.Grammar
	rng *rand.Rand
}

// New returns a Generator over g, which must already be finalized. rng
// supplies the random choices; pass rand.New(rand.NewSource(seed)) for a
// reproducible sequence, or nil to seed from the current time.
func New(g *grammar.Grammar, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(randSeed()))
	}
	return &Generator{g: g, rng: rng}
}

// Sentence is a derived string of terminal symbol codes, in left-to-right
// order.
type Sentence []int

// Generate attempts to derive a sentence from the grammar's start symbol,
// trying alternatives in a random order at each non-terminal and giving up
// on an alternative (backtracking to the next one) once expanding one of its
// symbols would exceed budget. budget bounds the recursion depth, the same
// role the original's SIZE parameter plays.
func (gen *Generator) Generate(budget int) (Sentence, error) {
	var out Sentence
	if !gen.expand(&out, gen.g.StartSymbol(), budget) {
		return nil, ErrBudgetExceeded
	}
	return out, nil
}

// expand appends a derivation of s to out, returning false (leaving out
// unmodified past its original length on failure) if no alternative could be
// completed within rec levels of recursion.
func (gen *Generator) expand(out *Sentence, s int, rec int) bool {
	if gen.g.IsTerminal(s) {
		*out = append(*out, s)
		return true
	}
	if rec == 0 {
		return false
	}

	sym := gen.g.GetSymbol(s)
	prods := sym.Productions
	order := gen.rng.Perm(len(prods))

	mark := len(*out)
	for _, idx := range order {
		*out = (*out)[:mark]

		p := gen.g.GetProduction(prods[idx])
		ok := true
		for _, rhsSym := range p.RHS {
			if !gen.expand(out, rhsSym, rec-1) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}

	*out = (*out)[:mark]
	return false
}

// Write renders s to w in format f, space-separated with a trailing
// newline, exactly as xg_make_random_sentence's output loop does.
func (gen *Generator) Write(w io.Writer, s Sentence, f Format) error {
	var sb strings.Builder
	for _, code := range s {
		sb.WriteString(gen.render(code, f))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

func (gen *Generator) render(code int, f Format) string {
	if f == FormatChar && code >= 2 && code <= grammar.MaxLiteral {
		return string(rune(code))
	}
	if name := gen.g.GetSymbol(code).DisplayName(); name != "" {
		return name
	}
	return strconv.Itoa(code)
}

// String renders s using FormatChar, the original generator's default
// output mode, without requiring a Writer.
func (gen *Generator) String(s Sentence) string {
	var sb strings.Builder
	if err := gen.Write(&sb, s, FormatChar); err != nil {
		// strings.Builder's Write never errors.
		panic(fmt.Sprintf("sentence: unexpected write error: %v", err))
	}
	return sb.String()
}
