// Package lr0 builds the canonical LR(0) automaton for a finalized grammar:
// item sets, closure, goto, and the dense state/transition graph every later
// pass (SLR(1), LALR(1), the code emitter) walks.
package lr0

import (
	"fmt"

	"github.com/dekarrin/xg/grammar"
)

// Item is an LR(0) item <production, dot>: the dot's position marks how much
// of the production has been recognized so far.
type Item struct {
	Prod int
	Dot  int
}

// itemSet is an ordered, duplicate-free list of items, built up during
// closure/goto before being frozen into a State.
type itemSet struct {
	items []Item
	seen  map[Item]bool
}

func newItemSet() *itemSet {
	return &itemSet{seen: map[Item]bool{}}
}

// add appends the item if it is not already present, returning true if the
// set changed (mirrors xg_lr0set_add_item's changed-or-not return value).
func (s *itemSet) add(it Item) bool {
	if s.seen[it] {
		return false
	}
	s.seen[it] = true
	s.items = append(s.items, it)
	return true
}

// closure expands s in place: for every item with the dot in front of a
// non-terminal, add the initial item <p, 0> for every production p of that
// non-terminal, skipping a non-terminal already expanded. Mirrors
// lr0set_closure's done-bitset loop, keyed by symbol code here since the
// item worklist already walks in insertion order.
func closure(g *grammar.Grammar, s *itemSet) {
	done := map[int]bool{}
	for i := 0; i < len(s.items); i++ {
		it := s.items[i]
		p := g.GetProduction(it.Prod)
		if it.Dot >= p.Len() {
			continue
		}
		sym := p.RHS[it.Dot]
		if g.IsTerminal(sym) || done[sym] {
			continue
		}
		done[sym] = true

		def := g.GetSymbol(sym)
		for _, prodIdx := range def.Productions {
			s.add(Item{Prod: prodIdx, Dot: 0})
		}
	}
}

func (it Item) String() string {
	return fmt.Sprintf("<%d,%d>", it.Prod, it.Dot)
}
