package lr0

import (
	"sort"

	"github.com/cnf/structhash"
	"github.com/dekarrin/xg/grammar"
	"github.com/emirpasic/gods/stacks/linkedliststack"
)

// Trans is one labeled edge of the automaton: state Src, on symbol Sym,
// goes to state Dst. ID is the transition's dense index in the DFA's flat
// transition table, the same indexing lalr's DR/reads/includes relations
// key off of.
type Trans struct {
	ID  int
	Src int
	Dst int
	Sym int
}

// State is one canonical LR(0) state: its full (closed) item set plus the
// outgoing transition ids, in the order goto was computed.
type State struct {
	ID          int
	Items       []Item // closed, canonically sorted
	Kernel      []Item // the items that originally produced this state, pre-closure
	Transitions []int  // indices into Automaton.Transitions
	Access      int    // symbol the state is entered on; grammar.Epsilon for state 0
	Accept      bool   // true iff this state's kernel completes the augmenting production
}

// TransOn returns the id of the outgoing transition on sym, or -1 if none.
func (s *State) TransOn(dfa *Automaton, sym int) int {
	for _, tid := range s.Transitions {
		if dfa.Transitions[tid].Sym == sym {
			return tid
		}
	}
	return -1
}

// Automaton is the canonical collection of LR(0) states and transitions.
type Automaton struct {
	States      []*State
	Transitions []*Trans
}

// Build constructs the canonical LR(0) automaton for g, which must already
// be finalized (so that production 0 is the augmented start production).
// Mirrors lr0set_closure's per-state closure loop plus a worklist goto
// construction: states are discovered from the initial state <0,0> through a
// last-in-first-out worklist, numbered as they are discovered, deduplicated
// by exact canonical item-set equality, and linked by dense transition ids
// in discovery order.
func Build(g *grammar.Grammar) *Automaton {
	a := &Automaton{}

	initial := newItemSet()
	initial.add(Item{Prod: 0, Dot: 0})
	closure(g, initial)

	byFingerprint := map[string][]int{} // structhash digest -> candidate state ids

	addState := func(kernel []Item, access int) int {
		closed := newItemSet()
		for _, it := range kernel {
			closed.add(it)
		}
		closure(g, closed)

		canon := canonicalize(closed.items)
		digest := digestOf(canon)

		for _, candidate := range byFingerprint[digest] {
			if itemsEqual(a.States[candidate].Items, canon) {
				return candidate
			}
		}

		id := len(a.States)
		st := &State{ID: id, Items: canon, Kernel: canonicalize(kernel), Access: access}
		a.States = append(a.States, st)
		byFingerprint[digest] = append(byFingerprint[digest], id)
		return id
	}

	addState(initial.items, grammar.Epsilon)

	worklist := linkedliststack.New()
	worklist.Push(0)

	for !worklist.Empty() {
		v, _ := worklist.Pop()
		stateID := v.(int)
		state := a.States[stateID]

		// Group kernel items for each outgoing goto by the symbol after
		// the dot, in first-seen order, so transition ids are assigned
		// deterministically.
		var order []int
		kernels := map[int][]Item{}
		for _, it := range state.Items {
			p := g.GetProduction(it.Prod)
			if it.Dot >= p.Len() {
				continue
			}
			sym := p.RHS[it.Dot]
			if _, ok := kernels[sym]; !ok {
				order = append(order, sym)
			}
			kernels[sym] = append(kernels[sym], Item{Prod: it.Prod, Dot: it.Dot + 1})
		}

		for _, sym := range order {
			before := len(a.States)
			dst := addState(kernels[sym], sym)
			if dst >= before {
				worklist.Push(dst)
			}

			tid := len(a.Transitions)
			a.Transitions = append(a.Transitions, &Trans{ID: tid, Src: stateID, Dst: dst, Sym: sym})
			state.Transitions = append(state.Transitions, tid)
		}
	}

	markAccept(g, a)

	return a
}

// markAccept flags the state whose item set contains the completed
// augmenting item <0, len(RHS)> (i.e. S' -> S EOF .) as the accept state.
// Per the augmenting production's role, this state is never given a
// reduce-by-0 action; the emitter jumps straight to its accept label
// instead (see conflicts.c's handling of xg_lr0state::accept upstream).
func markAccept(g *grammar.Grammar, a *Automaton) {
	augmented := g.GetProduction(0)
	finalDot := augmented.Len()
	for _, st := range a.States {
		for _, it := range st.Items {
			if it.Prod == 0 && it.Dot == finalDot {
				st.Accept = true
			}
		}
	}
}

// canonicalize returns items sorted into their canonical order (dot
// ascending, then production descending), the "Canonical state equality"
// representation every later pass and the emitter both rely on for stable
// output.
func canonicalize(items []Item) []Item {
	out := append([]Item(nil), items...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dot != out[j].Dot {
			return out[i].Dot < out[j].Dot
		}
		return out[i].Prod > out[j].Prod
	})
	return out
}

func itemsEqual(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// digestOf computes a structural fingerprint of a canonical item list, used
// only as a map bucket key to cut down the number of exact comparisons a
// new candidate state needs against existing states; it is never the sole
// arbiter of state identity.
func digestOf(items []Item) string {
	h, err := structhash.Hash(items, 1)
	if err != nil {
		// structhash only fails on unsupported types; []Item of two ints
		// is always hashable, so this path is unreachable in practice.
		// Fall back to a bucket that forces exact comparison against
		// every state sharing it.
		return "fallback"
	}
	return h
}
