package lookahead

import (
	"math"

	"github.com/dekarrin/xg/internal/util"
	"github.com/emirpasic/gods/stacks/linkedliststack"
)

// unvisited and popped are the sentinel stack-depth markers digraphVisit
// uses to tell "never visited" (0, since real stack depths start at 1) apart
// from "already resolved as part of a completed SCC" (popped). popped must
// compare larger than any real stack depth, mirroring the original's use of
// ~0U as an unsigned sentinel: a resolved node must never look shallower
// than the node currently probing it.
const (
	unvisited = 0
	popped    = math.MaxInt
)

// digraphState is the bookkeeping digraphVisit threads through a single
// digraph run: per-node relation edges, per-node accumulated value, the
// Tarjan-style root/depth array, and the explicit SCC candidate stack.
type digraphState struct {
	rel   [][]int
	value []*util.Bitset
	root  []int
	stack *linkedliststack.Stack
}

// runDigraph computes, for every node x with a non-nil value, the function
//
//	F(x) = F'(x) ∪ ⋃{ F(y) | x R y }
//
// over the relation described by rel, where F'(x) is the caller-seeded
// value[x] before this call. This is DeRemer-Pennello's digraph algorithm,
// used twice: once over the "reads" relation to get Read sets from DR sets,
// once over the "includes" relation to get Follow sets from Read sets.
func runDigraph(rel [][]int, value []*util.Bitset) {
	st := &digraphState{
		rel:   rel,
		value: value,
		root:  make([]int, len(rel)),
		stack: linkedliststack.New(),
	}
	for i := range rel {
		if st.root[i] == unvisited && st.value[i] != nil {
			digraphVisit(st, i)
		}
	}
}

func digraphVisit(st *digraphState, no int) {
	st.stack.Push(no)
	d := st.stack.Size()
	st.root[no] = d

	for _, next := range st.rel[no] {
		if st.root[next] == unvisited {
			digraphVisit(st, next)
		}
		if st.root[next] < st.root[no] {
			st.root[no] = st.root[next]
		}
		st.value[no].Or(st.value[next])
	}

	// the comparison is against the push-time depth, not the current stack
	// size: an SCC's non-root members are still piled above the root here.
	if st.root[no] == d {
		// NO is the root of a completed SCC: pop every member accumulated
		// above it on the stack and give each the root's now-stable value.
		for {
			v, _ := st.stack.Pop()
			n := v.(int)
			st.root[n] = popped
			if n != no {
				st.value[n] = st.value[no].Copy()
			}
			if n == no {
				break
			}
		}
	}
}
