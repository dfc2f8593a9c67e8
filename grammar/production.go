package grammar

import "strings"

// Production is a single grammar rule: LHS -> RHS[0] RHS[1] ... RHS[n-1],
// or an epsilon production when RHS is empty. Index is dense and assigned by
// the owning Grammar; index 0 is reserved for the automatically-generated
// augmenting production once the grammar is finalized.
type Production struct {
	Index           int
	LHS             int
	RHS             []int
	PrecedenceToken int // defaults to Epsilon until resolved at finalize
}

// Len returns the number of right-hand-side symbols (0 for an epsilon
// production).
func (p *Production) Len() int {
	return len(p.RHS)
}

// String renders the production using g's symbol display names, e.g.
// "E -> E '+' T".
func (p *Production) String(g *Grammar) string {
	var sb strings.Builder
	sb.WriteString(g.GetSymbol(p.LHS).DisplayName())
	sb.WriteString(" ->")
	if len(p.RHS) == 0 {
		sb.WriteString(" /* empty */")
	}
	for _, sym := range p.RHS {
		sb.WriteByte(' ')
		sb.WriteString(g.GetSymbol(sym).DisplayName())
	}
	return sb.String()
}

// DotString renders the production with a dot inserted before RHS[dot], used
// for LR(0) item debug output.
func (p *Production) DotString(g *Grammar, dot int) string {
	var sb strings.Builder
	sb.WriteString(g.GetSymbol(p.LHS).DisplayName())
	sb.WriteString(" ->")
	for i, sym := range p.RHS {
		if i == dot {
			sb.WriteString(" .")
		}
		sb.WriteByte(' ')
		sb.WriteString(g.GetSymbol(sym).DisplayName())
	}
	if dot == len(p.RHS) {
		sb.WriteString(" .")
	}
	return sb.String()
}
