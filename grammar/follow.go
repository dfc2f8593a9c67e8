package grammar

// ComputeFollow computes the FOLLOW set of every non-terminal by fixpoint
// iteration, mirroring ComputeFirst's structure. EOF is seeded into
// FOLLOW(start) before the fixpoint begins. ComputeFirst must have already
// run, since this pass borrows FIRST sets while scanning each production's
// right-hand side.
func (g *Grammar) ComputeFollow() {
	g.GetSymbol(g.start).Follow.Set(EOF)

	changed := true
	for changed {
		changed = false
		for _, p := range g.productions {
			ls := g.GetSymbol(p.LHS)
			m := p.Len()
			for j := 0; j < m; j++ {
				sym := p.RHS[j]
				if g.IsTerminal(sym) {
					continue
				}
				rs := g.GetSymbol(sym)

				k := j + 1
				for ; k < m; k++ {
					next := p.RHS[k]
					if g.IsTerminal(next) {
						if !rs.Follow.Has(next) {
							rs.Follow.Set(next)
							changed = true
						}
						break
					}
					fs := g.GetSymbol(next)
					if rs.Follow.OrAndNotChanged(fs.First, epsilonMask) {
						changed = true
					}
					if !fs.First.Has(Epsilon) {
						break
					}
				}

				if k >= m && ls != rs {
					if rs.Follow.OrChanged(ls.Follow) {
						changed = true
					}
				}
			}
		}
	}
}
