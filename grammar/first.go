package grammar

// NullableSymbol reports whether sym can derive the empty string. EPSILON is
// nullable by definition; a terminal never is; a non-terminal is nullable
// once its FIRST set has been computed and contains EPSILON.
func (g *Grammar) NullableSymbol(sym int) bool {
	if sym == Epsilon {
		return true
	}
	if g.IsTerminal(sym) {
		return false
	}
	return g.GetSymbol(sym).First.Has(Epsilon)
}

// NullableForm reports whether the sentenial form (a sequence of symbols)
// can derive the empty string, which holds exactly when every symbol in the
// form is itself nullable. FIRST sets must already be computed.
func (g *Grammar) NullableForm(form []int) bool {
	for _, sym := range form {
		if !g.NullableSymbol(sym) {
			return false
		}
	}
	return true
}

// ComputeFirst computes the FIRST set of every non-terminal by fixpoint
// iteration over the production list: for a production X -> Y1 Y2 ... Yn,
// FIRST(X) gains FIRST(Yi) \ {EPSILON} for the smallest prefix of nullable
// Y1..Yi-1, and gains EPSILON itself only if every Yi is nullable (including
// the empty production). The grammar must be finalized first.
func (g *Grammar) ComputeFirst() {
	changed := true
	for changed {
		changed = false
		for _, p := range g.productions {
			ls := g.GetSymbol(p.LHS)
			if p.Len() == 0 {
				if !ls.First.Has(Epsilon) {
					ls.First.Set(Epsilon)
					changed = true
				}
				continue
			}

			allNullableSoFar := true
			for _, sym := range p.RHS {
				if g.IsTerminal(sym) {
					if !ls.First.Has(sym) {
						ls.First.Set(sym)
						changed = true
					}
					allNullableSoFar = false
					break
				}

				rs := g.GetSymbol(sym)
				if ls != rs {
					if ls.First.OrAndNotChanged(rs.First, epsilonMask) {
						changed = true
					}
				}
				if !rs.First.Has(Epsilon) {
					allNullableSoFar = false
					break
				}
			}

			if allNullableSoFar {
				if !ls.First.Has(Epsilon) {
					ls.First.Set(Epsilon)
					changed = true
				}
			}
		}
	}
}
