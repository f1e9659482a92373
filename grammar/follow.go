package grammar

// followSet extends the partial matches by what may follow the expansion in
// any context it occurs in. Matches reaching limit tokens are collected in
// overflowed, the others are returned.
//
// Every expansion entered is stamped with the generation; entering it again
// in the same generation yields nothing. A new generation starts whenever the
// partial matches have grown, which bounds the recursion on recursive
// grammars.
func (a *analysis) followSet(partial *matchSet, id ExpansionID, gen int64, overflowed *matchSet, limit int) *matchSet {
	if a.attrs.generation[id] == gen {
		return newMatchSet()
	}
	a.attrs.generation[id] = gen

	e := a.g.Expansion(id)
	if e.Parent.IsNil() {
		prod, ok := a.g.bodyOf(id)
		if !ok {
			return partial.clone()
		}
		follow := newMatchSet()
		for _, nt := range a.g.referringNonTerminals(prod.Name) {
			follow.addAll(a.followSet(partial, nt, gen, overflowed, limit))
		}
		return follow
	}

	parent := a.g.Expansion(e.Parent)
	switch parent.Kind {
	case ExpansionKindSequence:
		v := partial
		for _, sibling := range parent.Children[e.Index+1:] {
			v = a.firstSet(v, sibling, overflowed, limit, false)
			if v.size() == 0 {
				return v
			}
		}
		return a.followSplit(v, partial, parent.ID, gen, overflowed, limit)
	case ExpansionKindZeroOrMore, ExpansionKindOneOrMore:
		more := partial.clone()
		v := partial
		for {
			v = a.firstSet(v, id, overflowed, limit, false)
			if v.size() == 0 {
				break
			}
			more.addAll(v)
		}
		return a.followSplit(more, partial, parent.ID, gen, overflowed, limit)
	}
	return a.followSet(partial, parent.ID, gen, overflowed, limit)
}

// followSplit continues with the parent. Matches left unchanged keep the
// generation; grown ones start a new one.
func (a *analysis) followSplit(v, partial *matchSet, parent ExpansionID, gen int64, overflowed *matchSet, limit int) *matchSet {
	unchanged, grown := v.split(partial)
	if unchanged.size() > 0 {
		unchanged = a.followSet(unchanged, parent, gen, overflowed, limit)
	}
	if grown.size() > 0 {
		grown = a.followSet(grown, parent, a.nextGeneration(), overflowed, limit)
	}
	grown.addAll(unchanged)
	return grown
}

// overflowedFollowSet returns the token sequences of exactly limit tokens that
// may follow the expansion.
func (a *analysis) overflowedFollowSet(id ExpansionID, limit int) *matchSet {
	overflowed := newMatchSet()
	a.followSet(newMatchSet(emptyMatch), id, a.nextGeneration(), overflowed, limit)
	tracer().Debugf("FOLLOW_%v(%v) = %v", limit, id, overflowed.size())
	return overflowed
}
