package grammar

// firstSet extends every prefix by the token sequences the expansion can
// begin with. Matches reaching limit tokens go to overflowed; the others are
// returned so that the caller can keep extending them with the next
// expansion of a sequence.
//
// When considerSemantic is true, an expansion guarded by a semantic predicate
// contributes nothing: the search does not look past the predicate.
func (a *analysis) firstSet(prefixes *matchSet, id ExpansionID, overflowed *matchSet, limit int, considerSemantic bool) *matchSet {
	if prefixes.size() == 0 {
		return prefixes
	}

	e := a.g.Expansion(id)
	switch e.Kind {
	case ExpansionKindTerminal:
		ord := a.attrs.ordinal[e.Regexp]
		live := newMatchSet()
		for _, m := range prefixes.items {
			ext := m.cons(ord)
			if ext.Len() >= limit {
				overflowed.add(ext)
			} else {
				live.add(ext)
			}
		}
		return live
	case ExpansionKindChoice:
		live := newMatchSet()
		for _, alt := range e.Children {
			live.addAll(a.firstSet(prefixes, alt, overflowed, limit, considerSemantic))
		}
		return live
	case ExpansionKindSequence:
		if considerSemantic && e.Lookahead.HasSemanticPredicate() {
			return newMatchSet()
		}
		live := prefixes
		for _, u := range e.Children {
			live = a.firstSet(live, u, overflowed, limit, considerSemantic)
			if live.size() == 0 {
				break
			}
		}
		return live
	case ExpansionKindOneOrMore:
		live := newMatchSet()
		if considerSemantic && e.Lookahead.HasSemanticPredicate() {
			return live
		}
		v := prefixes
		for {
			v = a.firstSet(v, e.Body(), overflowed, limit, considerSemantic)
			if v.size() == 0 {
				break
			}
			live.addAll(v)
		}
		return live
	case ExpansionKindZeroOrMore:
		live := prefixes.clone()
		if considerSemantic && e.Lookahead.HasSemanticPredicate() {
			return live
		}
		v := prefixes
		for {
			v = a.firstSet(v, e.Body(), overflowed, limit, considerSemantic)
			if v.size() == 0 {
				break
			}
			live.addAll(v)
		}
		return live
	case ExpansionKindZeroOrOne:
		live := prefixes.clone()
		if considerSemantic && e.Lookahead.HasSemanticPredicate() {
			return live
		}
		live.addAll(a.firstSet(prefixes, e.Body(), overflowed, limit, considerSemantic))
		return live
	case ExpansionKindNonTerminal:
		prod, ok := a.g.ProductionByName(e.Name)
		if !ok {
			return newMatchSet()
		}
		return a.firstSet(prefixes, prod.Body, overflowed, limit, considerSemantic)
	case ExpansionKindTryBlock:
		return a.firstSet(prefixes, e.Body(), overflowed, limit, considerSemantic)
	}
	return prefixes
}

// overflowedFirstSet returns the token sequences of exactly limit tokens the
// expansion can begin with.
func (a *analysis) overflowedFirstSet(id ExpansionID, limit int, considerSemantic bool) *matchSet {
	overflowed := newMatchSet()
	a.firstSet(newMatchSet(emptyMatch), id, overflowed, limit, considerSemantic)
	tracer().Debugf("FIRST_%v(%v) = %v", limit, id, overflowed.size())
	return overflowed
}
