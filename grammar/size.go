package grammar

const infiniteSize = unboundedAmount

// minimumSize returns the length of the shortest token sequence the
// expansion matches. A production that derives no finite token sequence has
// infiniteSize.
func (a *analysis) minimumSize(id ExpansionID) int {
	if a.g.Expansion(id) == nil {
		return 0
	}
	a.computeProductionSizes()
	return a.expansionSize(id, true)
}

func (a *analysis) possiblyEmpty(id ExpansionID) bool {
	return a.minimumSize(id) == 0
}

// computeProductionSizes finds the minimum size of every production by
// iterating until no size decreases. Sizes start at infiniteSize.
func (a *analysis) computeProductionSizes() {
	if a.attrs.prodMinSize != nil {
		return
	}

	prods := a.g.Productions()
	a.attrs.prodMinSize = make(map[string]int, len(prods))
	for _, prod := range prods {
		a.attrs.prodMinSize[prod.Name] = infiniteSize
	}
	passes := 0
	for changed := true; changed; {
		changed = false
		passes++
		for _, prod := range prods {
			size := a.expansionSize(prod.Body, false)
			if size < a.attrs.prodMinSize[prod.Name] {
				a.attrs.prodMinSize[prod.Name] = size
				changed = true
			}
		}
	}
	tracer().Debugf("minimum sizes of %v productions settled after %v passes", len(prods), passes)
}

// expansionSize computes the size of an expansion from the current sizes of
// productions. Results are cached only once the production sizes are final.
func (a *analysis) expansionSize(id ExpansionID, final bool) int {
	if final {
		if size := a.attrs.minSize[id]; size >= 0 {
			return size
		}
	}
	size := a.computeExpansionSize(id, final)
	if final {
		a.attrs.minSize[id] = size
	}
	return size
}

func (a *analysis) computeExpansionSize(id ExpansionID, final bool) int {
	e := a.g.Expansion(id)
	if e == nil {
		return 0
	}
	switch e.Kind {
	case ExpansionKindTerminal:
		return 1
	case ExpansionKindNonTerminal:
		size, ok := a.attrs.prodMinSize[e.Name]
		if !ok {
			return infiniteSize
		}
		return size
	case ExpansionKindSequence:
		size := 0
		for _, u := range e.Children {
			size += a.expansionSize(u, final)
			if size >= infiniteSize {
				return infiniteSize
			}
		}
		return size
	case ExpansionKindChoice:
		size := infiniteSize
		for _, alt := range e.Children {
			if s := a.expansionSize(alt, final); s < size {
				size = s
			}
		}
		return size
	case ExpansionKindZeroOrOne, ExpansionKindZeroOrMore:
		return 0
	case ExpansionKindOneOrMore, ExpansionKindTryBlock:
		return a.expansionSize(e.Body(), final)
	}
	return 0
}
