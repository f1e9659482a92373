package grammar

import (
	"sort"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/nihei9/lookahead/spec"
)

// DefaultLexicalState is the lexical state of token productions that name no
// states.
const DefaultLexicalState = "DEFAULT"

// Grammar is an arena holding productions, expansions, and regular
// expressions. It is never modified by an analysis; derived attributes live
// in the Result of each analysis.
type Grammar struct {
	prodTable        *productionTable
	exps             []*Expansion
	regexps          []*Regexp
	tokenProductions []*TokenProduction
	lexicalStates    *linkedhashset.Set

	// duplicates are productions whose name was declared before. Their
	// bodies are not built.
	duplicates []*Production

	// referrers maps a production name to the non-terminals referring to it.
	// Non-terminals inside syntactic lookahead expansions are excluded.
	referrers map[string][]ExpansionID
}

func newGrammar() *Grammar {
	g := &Grammar{
		prodTable:     newProductionTable(),
		exps:          []*Expansion{nil},
		regexps:       []*Regexp{nil},
		lexicalStates: linkedhashset.New(),
		referrers:     map[string][]ExpansionID{},
	}
	g.lexicalStates.Add(DefaultLexicalState)
	return g
}

// Productions returns the productions in declaration order.
func (g *Grammar) Productions() []*Production {
	return g.prodTable.getAll()
}

// ProductionByName returns the production having the name. The second result
// is false when no such production is defined.
func (g *Grammar) ProductionByName(name string) (*Production, bool) {
	return g.prodTable.findByName(name)
}

func (g *Grammar) Expansion(id ExpansionID) *Expansion {
	if id <= ExpansionIDNil || int(id) >= len(g.exps) {
		return nil
	}
	return g.exps[id]
}

// ExpansionCount returns the number of expansions; valid IDs are
// ExpansionIDMin to ExpansionIDMin+ExpansionCount()-1.
func (g *Grammar) ExpansionCount() int {
	return len(g.exps) - 1
}

func (g *Grammar) Regexp(id RegexpID) *Regexp {
	if id <= RegexpIDNil || int(id) >= len(g.regexps) {
		return nil
	}
	return g.regexps[id]
}

func (g *Grammar) RegexpCount() int {
	return len(g.regexps) - 1
}

// TokenProductions returns explicit and synthesized token productions in
// source order.
func (g *Grammar) TokenProductions() []*TokenProduction {
	return g.tokenProductions
}

// LexicalStates returns the defined lexical states, DEFAULT first.
func (g *Grammar) LexicalStates() []string {
	states := make([]string, 0, g.lexicalStates.Size())
	for _, v := range g.lexicalStates.Values() {
		states = append(states, v.(string))
	}
	return states
}

func (g *Grammar) isLexicalState(name string) bool {
	return g.lexicalStates.Contains(name)
}

// bodyOf returns the production whose root expansion is the expansion.
func (g *Grammar) bodyOf(id ExpansionID) (*Production, bool) {
	e := g.Expansion(id)
	if e == nil || !e.Parent.IsNil() || e.Production == nil || e.Production.Body != id {
		return nil, false
	}
	return e.Production, true
}

func (g *Grammar) referringNonTerminals(name string) []ExpansionID {
	return g.referrers[name]
}

// walk calls f for every expansion reachable from the production bodies in
// depth-first pre-order. Syntactic lookahead expansions are not visited.
func (g *Grammar) walk(f func(e *Expansion)) {
	var visit func(id ExpansionID)
	visit = func(id ExpansionID) {
		e := g.exps[id]
		f(e)
		for _, c := range e.Children {
			visit(c)
		}
	}
	for _, prod := range g.Productions() {
		visit(prod.Body)
	}
}

func (g *Grammar) newExpansion(kind ExpansionKind, prod *Production, pos spec.Position) *Expansion {
	e := &Expansion{
		ID:         ExpansionID(len(g.exps)),
		Kind:       kind,
		Production: prod,
		Pos:        pos,
	}
	g.exps = append(g.exps, e)
	return e
}

func (g *Grammar) newRegexp(kind RegexpKind, tp *TokenProduction, pos spec.Position) *Regexp {
	re := &Regexp{
		ID:              RegexpID(len(g.regexps)),
		Kind:            kind,
		TokenProduction: tp,
		Pos:             pos,
	}
	g.regexps = append(g.regexps, re)
	return re
}

func adopt(parent *Expansion, children []*Expansion) {
	for i, c := range children {
		c.Parent = parent.ID
		c.Index = i
		parent.Children = append(parent.Children, c.ID)
	}
}

type GrammarBuilder struct {
	AST *spec.RootNode

	g *Grammar
}

// Build converts the AST into a grammar. Semantic checks are left to Analyze.
func (b *GrammarBuilder) Build() (*Grammar, error) {
	b.g = newGrammar()

	for _, tpNode := range b.AST.TokenProductions {
		for _, s := range tpNode.States {
			b.g.lexicalStates.Add(s.Name)
		}
	}

	for _, tpNode := range b.AST.TokenProductions {
		b.genTokenProduction(tpNode)
	}

	for _, prodNode := range b.AST.Productions {
		prod := &Production{
			Name: prodNode.Name,
			Pos:  prodNode.Pos,
		}
		if !b.g.prodTable.append(prod) {
			b.g.duplicates = append(b.g.duplicates, prod)
			continue
		}
		body := b.genExpansion(prodNode.Body, prod, false)
		prod.Body = body.ID
	}

	// Terminals written inside productions synthesize token productions in
	// place; keep all of them in source order so ordinals follow it.
	sort.SliceStable(b.g.tokenProductions, func(i, j int) bool {
		p, q := b.g.tokenProductions[i].Pos, b.g.tokenProductions[j].Pos
		if p.Row != q.Row {
			return p.Row < q.Row
		}
		return p.Col < q.Col
	})

	tracer().Debugf("built a grammar: %v productions, %v expansions, %v regexps, %v token productions",
		b.g.prodTable.size(), b.g.ExpansionCount(), b.g.RegexpCount(), len(b.g.tokenProductions))

	return b.g, nil
}

func (b *GrammarBuilder) genTokenProduction(node *spec.TokenProductionNode) {
	tp := &TokenProduction{
		Kind:       node.Kind,
		IgnoreCase: node.IgnoreCase,
		Explicit:   true,
		Pos:        node.Pos,
	}
	if len(node.States) == 0 {
		tp.States = []string{DefaultLexicalState}
	}
	for _, s := range node.States {
		tp.States = append(tp.States, s.Name)
	}
	for _, specNode := range node.Specs {
		re := b.genRegexp(specNode.Regexp, tp)
		rs := &RegexpSpec{
			Regexp: re.ID,
			Pos:    specNode.Pos,
		}
		if specNode.NextState != nil {
			rs.NextState = specNode.NextState.Name
			rs.NextStatePos = specNode.NextState.Pos
		}
		tp.Specs = append(tp.Specs, rs)
	}
	b.g.tokenProductions = append(b.g.tokenProductions, tp)
}

func (b *GrammarBuilder) genRegexp(node *spec.RegexpNode, tp *TokenProduction) *Regexp {
	var kind RegexpKind
	switch node.Kind {
	case spec.RegexpKindString:
		kind = RegexpKindString
	case spec.RegexpKindRef:
		kind = RegexpKindRef
	case spec.RegexpKindPattern:
		kind = RegexpKindPattern
	case spec.RegexpKindSequence:
		kind = RegexpKindSequence
	case spec.RegexpKindChoice:
		kind = RegexpKindChoice
	case spec.RegexpKindZeroOrOne:
		kind = RegexpKindZeroOrOne
	case spec.RegexpKindZeroOrMore:
		kind = RegexpKindZeroOrMore
	case spec.RegexpKindOneOrMore:
		kind = RegexpKindOneOrMore
	}
	re := b.g.newRegexp(kind, tp, node.Pos)
	re.Label = node.Label
	re.Private = node.Private
	re.Text = node.Text
	for _, c := range node.Children {
		re.Children = append(re.Children, b.genRegexp(c, tp).ID)
	}
	return re
}

// genExpansion converts an expansion node. inLookahead is true inside a
// syntactic lookahead expansion, whose non-terminals are not recorded as
// referrers.
func (b *GrammarBuilder) genExpansion(node *spec.ExpansionNode, prod *Production, inLookahead bool) *Expansion {
	switch node.Kind {
	case spec.ExpansionKindTerminal:
		tp := &TokenProduction{
			Kind:   spec.TokenKindToken,
			States: []string{DefaultLexicalState},
			Pos:    node.Pos,
		}
		re := b.genRegexp(node.Regexp, tp)
		tp.Specs = []*RegexpSpec{
			{
				Regexp: re.ID,
				Pos:    node.Pos,
			},
		}
		b.g.tokenProductions = append(b.g.tokenProductions, tp)
		e := b.g.newExpansion(ExpansionKindTerminal, prod, node.Pos)
		e.Regexp = re.ID
		return e
	case spec.ExpansionKindNonTerminal:
		e := b.g.newExpansion(ExpansionKindNonTerminal, prod, node.Pos)
		e.Name = node.Name
		if !inLookahead {
			b.g.referrers[node.Name] = append(b.g.referrers[node.Name], e.ID)
		}
		return e
	case spec.ExpansionKindSequence:
		e := b.g.newExpansion(ExpansionKindSequence, prod, node.Pos)
		if node.Lookahead != nil {
			e.Lookahead = b.genLookahead(node.Lookahead, prod)
		}
		var units []*Expansion
		for _, c := range node.Children {
			units = append(units, b.genExpansion(c, prod, inLookahead))
		}
		adopt(e, units)
		return e
	case spec.ExpansionKindChoice:
		e := b.g.newExpansion(ExpansionKindChoice, prod, node.Pos)
		var alts []*Expansion
		for _, c := range node.Children {
			alt := b.genExpansion(c, prod, inLookahead)
			if alt.Kind != ExpansionKindSequence {
				seq := b.g.newExpansion(ExpansionKindSequence, prod, alt.Pos)
				adopt(seq, []*Expansion{alt})
				alt = seq
			}
			if alt.Lookahead == nil {
				alt.Lookahead = &Lookahead{
					Kind: LookaheadKindImplicit,
					Pos:  alt.Pos,
				}
			}
			alts = append(alts, alt)
		}
		if last := alts[len(alts)-1]; last.Lookahead.Kind == LookaheadKindImplicit {
			last.Lookahead.Kind = LookaheadKindAlwaysSucceeds
		}
		adopt(e, alts)
		return e
	}

	var kind ExpansionKind
	switch node.Kind {
	case spec.ExpansionKindZeroOrOne:
		kind = ExpansionKindZeroOrOne
	case spec.ExpansionKindZeroOrMore:
		kind = ExpansionKindZeroOrMore
	case spec.ExpansionKindOneOrMore:
		kind = ExpansionKindOneOrMore
	default:
		kind = ExpansionKindTryBlock
	}
	e := b.g.newExpansion(kind, prod, node.Pos)
	body := b.genExpansion(node.Children[0], prod, inLookahead)
	if kind.isRepetition() {
		if body.Kind == ExpansionKindSequence && body.Lookahead != nil {
			e.Lookahead = body.Lookahead
			body.Lookahead = nil
		} else {
			e.Lookahead = &Lookahead{
				Kind: LookaheadKindImplicit,
				Pos:  node.Pos,
			}
		}
	}
	adopt(e, []*Expansion{body})
	return e
}

func (b *GrammarBuilder) genLookahead(node *spec.LookaheadNode, prod *Production) *Lookahead {
	la := &Lookahead{
		Kind:      LookaheadKindExplicit,
		Amount:    node.Amount,
		HasAmount: node.HasAmount,
		Predicate: node.Predicate,
		Pos:       node.Pos,
	}
	if node.Expansion != nil {
		la.Nested = b.genExpansion(node.Expansion, prod, true).ID
	}
	return la
}
