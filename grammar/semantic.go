package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/nihei9/lookahead/spec"
)

// validate runs the semantic checks and assigns token ordinals. It reports
// false when any error was found; the checks of the second stage rely on
// every reference being resolved and run only after the first stage passed.
func (a *analysis) validate() bool {
	tracer().Infof("validating the grammar")

	a.checkDuplicateProductions()
	a.checkLookaheadPlacement()
	a.checkNonTerminals()
	a.checkTokenProductions()
	a.registerLabels()
	a.assignOrdinals()
	if a.opts.UserDefinedLexer {
		a.resolveUserDefinedReferences()
	} else {
		a.resolveReferences()
	}
	if a.diags.errorCount() > 0 {
		return false
	}

	a.checkEmptyRepetitions()
	a.checkLeftRecursion()
	if !a.opts.UserDefinedLexer {
		a.checkSelfReferences()
	}
	return a.diags.errorCount() == 0
}

func (a *analysis) checkDuplicateProductions() {
	for _, prod := range a.g.duplicates {
		a.diags.errorf(CodeDuplicateDefinition, semErrDuplicateProduction, prod.Pos, "%v", prod.Name)
	}
}

func (a *analysis) checkLookaheadPlacement() {
	for _, e := range a.g.exps[ExpansionIDMin:] {
		if e.Kind != ExpansionKindSequence || !e.Lookahead.IsExplicit() {
			continue
		}
		if parent := a.g.Expansion(e.Parent); parent != nil && parent.Kind == ExpansionKindChoice {
			continue
		}
		a.diags.errorf(CodeMisplacedLookahead, semErrMisplacedLookahead, e.Lookahead.Pos, "")
	}
}

func (a *analysis) checkNonTerminals() {
	for _, e := range a.g.exps[ExpansionIDMin:] {
		if e.Kind != ExpansionKindNonTerminal {
			continue
		}
		if _, ok := a.g.ProductionByName(e.Name); !ok {
			a.diags.errorf(CodeUndefinedReference, semErrUndefinedNonTerminal, e.Pos, "%v", e.Name)
		}
	}
}

// checkTokenProductions checks next states and the specs that take no part
// in lexing.
func (a *analysis) checkTokenProductions() {
	for _, tp := range a.g.tokenProductions {
		for _, rs := range tp.Specs {
			re := a.g.Regexp(rs.Regexp)
			if rs.NextState != "" && !a.g.isLexicalState(rs.NextState) {
				a.diags.errorf(CodeUndefinedReference, semErrUndefinedLexicalState, rs.NextStatePos, "%v", rs.NextState)
			}
			switch {
			case tp.Explicit && a.opts.UserDefinedLexer:
				a.diags.warnf(CodeIgnoredTokenSpec, semErrIgnoredTokenSpec, re.Pos, "")
			case tp.Explicit && re.Kind == RegexpKindRef && re.Label == "":
				a.diags.warnf(CodeIgnoredTokenSpec, semErrFreeStandingRef, re.Pos, "<%v>", re.Text)
				a.attrs.ignored[re.ID] = true
			case !tp.Explicit && re.Private:
				a.diags.errorf(CodeInvalidTokenReference, semErrPrivateInline, re.Pos, "%v", re.Label)
			}
		}
	}
}

// isDefinition reports whether a top-level regexp defines a token rather than
// referring to one. A labeled reference like <A: <B>> is a definition.
func isDefinition(re *Regexp) bool {
	return re.Kind != RegexpKindRef || re.Label != ""
}

func (a *analysis) registerLabels() {
	for _, tp := range a.g.tokenProductions {
		for _, rs := range tp.Specs {
			re := a.g.Regexp(rs.Regexp)
			if !isDefinition(re) || re.Label == "" {
				continue
			}
			if prev, ok := a.tokens.addNamed(re.Label, re.ID); !ok {
				a.diags.errorf(CodeDuplicateDefinition, semErrDuplicateLabel, re.Pos, "%v; previously defined at %v", re.Label, a.g.Regexp(prev).Pos)
			}
			if a.g.isLexicalState(re.Label) {
				a.diags.errorf(CodeDuplicateDefinition, semErrLabelIsLexicalState, re.Pos, "%v", re.Label)
			}
		}
	}
}

// assignOrdinals numbers token definitions in source order. String literals
// are merged per lexical state; a literal written inside a production reuses
// the ordinal of an identical TOKEN literal defined earlier.
func (a *analysis) assignOrdinals() {
	for _, tp := range a.g.tokenProductions {
		for _, rs := range tp.Specs {
			re := a.g.Regexp(rs.Regexp)
			if !isDefinition(re) {
				continue
			}
			if re.Kind == RegexpKindString {
				for _, state := range tp.States {
					a.mergeStringLiteral(tp, re, state)
				}
			} else {
				a.attrs.ordinal[re.ID] = a.tokens.newOrdinal()
			}
			ord := a.attrs.ordinal[re.ID]
			if ord < 0 {
				continue
			}
			if re.Label != "" {
				a.tokens.ordinal2Label[ord] = re.Label
			}
			if _, ok := a.tokens.ordinal2Regexp[ord]; !ok {
				a.tokens.ordinal2Regexp[ord] = re.ID
			}
		}
	}
}

func (a *analysis) assignOrdinalIfUnset(re *Regexp) {
	if a.attrs.ordinal[re.ID] < 0 {
		a.attrs.ordinal[re.ID] = a.tokens.newOrdinal()
	}
}

func (a *analysis) mergeStringLiteral(tp *TokenProduction, re *Regexp, state string) {
	group, ok := a.tokens.literalGroup(state, re.Text)
	if !ok {
		a.assignOrdinalIfUnset(re)
		group = a.tokens.newLiteralGroup(state, re.Text)
		group.Put(re.Text, re.ID)
		return
	}

	if other, ok := a.ignoreCaseDefinition(group, re.Text); ok {
		if !tp.Explicit {
			a.diags.errorf(CodeDuplicateDefinition, semErrShadowedByIgnoreCase, re.Pos, "%q is shadowed by the definition at %v", re.Text, other.Pos)
		} else {
			a.diags.errorf(CodeDuplicateDefinition, semErrDuplicateString, re.Pos, "%q can never be matched", re.Text)
		}
		return
	}

	if tp.IgnoreCase {
		var rows []string
		for _, v := range group.Values() {
			rows = append(rows, fmt.Sprintf("line %v", a.g.Regexp(v.(RegexpID)).Pos.Row))
		}
		a.diags.warnf(CodeDuplicateDefinition, semErrPartiallySuperseded, re.Pos, "%q is superseded by the strings at %v", re.Text, strings.Join(rows, ", "))
		a.assignOrdinalIfUnset(re)
		group.Put(re.Text, re.ID)
		return
	}

	v, ok := group.Get(re.Text)
	if !ok {
		a.assignOrdinalIfUnset(re)
		group.Put(re.Text, re.ID)
		return
	}
	existing := a.g.Regexp(v.(RegexpID))
	switch {
	case tp.Explicit:
		if state == DefaultLexicalState {
			a.diags.errorf(CodeDuplicateDefinition, semErrDuplicateString, re.Pos, "%q", re.Text)
		} else {
			a.diags.errorf(CodeDuplicateDefinition, semErrDuplicateString, re.Pos, "%q in lexical state %v", re.Text, state)
		}
	case existing.TokenProduction.Kind != spec.TokenKindToken:
		a.diags.errorf(CodeDuplicateDefinition, semErrStringDefinedAsNonToken, re.Pos, "%q has been defined as a %v token", re.Text, existing.TokenProduction.Kind)
	case existing.Private:
		a.diags.errorf(CodeDuplicateDefinition, semErrStringDefinedAsPrivate, re.Pos, "%q", re.Text)
	default:
		a.attrs.ordinal[re.ID] = a.attrs.ordinal[existing.ID]
		a.attrs.merged[re.ID] = true
	}
}

// ignoreCaseDefinition returns a definition of the group made with
// IGNORE_CASE, unless the image itself is defined case-sensitively.
func (a *analysis) ignoreCaseDefinition(group *linkedhashmap.Map, image string) (*Regexp, bool) {
	if v, ok := group.Get(image); ok && !a.g.Regexp(v.(RegexpID)).TokenProduction.IgnoreCase {
		return nil, false
	}
	for _, v := range group.Values() {
		re := a.g.Regexp(v.(RegexpID))
		if re.TokenProduction.IgnoreCase {
			return re, true
		}
	}
	return nil, false
}

// resolveReferences links every <LABEL> to its definition. References
// written inside productions must denote public TOKEN definitions.
func (a *analysis) resolveReferences() {
	for _, re := range a.g.regexps[RegexpIDMin:] {
		if re.Kind != RegexpKindRef {
			continue
		}
		target, ok := a.tokens.named(re.Text)
		if !ok {
			if re.Text == labelEOF {
				a.attrs.ordinal[re.ID] = ordinalEOF
				continue
			}
			a.diags.errorf(CodeUndefinedReference, semErrUndefinedToken, re.Pos, "%v", re.Text)
			continue
		}
		def := a.g.Regexp(target)
		if !re.TokenProduction.Explicit {
			if def.Private {
				a.diags.errorf(CodeInvalidTokenReference, semErrRefToPrivate, re.Pos, "%v", re.Text)
				continue
			}
			if def.TokenProduction.Kind != spec.TokenKindToken {
				a.diags.errorf(CodeInvalidTokenReference, semErrRefToNonToken, re.Pos, "%v", re.Text)
				continue
			}
		}
		a.attrs.refTarget[re.ID] = target
		if re.Label == "" {
			a.attrs.ordinal[re.ID] = a.attrs.ordinal[target]
		}
	}
}

// resolveUserDefinedReferences gives ordinals to top-level references. A
// reference without a definition becomes a token of its own.
func (a *analysis) resolveUserDefinedReferences() {
	for _, tp := range a.g.tokenProductions {
		for _, rs := range tp.Specs {
			re := a.g.Regexp(rs.Regexp)
			if isDefinition(re) {
				continue
			}
			if target, ok := a.tokens.named(re.Text); ok {
				a.attrs.refTarget[re.ID] = target
				a.attrs.ordinal[re.ID] = a.attrs.ordinal[target]
				continue
			}
			if re.Text == labelEOF {
				a.attrs.ordinal[re.ID] = ordinalEOF
				continue
			}
			ord := a.tokens.newOrdinal()
			a.attrs.ordinal[re.ID] = ord
			a.tokens.addNamed(re.Text, re.ID)
			a.tokens.ordinal2Label[ord] = re.Text
			a.tokens.ordinal2Regexp[ord] = re.ID
		}
	}
	for _, tp := range a.g.tokenProductions {
		for _, rs := range tp.Specs {
			re := a.g.Regexp(rs.Regexp)
			if _, ok := a.tokens.ordinal2Label[a.attrs.ordinal[re.ID]]; !ok {
				a.diags.warnf(CodeUnlabeledToken, semErrUnlabeledToken, re.Pos, "")
			}
		}
	}
}

// checkSelfReferences finds definitions that reach themselves through
// references.
func (a *analysis) checkSelfReferences() {
	done := map[RegexpID]bool{}
	visiting := map[RegexpID]bool{}
	var visit func(id RegexpID)
	visit = func(id RegexpID) {
		re := a.g.Regexp(id)
		if re.Kind == RegexpKindRef {
			target := a.attrs.refTarget[id]
			if target.IsNil() || done[target] {
				return
			}
			if visiting[target] {
				done[target] = true
				a.diags.errorf(CodeSelfReferentialDefinition, semErrSelfReference, re.Pos, "<%v> refers to itself", re.Text)
				return
			}
			visiting[target] = true
			visit(target)
			delete(visiting, target)
			done[target] = true
			return
		}
		for _, c := range re.Children {
			visit(c)
		}
	}
	for _, tp := range a.g.tokenProductions {
		for _, rs := range tp.Specs {
			re := a.g.Regexp(rs.Regexp)
			if !isDefinition(re) || done[re.ID] {
				continue
			}
			visiting[re.ID] = true
			if re.Kind == RegexpKindRef {
				visit(re.ID)
			} else {
				for _, c := range re.Children {
					visit(c)
				}
			}
			delete(visiting, re.ID)
			done[re.ID] = true
		}
	}
}

func (a *analysis) checkEmptyRepetitions() {
	for _, e := range a.g.exps[ExpansionIDMin:] {
		if !e.Kind.isRepetition() {
			continue
		}
		if a.possiblyEmpty(e.Body()) {
			a.diags.errorf(CodeAlwaysEmptyRepetition, semErrEmptyRepetition, e.Pos, "%v", e.Kind)
		}
	}
}

// checkLeftRecursion reports productions that can reach themselves without
// consuming a token. Each cycle is reported once, at the production where
// the search entered it.
func (a *analysis) checkLeftRecursion() {
	const (
		unvisited = iota
		inProgress
		finished
	)
	state := map[string]int{}
	var path []string
	var visit func(prod *Production)
	visit = func(prod *Production) {
		state[prod.Name] = inProgress
		path = append(path, prod.Name)
		for _, name := range a.leftmostNonTerminals(prod.Body) {
			next, ok := a.g.ProductionByName(name)
			if !ok {
				continue
			}
			switch state[name] {
			case unvisited:
				visit(next)
			case inProgress:
				var cycle []string
				for i := len(path) - 1; i >= 0; i-- {
					if path[i] == name {
						cycle = append(cycle, path[i:]...)
						break
					}
				}
				cycle = append(cycle, name)
				a.diags.errorf(CodeLeftRecursion, semErrLeftRecursion, next.Pos, "%v", strings.Join(cycle, " --> "))
			}
		}
		path = path[:len(path)-1]
		state[prod.Name] = finished
	}
	for _, prod := range a.g.Productions() {
		if state[prod.Name] == unvisited {
			visit(prod)
		}
	}
}

// leftmostNonTerminals returns the names of the non-terminals that may be
// the first thing the expansion matches.
func (a *analysis) leftmostNonTerminals(id ExpansionID) []string {
	e := a.g.Expansion(id)
	switch e.Kind {
	case ExpansionKindNonTerminal:
		return []string{e.Name}
	case ExpansionKindSequence:
		var names []string
		for _, u := range e.Children {
			names = append(names, a.leftmostNonTerminals(u)...)
			if !a.possiblyEmpty(u) {
				break
			}
		}
		return names
	case ExpansionKindChoice:
		var names []string
		for _, alt := range e.Children {
			names = append(names, a.leftmostNonTerminals(alt)...)
		}
		return names
	case ExpansionKindZeroOrOne, ExpansionKindZeroOrMore, ExpansionKindOneOrMore, ExpansionKindTryBlock:
		return a.leftmostNonTerminals(e.Body())
	}
	return nil
}
