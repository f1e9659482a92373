package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nihei9/lookahead/spec"
)

// checkAmbiguities reports choice points a parser cannot resolve with the
// lookahead it will use. Only warnings are produced.
func (a *analysis) checkAmbiguities() {
	if a.opts.LookaheadLimit > 1 && !a.opts.ForceLookaheadCheck {
		a.diags.warnf(CodeLookaheadCheckSkipped, semErrLookaheadCheckSkipped, spec.Position{}, "")
		return
	}

	var choices, repetitions []*Expansion
	a.g.walk(func(e *Expansion) {
		switch {
		case e.Kind == ExpansionKindChoice:
			choices = append(choices, e)
		case e.Kind.isRepetition() && !e.Lookahead.IsExplicit():
			repetitions = append(repetitions, e)
		}
	})
	for _, ch := range choices {
		a.checkChoice(ch)
	}
	for _, rep := range repetitions {
		a.checkRepetition(rep)
	}
}

// explicitLookahead reports whether an alternative is guarded by an explicit
// LOOKAHEAD. An empty alternative is never considered guarded.
func (a *analysis) explicitLookahead(id ExpansionID) bool {
	e := a.g.Expansion(id)
	return e.Kind == ExpansionKindSequence && len(e.Children) > 0 && e.Lookahead.IsExplicit()
}

// firstUncheckedChoice returns the index of the first alternative without an
// explicit lookahead. The alternatives before it resolve themselves.
func (a *analysis) firstUncheckedChoice(ch *Expansion) int {
	if a.opts.ForceLookaheadCheck {
		return 0
	}
	for i, alt := range ch.Children {
		if !a.explicitLookahead(alt) {
			return i
		}
	}
	return len(ch.Children)
}

func (a *analysis) checkChoice(ch *Expansion) {
	alts := ch.Children
	n := len(alts)
	first := a.firstUncheckedChoice(ch)
	bound := a.opts.ChoiceAmbiguityBound

	minLA := make([]int, n)
	other := make([]int, n)
	prefixes := make([]MatchInfo, n)
	left := make([]*matchSet, n)
	right := make([]*matchSet, n)
	emptyAlt := -1
	for la := 1; la <= bound; la++ {
		for i := first; i < n-1; i++ {
			left[i] = a.overflowedFirstSet(alts[i], la, !a.opts.ForceLookaheadCheck)
		}
		for i := first + 1; i < n; i++ {
			right[i] = a.overflowedFirstSet(alts[i], la, false)
		}
		if la == 1 {
			for i := first; i < n-1; i++ {
				if a.possiblyEmpty(alts[i]) {
					a.diags.warnf(CodeEmptyChoiceAlternative, semErrEmptyAlternative, a.g.Expansion(alts[i]).Pos, "")
					emptyAlt = i
					break
				}
			}
		}
		detected := false
		for i := first; i < n-1; i++ {
			if i == emptyAlt {
				continue
			}
			for j := i + 1; j < n; j++ {
				if m, ok := overlap(left[i], right[j]); ok {
					minLA[i] = la + 1
					prefixes[i] = m
					other[i] = j
					detected = true
					break
				}
			}
		}
		if !detected {
			break
		}
	}

	for i := first; i < n-1; i++ {
		if a.explicitLookahead(alts[i]) && !a.opts.ForceLookaheadCheck {
			continue
		}
		if minLA[i] <= 1 {
			continue
		}
		e1 := a.g.Expansion(alts[i])
		e2 := a.g.Expansion(alts[other[i]])
		c := &Conflict{
			Depth:     minLA[i],
			OrMore:    minLA[i] > bound,
			Positions: []spec.Position{e1.Pos, e2.Pos},
			Prefix:    a.matchImage(prefixes[i]),
		}
		d := a.diags.add(SeverityWarning, CodeAmbiguousChoice, semErrChoiceConflict, e1.Pos,
			fmt.Sprintf("at line %v, column %v and line %v, column %v respectively; a common prefix is: %v; consider using a lookahead of %v for earlier expansion",
				e1.Pos.Row, e1.Pos.Col, e2.Pos.Row, e2.Pos.Col, c.Prefix, depthText(c)))
		d.Conflict = c
	}
}

// checkRepetition compares what the body of a repetition can begin with
// against what may follow the repetition.
func (a *analysis) checkRepetition(rep *Expansion) {
	bound := a.opts.OtherAmbiguityBound
	var prefix MatchInfo
	la := 1
	for ; la <= bound; la++ {
		first := a.overflowedFirstSet(rep.Body(), la, !a.opts.ForceLookaheadCheck)
		follow := a.overflowedFollowSet(rep.ID, la)
		m, ok := overlap(first, follow)
		if !ok {
			break
		}
		prefix = m
	}
	if la <= 1 {
		return
	}
	c := &Conflict{
		Depth:     la,
		OrMore:    la > bound,
		Positions: []spec.Position{rep.Pos},
		Prefix:    a.matchImage(prefix),
		Construct: rep.Kind.String(),
	}
	d := a.diags.add(SeverityWarning, CodeAmbiguousRepetitionBoundary, semErrRepetitionConflict, rep.Pos,
		fmt.Sprintf("%v at line %v, column %v; expansion nested within construct and expansion following construct have common prefixes, one of which is: %v; consider using a lookahead of %v for nested expansion",
			c.Construct, rep.Pos.Row, rep.Pos.Col, c.Prefix, depthText(c)))
	d.Conflict = c
}

func depthText(c *Conflict) string {
	if c.OrMore {
		return strconv.Itoa(c.Depth) + " or more"
	}
	return strconv.Itoa(c.Depth)
}

// matchImage renders a match as space-separated token images.
func (a *analysis) matchImage(m MatchInfo) string {
	images := make([]string, m.Len())
	for i := 0; i < m.Len(); i++ {
		images[i] = a.tokenImage(m.At(i))
	}
	return strings.Join(images, " ")
}

// tokenImage renders a string literal quoted, a labeled token as <LABEL>, and
// any other token by its ordinal.
func (a *analysis) tokenImage(ordinal int) string {
	if ordinal == ordinalEOF {
		return "<EOF>"
	}
	if id, ok := a.tokens.ordinal2Regexp[ordinal]; ok {
		re := a.g.Regexp(id)
		if re.Kind == RegexpKindString {
			return strconv.Quote(re.Text)
		}
		if re.Label != "" {
			return "<" + re.Label + ">"
		}
	}
	if label, ok := a.tokens.ordinal2Label[ordinal]; ok {
		return "<" + label + ">"
	}
	return fmt.Sprintf("<token of kind %v>", ordinal)
}
