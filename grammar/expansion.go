package grammar

import (
	"math"

	"github.com/nihei9/lookahead/spec"
)

// ExpansionID is a handle of an expansion in the arena of a grammar.
type ExpansionID int

const (
	// ExpansionIDNil represents the absence of an expansion. Valid IDs start
	// at ExpansionIDMin.
	ExpansionIDNil = ExpansionID(0)
	ExpansionIDMin = ExpansionID(1)
)

func (id ExpansionID) Int() int {
	return int(id)
}

func (id ExpansionID) IsNil() bool {
	return id == ExpansionIDNil
}

type ExpansionKind int

const (
	ExpansionKindTerminal ExpansionKind = iota + 1
	ExpansionKindNonTerminal
	ExpansionKindSequence
	ExpansionKindChoice
	ExpansionKindZeroOrOne
	ExpansionKindZeroOrMore
	ExpansionKindOneOrMore
	ExpansionKindTryBlock
)

func (k ExpansionKind) String() string {
	switch k {
	case ExpansionKindTerminal:
		return "terminal"
	case ExpansionKindNonTerminal:
		return "non-terminal"
	case ExpansionKindSequence:
		return "sequence"
	case ExpansionKindChoice:
		return "choice"
	case ExpansionKindZeroOrOne:
		return "[...]"
	case ExpansionKindZeroOrMore:
		return "(...)*"
	case ExpansionKindOneOrMore:
		return "(...)+"
	case ExpansionKindTryBlock:
		return "try(...)"
	}
	return "unknown"
}

func (k ExpansionKind) isRepetition() bool {
	return k == ExpansionKindZeroOrOne || k == ExpansionKindZeroOrMore || k == ExpansionKindOneOrMore
}

// Expansion is a node of a production body.
//
// Children holds the units of a sequence, the alternatives of a choice, and
// the body of a repetition or a try block. Parent is ExpansionIDNil for the
// body of a production and for a syntactic lookahead expansion; the former
// is distinguished by Production.Body.
type Expansion struct {
	ID         ExpansionID
	Kind       ExpansionKind
	Regexp     RegexpID
	Name       string
	Children   []ExpansionID
	Lookahead  *Lookahead
	Parent     ExpansionID
	Index      int
	Production *Production
	Pos        spec.Position
}

// Body returns the nested expansion of a repetition or a try block.
func (e *Expansion) Body() ExpansionID {
	if len(e.Children) == 0 {
		return ExpansionIDNil
	}
	return e.Children[0]
}

type LookaheadKind int

const (
	LookaheadKindImplicit LookaheadKind = iota + 1
	LookaheadKindAlwaysSucceeds
	LookaheadKindExplicit
)

func (k LookaheadKind) String() string {
	switch k {
	case LookaheadKindImplicit:
		return "implicit"
	case LookaheadKindAlwaysSucceeds:
		return "always-succeeds"
	case LookaheadKindExplicit:
		return "explicit"
	}
	return "unknown"
}

// unboundedAmount is the amount of a syntactic lookahead written without a
// number; the nested expansion is scanned to its end.
const unboundedAmount = math.MaxInt32

// Lookahead guards a choice alternative or a repetition.
type Lookahead struct {
	Kind      LookaheadKind
	Amount    int
	HasAmount bool
	Nested    ExpansionID
	Predicate string
	Pos       spec.Position
}

func (la *Lookahead) IsExplicit() bool {
	return la != nil && la.Kind == LookaheadKindExplicit
}

func (la *Lookahead) HasSemanticPredicate() bool {
	return la != nil && la.Predicate != ""
}

// AlwaysSucceeds reports whether the lookahead can never reject its
// expansion. LOOKAHEAD(0) without a syntactic expansion or a predicate
// behaves the same as the last alternative of a choice.
func (la *Lookahead) AlwaysSucceeds() bool {
	if la == nil {
		return false
	}
	if la.Kind == LookaheadKindAlwaysSucceeds {
		return true
	}
	return la.Kind == LookaheadKindExplicit && la.HasAmount && la.Amount == 0 && la.Nested.IsNil() && la.Predicate == ""
}

// amount returns the number of tokens the lookahead scans. Implicit
// lookaheads scan as many tokens as the configured limit.
func (la *Lookahead) amount(limit int) int {
	switch {
	case la.Kind != LookaheadKindExplicit:
		return limit
	case la.HasAmount:
		return la.Amount
	case !la.Nested.IsNil():
		return unboundedAmount
	}
	return 0
}

// requiresPhase2Routine reports whether a runtime scan routine is needed to
// evaluate the lookahead.
func (la *Lookahead) requiresPhase2Routine(limit int) bool {
	if la == nil || la.AlwaysSucceeds() {
		return false
	}
	return la.amount(limit) > 1 || !la.Nested.IsNil() || !la.HasSemanticPredicate()
}
