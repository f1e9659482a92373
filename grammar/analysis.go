package grammar

import (
	"errors"
	"fmt"
)

var ErrInvalidOptions = errors.New("invalid options")

// Options bundles the settings of an analysis.
type Options struct {
	// LookaheadLimit is the number of tokens an implicit lookahead scans.
	LookaheadLimit int

	// ChoiceAmbiguityBound is the largest depth tried when resolving a
	// choice conflict.
	ChoiceAmbiguityBound int

	// OtherAmbiguityBound is the largest depth tried when resolving a
	// conflict between a repetition and what follows it.
	OtherAmbiguityBound int

	// ForceLookaheadCheck runs the ambiguity analysis even when the
	// lookahead limit is more than 1, and disregards explicit lookaheads
	// and semantic predicates while doing so.
	ForceLookaheadCheck bool

	// UserDefinedLexer skips token reference validation; references to
	// unknown labels get fresh ordinals instead.
	UserDefinedLexer bool
}

func DefaultOptions() *Options {
	return &Options{
		LookaheadLimit:       1,
		ChoiceAmbiguityBound: 2,
		OtherAmbiguityBound:  1,
	}
}

func (o *Options) validate() error {
	if o.LookaheadLimit < 1 {
		return fmt.Errorf("%w: the lookahead limit must be greater than or equal to 1; got: %v", ErrInvalidOptions, o.LookaheadLimit)
	}
	if o.ChoiceAmbiguityBound < 1 {
		return fmt.Errorf("%w: the choice ambiguity bound must be greater than or equal to 1; got: %v", ErrInvalidOptions, o.ChoiceAmbiguityBound)
	}
	if o.OtherAmbiguityBound < 1 {
		return fmt.Errorf("%w: the other ambiguity bound must be greater than or equal to 1; got: %v", ErrInvalidOptions, o.OtherAmbiguityBound)
	}
	return nil
}

type Option func(opts *Options)

func LookaheadLimit(n int) Option {
	return func(opts *Options) {
		opts.LookaheadLimit = n
	}
}

func ChoiceAmbiguityBound(n int) Option {
	return func(opts *Options) {
		opts.ChoiceAmbiguityBound = n
	}
}

func OtherAmbiguityBound(n int) Option {
	return func(opts *Options) {
		opts.OtherAmbiguityBound = n
	}
}

func ForceLookaheadCheck() Option {
	return func(opts *Options) {
		opts.ForceLookaheadCheck = true
	}
}

func UserDefinedLexer() Option {
	return func(opts *Options) {
		opts.UserDefinedLexer = true
	}
}

// attributes is the side table of an analysis. Slices indexed by
// ExpansionID or RegexpID have one unused leading element.
type attributes struct {
	ordinal   []int
	refTarget []RegexpID

	// merged marks string literals that reuse the ordinal of an earlier
	// identical literal.
	merged []bool

	// ignored marks top-level regexps whose spec takes no part in lexing.
	ignored []bool

	minSize      []int
	prodMinSize  map[string]int
	phase2       []string
	phase3       []string
	phase3Amount []int
	generation   []int64
}

func newAttributes(g *Grammar) *attributes {
	nExp := len(g.exps)
	nRe := len(g.regexps)
	attrs := &attributes{
		ordinal:      make([]int, nRe),
		refTarget:    make([]RegexpID, nRe),
		merged:       make([]bool, nRe),
		ignored:      make([]bool, nRe),
		minSize:      make([]int, nExp),
		phase2:       make([]string, nExp),
		phase3:       make([]string, nExp),
		phase3Amount: make([]int, nExp),
		generation:   make([]int64, nExp),
	}
	for i := range attrs.ordinal {
		attrs.ordinal[i] = -1
	}
	for i := range attrs.minSize {
		attrs.minSize[i] = -1
	}
	return attrs
}

// analysis holds the state of a single run of Analyze.
type analysis struct {
	g      *Grammar
	opts   *Options
	attrs  *attributes
	tokens *tokenTable
	diags  *diagnostics

	generation int64
	gensym     int

	phase2 []*LookaheadRoutine
	phase3 []*LookaheadRoutine
}

// nextGeneration returns a generation stamp never returned before in this
// analysis.
func (a *analysis) nextGeneration() int64 {
	a.generation++
	return a.generation
}

// LookaheadRoutine is a request to generate a lookahead routine for an
// expansion scanning at least Amount tokens.
type LookaheadRoutine struct {
	Name      string
	Expansion ExpansionID
	Amount    int
}

// Result is the outcome of an analysis. The derived attributes it answers
// are specific to this run; the grammar itself is left untouched.
type Result struct {
	Grammar     *Grammar
	Options     Options
	Diagnostics []*Diagnostic

	// Phase2 and Phase3 are nil when the grammar has errors.
	Phase2 []*LookaheadRoutine
	Phase3 []*LookaheadRoutine

	a *analysis
}

// Analyze validates the grammar and, when it is valid, computes the lookahead
// routine worklists and checks the lookahead adequacy of every choice point.
// A non-nil error is either a configuration error wrapping ErrInvalidOptions,
// in which case the result is nil, or a verr.SpecErrors listing the errors
// found in the grammar.
func Analyze(g *Grammar, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	err := o.validate()
	if err != nil {
		return nil, err
	}

	a := &analysis{
		g:      g,
		opts:   o,
		attrs:  newAttributes(g),
		tokens: newTokenTable(),
		diags:  &diagnostics{},
	}
	res := &Result{
		Grammar: g,
		Options: *o,
		a:       a,
	}
	defer func() {
		res.Diagnostics = a.diags.list
	}()

	if !a.validate() {
		return res, a.diags.specErrors()
	}
	if !o.UserDefinedLexer && !a.checkLexicalPatterns() {
		return res, a.diags.specErrors()
	}

	tracer().Infof("assigning lookahead routines")
	a.assignRoutines()
	res.Phase2 = a.phase2
	res.Phase3 = a.phase3

	tracer().Infof("checking lookahead adequacy")
	a.checkAmbiguities()

	return res, nil
}

func (r *Result) ErrorCount() int {
	return r.count(func(d *Diagnostic) bool {
		return d.Severity == SeverityError
	})
}

func (r *Result) WarningCount() int {
	return r.count(func(d *Diagnostic) bool {
		return d.Severity == SeverityWarning
	})
}

// Count returns the number of diagnostics of a category.
func (r *Result) Count(code DiagnosticCode) int {
	return r.count(func(d *Diagnostic) bool {
		return d.Code == code
	})
}

func (r *Result) count(pred func(d *Diagnostic) bool) int {
	n := 0
	for _, d := range r.Diagnostics {
		if pred(d) {
			n++
		}
	}
	return n
}

// Ordinal returns the ordinal of the token a terminal expansion matches, or
// -1 when the expansion is not a terminal or has no ordinal.
func (r *Result) Ordinal(id ExpansionID) int {
	e := r.Grammar.Expansion(id)
	if e == nil || e.Kind != ExpansionKindTerminal {
		return -1
	}
	return r.a.attrs.ordinal[e.Regexp]
}

// RegexpOrdinal returns the ordinal of a regular expression, or -1.
func (r *Result) RegexpOrdinal(id RegexpID) int {
	if r.Grammar.Regexp(id) == nil {
		return -1
	}
	return r.a.attrs.ordinal[id]
}

// TokenCount returns the number of token ordinals including EOF.
func (r *Result) TokenCount() int {
	return r.a.tokens.count()
}

// TokenLabel returns the label of the token having the ordinal.
func (r *Result) TokenLabel(ordinal int) (string, bool) {
	label, ok := r.a.tokens.ordinal2Label[ordinal]
	return label, ok
}

// TokenOrdinal returns the ordinal of the token having the label.
func (r *Result) TokenOrdinal(label string) (int, bool) {
	if label == labelEOF {
		return ordinalEOF, true
	}
	id, ok := r.a.tokens.named(label)
	if !ok {
		return -1, false
	}
	ord := r.a.attrs.ordinal[id]
	return ord, ord >= 0
}

// TokenImage renders a token the way ambiguity reports do.
func (r *Result) TokenImage(ordinal int) string {
	return r.a.tokenImage(ordinal)
}

// MinimumSize returns the length of the shortest token sequence the
// expansion matches. It is only meaningful when the grammar has no errors.
func (r *Result) MinimumSize(id ExpansionID) int {
	return r.a.minimumSize(id)
}

func (r *Result) PossiblyEmpty(id ExpansionID) bool {
	return r.a.possiblyEmpty(id)
}

func (r *Result) Phase2Name(id ExpansionID) string {
	if r.Grammar.Expansion(id) == nil {
		return ""
	}
	return r.a.attrs.phase2[id]
}

func (r *Result) Phase3Name(id ExpansionID) string {
	if r.Grammar.Expansion(id) == nil {
		return ""
	}
	return r.a.attrs.phase3[id]
}
