package grammar

import (
	"fmt"
	"strings"

	verr "github.com/nihei9/lookahead/error"
	"github.com/nihei9/lookahead/spec"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	}
	return "unknown"
}

// DiagnosticCode is the category of a diagnostic.
type DiagnosticCode string

const (
	CodeUndefinedReference          = DiagnosticCode("undefined-reference")
	CodeDuplicateDefinition         = DiagnosticCode("duplicate-definition")
	CodeInvalidTokenReference       = DiagnosticCode("invalid-token-reference")
	CodeSelfReferentialDefinition   = DiagnosticCode("self-referential-definition")
	CodeAlwaysEmptyRepetition       = DiagnosticCode("always-empty-repetition")
	CodeAmbiguousChoice             = DiagnosticCode("ambiguous-choice")
	CodeAmbiguousRepetitionBoundary = DiagnosticCode("ambiguous-repetition-boundary")
	CodeMisplacedLookahead          = DiagnosticCode("misplaced-lookahead")
	CodeLeftRecursion               = DiagnosticCode("left-recursion")
	CodeIgnoredTokenSpec            = DiagnosticCode("ignored-token-spec")
	CodeUnlabeledToken              = DiagnosticCode("unlabeled-token")
	CodeEmptyChoiceAlternative      = DiagnosticCode("empty-choice-alternative")
	CodeInvalidTokenPattern         = DiagnosticCode("invalid-token-pattern")
	CodeLookaheadCheckSkipped       = DiagnosticCode("lookahead-check-skipped")
)

// Conflict describes an ambiguity. Positions holds both alternatives of a
// choice, or the construct alone for a repetition.
type Conflict struct {
	Depth     int
	OrMore    bool
	Positions []spec.Position
	Prefix    string
	Construct string
}

type Diagnostic struct {
	Severity Severity
	Code     DiagnosticCode
	Cause    error
	Detail   string
	Pos      spec.Position
	Conflict *Conflict
}

func (d *Diagnostic) String() string {
	var b strings.Builder
	if d.Pos.Row != 0 {
		fmt.Fprintf(&b, "%v: ", d.Pos)
	}
	fmt.Fprintf(&b, "%v: %v", d.Severity, d.Cause)
	if d.Detail != "" {
		fmt.Fprintf(&b, ": %v", d.Detail)
	}
	return b.String()
}

func (d *Diagnostic) specError() *verr.SpecError {
	return &verr.SpecError{
		Cause:  d.Cause,
		Detail: d.Detail,
		Row:    d.Pos.Row,
		Col:    d.Pos.Col,
	}
}

// diagnostics accumulates findings of every phase of an analysis.
type diagnostics struct {
	list []*Diagnostic
}

func (ds *diagnostics) errorf(code DiagnosticCode, cause *SemanticError, pos spec.Position, format string, a ...interface{}) {
	ds.add(SeverityError, code, cause, pos, fmt.Sprintf(format, a...))
}

func (ds *diagnostics) warnf(code DiagnosticCode, cause *SemanticError, pos spec.Position, format string, a ...interface{}) {
	ds.add(SeverityWarning, code, cause, pos, fmt.Sprintf(format, a...))
}

func (ds *diagnostics) add(sev Severity, code DiagnosticCode, cause *SemanticError, pos spec.Position, detail string) *Diagnostic {
	d := &Diagnostic{
		Severity: sev,
		Code:     code,
		Cause:    cause,
		Detail:   detail,
		Pos:      pos,
	}
	ds.list = append(ds.list, d)
	if sev == SeverityError {
		tracer().Errorf("%v", d)
	} else {
		tracer().Infof("%v", d)
	}
	return d
}

func (ds *diagnostics) errorCount() int {
	n := 0
	for _, d := range ds.list {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

func (ds *diagnostics) specErrors() verr.SpecErrors {
	var errs verr.SpecErrors
	for _, d := range ds.list {
		if d.Severity == SeverityError {
			errs = append(errs, d.specError())
		}
	}
	return errs
}
