package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrInvalidToken      = newSyntaxError("invalid token")
	synErrUnclosedString    = newSyntaxError("unclosed string literal")
	synErrInvalidEscSeq     = newSyntaxError("invalid escape sequence")
	synErrEmptyString       = newSyntaxError("a string literal must not be empty")
	synErrInvalidInteger    = newSyntaxError("invalid integer")
	synErrEmptyPattern      = newSyntaxError("a pattern must not be empty")
	synErrEmptyPredicate    = newSyntaxError("a semantic predicate must not be empty")
	synErrUnexpectedEOF     = newSyntaxError("unexpected EOF")
	synErrNoDeclaration     = newSyntaxError("a grammar must have at least one production")
	synErrNoProductionName  = newSyntaxError("a production name is missing")
	synErrNoColon           = newSyntaxError("the colon must precede an expansion")
	synErrNoSemicolon       = newSyntaxError("the semicolon is missing at the end of a declaration")
	synErrNoIgnoreCase      = newSyntaxError("only IGNORE_CASE is allowed as a token production option")
	synErrUnclosedOption    = newSyntaxError("unclosed token production option")
	synErrNoStateName       = newSyntaxError("a lexical state name is missing")
	synErrUnclosedStateList = newSyntaxError("unclosed lexical state list")
	synErrNoNextState       = newSyntaxError("a lexical state name must follow ->")
	synErrNoRegexp          = newSyntaxError("a regular expression is missing")
	synErrNoLabel           = newSyntaxError("a token label is missing")
	synErrUnclosedRegexp    = newSyntaxError("unclosed regular expression")
	synErrUnclosedGroup     = newSyntaxError("unclosed group")
	synErrUnclosedOptional  = newSyntaxError("unclosed optional expansion")
	synErrNoLookaheadParen  = newSyntaxError("LOOKAHEAD must be followed by (")
	synErrUnclosedLookahead = newSyntaxError("unclosed LOOKAHEAD")
	synErrEmptyLookahead    = newSyntaxError("LOOKAHEAD needs an amount, an expansion, or a semantic predicate")
	synErrLookaheadNotFirst = newSyntaxError("LOOKAHEAD must be the first element of a sequence")
	synErrNoTryParen        = newSyntaxError("try must be followed by (")
	synErrUnclosedTry       = newSyntaxError("unclosed try block")
)
