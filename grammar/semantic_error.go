package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrDuplicateProduction     = newSemanticError("duplicate production")
	semErrMisplacedLookahead      = newSemanticError("LOOKAHEAD(...) at a non-choice location")
	semErrUndefinedNonTerminal    = newSemanticError("undefined non-terminal")
	semErrUndefinedLexicalState   = newSemanticError("undefined lexical state")
	semErrIgnoredTokenSpec        = newSemanticError("regular expression specification is ignored since a user-defined lexer is used")
	semErrFreeStandingRef         = newSemanticError("free-standing regular expression reference is ignored; give it a different label like <NEWLABEL: <LABEL>>")
	semErrPrivateInline           = newSemanticError("private (#) regular expression cannot be defined within grammar productions")
	semErrDuplicateLabel          = newSemanticError("multiply defined lexical token name")
	semErrLabelIsLexicalState     = newSemanticError("lexical token name is the same as that of a lexical state")
	semErrShadowedByIgnoreCase    = newSemanticError("string can never be matched due to presence of more general (IGNORE_CASE) regular expression")
	semErrDuplicateString         = newSemanticError("duplicate definition of string token")
	semErrPartiallySuperseded     = newSemanticError("string with IGNORE_CASE is partially superseded")
	semErrStringDefinedAsNonToken = newSemanticError("string token has been defined as a non-TOKEN kind")
	semErrStringDefinedAsPrivate  = newSemanticError("string token has been defined as a private regular expression")
	semErrUndefinedToken          = newSemanticError("undefined lexical token name")
	semErrRefToPrivate            = newSemanticError("token name refers to a private (#) regular expression")
	semErrRefToNonToken           = newSemanticError("token name refers to a non-token (SKIP, MORE, SPECIAL_TOKEN) regular expression")
	semErrUnlabeledToken          = newSemanticError("unlabeled regular expression cannot be referred to by a user-defined lexer")
	semErrSelfReference           = newSemanticError("loop in regular expression detected")
	semErrEmptyRepetition         = newSemanticError("expansion can be matched by the empty string")
	semErrLeftRecursion           = newSemanticError("left recursion detected")
	semErrInvalidTokenPattern     = newSemanticError("invalid token pattern")
	semErrLookaheadCheckSkipped   = newSemanticError("lookahead adequacy checking is not performed since the lookahead limit is more than 1; force the check to perform it")
	semErrEmptyAlternative        = newSemanticError("this choice can expand to the empty token sequence and will therefore always be taken in favor of the choices appearing later")
	semErrChoiceConflict          = newSemanticError("choice conflict involving two expansions")
	semErrRepetitionConflict      = newSemanticError("choice conflict in a repetition construct")
)
