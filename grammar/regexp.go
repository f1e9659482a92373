package grammar

import (
	"github.com/nihei9/lookahead/spec"
)

// RegexpID is a handle of a regular expression in the arena of a grammar.
type RegexpID int

const (
	RegexpIDNil = RegexpID(0)
	RegexpIDMin = RegexpID(1)
)

func (id RegexpID) Int() int {
	return int(id)
}

func (id RegexpID) IsNil() bool {
	return id == RegexpIDNil
}

type RegexpKind int

const (
	RegexpKindString RegexpKind = iota + 1
	RegexpKindRef
	RegexpKindPattern
	RegexpKindSequence
	RegexpKindChoice
	RegexpKindZeroOrOne
	RegexpKindZeroOrMore
	RegexpKindOneOrMore
)

// labelEOF is the label of the end-of-input token. Its ordinal is always 0.
const labelEOF = "EOF"

// Regexp is a regular expression. Text is the image of a string literal, the
// label of a reference, or the source of a pattern. Label and Private are set
// only on the outermost node of a definition.
type Regexp struct {
	ID              RegexpID
	Kind            RegexpKind
	Label           string
	Private         bool
	Text            string
	Children        []RegexpID
	TokenProduction *TokenProduction
	Pos             spec.Position
}

// TokenProduction groups regular expression specs sharing a kind, lexical
// states, and case sensitivity. Explicit is false for the productions
// synthesized from terminals written inside grammar productions.
type TokenProduction struct {
	Kind       spec.TokenKind
	IgnoreCase bool
	States     []string
	Specs      []*RegexpSpec
	Explicit   bool
	Pos        spec.Position
}

type RegexpSpec struct {
	Regexp       RegexpID
	NextState    string
	NextStatePos spec.Position
	Pos          spec.Position
}
