package grammar

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"golang.org/x/text/cases"
)

const ordinalEOF = 0

// tokenTable numbers tokens in discovery order. Ordinal 0 is reserved for
// the end of input.
type tokenTable struct {
	next int

	// label2Regexp is the table of named definitions; a user-defined lexer
	// adds references to it as well.
	label2Regexp *linkedhashmap.Map

	ordinal2Label  map[int]string
	ordinal2Regexp map[int]RegexpID

	// literals maps a lexical state to string literals grouped by their
	// case-folded image. Each group maps an image to its definition.
	literals map[string]map[string]*linkedhashmap.Map

	folder cases.Caser
}

func newTokenTable() *tokenTable {
	return &tokenTable{
		next:         ordinalEOF + 1,
		label2Regexp: linkedhashmap.New(),
		ordinal2Label: map[int]string{
			ordinalEOF: labelEOF,
		},
		ordinal2Regexp: map[int]RegexpID{},
		literals:       map[string]map[string]*linkedhashmap.Map{},
		folder:         cases.Fold(),
	}
}

func (t *tokenTable) newOrdinal() int {
	ord := t.next
	t.next++
	return ord
}

// count returns the number of ordinals including EOF.
func (t *tokenTable) count() int {
	return t.next
}

// addNamed registers a label. It returns the existing definition and false
// when the label is already taken.
func (t *tokenTable) addNamed(label string, id RegexpID) (RegexpID, bool) {
	if v, ok := t.label2Regexp.Get(label); ok {
		return v.(RegexpID), false
	}
	t.label2Regexp.Put(label, id)
	return id, true
}

func (t *tokenTable) named(label string) (RegexpID, bool) {
	v, ok := t.label2Regexp.Get(label)
	if !ok {
		return RegexpIDNil, false
	}
	return v.(RegexpID), true
}

func (t *tokenTable) literalGroup(state, image string) (*linkedhashmap.Map, bool) {
	byState, ok := t.literals[state]
	if !ok {
		return nil, false
	}
	group, ok := byState[t.folder.String(image)]
	return group, ok
}

func (t *tokenTable) newLiteralGroup(state, image string) *linkedhashmap.Map {
	byState, ok := t.literals[state]
	if !ok {
		byState = map[string]*linkedhashmap.Map{}
		t.literals[state] = byState
	}
	group := linkedhashmap.New()
	byState[t.folder.String(image)] = group
	return group
}
