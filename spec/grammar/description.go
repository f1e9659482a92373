package grammar

import (
	"fmt"

	"github.com/cnf/structhash"
)

// fingerprintVersion is the structhash version of a description. Fields added
// later must carry a version tag greater than this.
const fingerprintVersion = 1

type Options struct {
	LookaheadLimit       int  `json:"lookahead"`
	ChoiceAmbiguityBound int  `json:"choice_ambiguity_check"`
	OtherAmbiguityBound  int  `json:"other_ambiguity_check"`
	ForceLookaheadCheck  bool `json:"force_la_check"`
	UserDefinedLexer     bool `json:"user_defined_lexer"`
}

type Terminal struct {
	Ordinal int    `json:"ordinal"`
	Label   string `json:"label"`
	Image   string `json:"image"`
}

// Routine is a lookahead routine a code generator has to emit. Amount is
// math.MaxInt32 when the routine scans its expansion to the end.
type Routine struct {
	Name       string `json:"name"`
	Production string `json:"production"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Amount     int    `json:"amount"`
}

type Diagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Depth    int    `json:"depth,omitempty"`
	OrMore   bool   `json:"or_more,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
}

// Description is the result of an analysis handed over to code generation.
type Description struct {
	Name        string        `json:"name"`
	Options     *Options      `json:"options"`
	Terminals   []*Terminal   `json:"terminals"`
	Phase2      []*Routine    `json:"phase2"`
	Phase3      []*Routine    `json:"phase3"`
	Diagnostics []*Diagnostic `json:"diagnostics"`
	Fingerprint string        `json:"fingerprint" hash:"-"`
}

// ComputeFingerprint hashes the content of the description and stores the
// hash in Fingerprint. Two analyses of the same grammar with the same options
// yield the same fingerprint.
func (d *Description) ComputeFingerprint() error {
	h, err := structhash.Hash(d, fingerprintVersion)
	if err != nil {
		return fmt.Errorf("cannot compute the fingerprint of %v: %w", d.Name, err)
	}
	d.Fingerprint = h
	return nil
}

// VerifyFingerprint reports whether the content still matches Fingerprint.
func (d *Description) VerifyFingerprint() (bool, error) {
	if d.Fingerprint == "" {
		return false, nil
	}
	h, err := structhash.Hash(d, fingerprintVersion)
	if err != nil {
		return false, err
	}
	return h == d.Fingerprint, nil
}
