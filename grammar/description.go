package grammar

import (
	gspec "github.com/nihei9/lookahead/spec/grammar"
)

// Describe converts a result into a description for code generation. The
// description carries a fingerprint of its content.
func (r *Result) Describe(name string) (*gspec.Description, error) {
	desc := &gspec.Description{
		Name: name,
		Options: &gspec.Options{
			LookaheadLimit:       r.Options.LookaheadLimit,
			ChoiceAmbiguityBound: r.Options.ChoiceAmbiguityBound,
			OtherAmbiguityBound:  r.Options.OtherAmbiguityBound,
			ForceLookaheadCheck:  r.Options.ForceLookaheadCheck,
			UserDefinedLexer:     r.Options.UserDefinedLexer,
		},
		Terminals:   r.describeTerminals(),
		Phase2:      r.describeRoutines(r.Phase2),
		Phase3:      r.describeRoutines(r.Phase3),
		Diagnostics: describeDiagnostics(r.Diagnostics),
	}
	err := desc.ComputeFingerprint()
	if err != nil {
		return nil, err
	}
	return desc, nil
}

func (r *Result) describeTerminals() []*gspec.Terminal {
	terms := make([]*gspec.Terminal, r.TokenCount())
	for ord := range terms {
		label, _ := r.TokenLabel(ord)
		terms[ord] = &gspec.Terminal{
			Ordinal: ord,
			Label:   label,
			Image:   r.TokenImage(ord),
		}
	}
	return terms
}

func (r *Result) describeRoutines(routines []*LookaheadRoutine) []*gspec.Routine {
	if routines == nil {
		return nil
	}
	descs := make([]*gspec.Routine, len(routines))
	for i, rt := range routines {
		d := &gspec.Routine{
			Name:   rt.Name,
			Amount: rt.Amount,
		}
		if e := r.Grammar.Expansion(rt.Expansion); e != nil {
			d.Row = e.Pos.Row
			d.Col = e.Pos.Col
			if e.Production != nil {
				d.Production = e.Production.Name
			}
		}
		descs[i] = d
	}
	return descs
}

func describeDiagnostics(ds []*Diagnostic) []*gspec.Diagnostic {
	descs := make([]*gspec.Diagnostic, 0, len(ds))
	for _, d := range ds {
		msg := d.Cause.Error()
		if d.Detail != "" {
			msg = msg + ": " + d.Detail
		}
		desc := &gspec.Diagnostic{
			Severity: d.Severity.String(),
			Code:     string(d.Code),
			Message:  msg,
			Row:      d.Pos.Row,
			Col:      d.Pos.Col,
		}
		if d.Conflict != nil {
			desc.Depth = d.Conflict.Depth
			desc.OrMore = d.Conflict.OrMore
			desc.Prefix = d.Conflict.Prefix
		}
		descs = append(descs, desc)
	}
	return descs
}
