/*
Package grammar analyses grammars of LL(k) parsers.

A grammar is built from the AST of the grammar notation:

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build()

Analyze then validates the grammar, assigns ordinals to the tokens, reports
the choice points a parser cannot resolve within the configured lookahead,
and computes the phase-2 and phase-3 worklists: the grammar fragments for
which a code generator has to emit lookahead routines.

	res, err := grammar.Analyze(g, grammar.LookaheadLimit(1))

Analyze never stops at the first problem. Every finding is recorded as a
Diagnostic; when errors were found the returned error is a verr.SpecErrors
and the phases depending on a valid grammar are skipped.

Tracing uses the key 'lookahead.grammar'.
*/
package grammar

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'lookahead.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lookahead.grammar")
}
