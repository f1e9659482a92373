package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/lookahead/spec"
	"github.com/stretchr/testify/require"
)

func buildTestGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	b := GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

// analyzeTestGrammar builds and analyses a grammar that is expected to be
// free of errors.
func analyzeTestGrammar(t *testing.T, src string, opts ...Option) *Result {
	t.Helper()

	res, err := Analyze(buildTestGrammar(t, src), opts...)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

// newTestAnalysis prepares an analysis of a grammar without running any of
// its passes.
func newTestAnalysis(g *Grammar) *analysis {
	return &analysis{
		g:      g,
		opts:   DefaultOptions(),
		attrs:  newAttributes(g),
		tokens: newTokenTable(),
		diags:  &diagnostics{},
	}
}

func testProduction(t *testing.T, g *Grammar, name string) *Production {
	t.Helper()

	prod, ok := g.ProductionByName(name)
	if !ok {
		t.Fatalf("production was not found: %v", name)
	}
	return prod
}

// testAlternative returns the n-th alternative of a production whose body is
// a choice.
func testAlternative(t *testing.T, g *Grammar, name string, n int) *Expansion {
	t.Helper()

	body := g.Expansion(testProduction(t, g, name).Body)
	require.Equal(t, ExpansionKindChoice, body.Kind)
	require.Less(t, n, len(body.Children))
	return g.Expansion(body.Children[n])
}

// testFirstExpansion returns the first expansion of a kind in the body of a
// production, in pre-order.
func testFirstExpansion(t *testing.T, g *Grammar, name string, kind ExpansionKind) *Expansion {
	t.Helper()

	var found *Expansion
	var visit func(id ExpansionID)
	visit = func(id ExpansionID) {
		e := g.Expansion(id)
		if found != nil {
			return
		}
		if e.Kind == kind {
			found = e
			return
		}
		for _, c := range e.Children {
			visit(c)
		}
	}
	visit(testProduction(t, g, name).Body)
	if found == nil {
		t.Fatalf("%v was not found in %v", kind, name)
	}
	return found
}

func matchImages(a *analysis, s *matchSet) []string {
	images := make([]string, 0, s.size())
	for _, m := range s.items {
		images = append(images, a.matchImage(m))
	}
	return images
}

func diagnosticsOf(res *Result, code DiagnosticCode) []*Diagnostic {
	var ds []*Diagnostic
	for _, d := range res.Diagnostics {
		if d.Code == code {
			ds = append(ds, d)
		}
	}
	return ds
}
