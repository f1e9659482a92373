package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func TestCheckChoice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.grammar")
	defer teardown()

	tests := []struct {
		caption   string
		src       string
		opts      []Option
		conflicts []*Conflict
	}{
		{
			caption: "alternatives sharing a first token need a lookahead of 2",
			src: `
S : "a" B | "a" C ;
B : "b" ;
C : "c" ;
`,
			conflicts: []*Conflict{
				{
					Depth:  2,
					Prefix: `"a"`,
				},
			},
		},
		{
			caption: "a conflict beyond the bound is reported as or more",
			src:     `S : "a" "b" "c" | "a" "b" "d" ;`,
			conflicts: []*Conflict{
				{
					Depth:  3,
					OrMore: true,
					Prefix: `"a" "b"`,
				},
			},
		},
		{
			caption: "a larger bound resolves the conflict",
			src:     `S : "a" "b" "c" | "a" "b" "d" ;`,
			opts: []Option{
				ChoiceAmbiguityBound(3),
			},
			conflicts: []*Conflict{
				{
					Depth:  3,
					Prefix: `"a" "b"`,
				},
			},
		},
		{
			caption: "distinct first tokens are silent",
			src: `
S : "a" | "b" | "c" ( "d" )* T ;
T : "e" ;
`,
		},
		{
			caption: "an explicit lookahead is trusted",
			src: `
S : LOOKAHEAD(2) "a" B | "a" C ;
B : "b" ;
C : "c" ;
`,
		},
		{
			caption: "an explicit lookahead is checked when forced",
			src: `
S : LOOKAHEAD(2) "a" B | "a" C ;
B : "b" ;
C : "c" ;
`,
			opts: []Option{
				ForceLookaheadCheck(),
			},
			conflicts: []*Conflict{
				{
					Depth:  2,
					Prefix: `"a"`,
				},
			},
		},
		{
			caption: "choices in nested expansions are checked",
			src:     `S : "x" ( "a" | "a" "b" ) ;`,
			conflicts: []*Conflict{
				{
					Depth:  2,
					Prefix: `"a"`,
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			res := analyzeTestGrammar(t, tt.src, tt.opts...)
			ds := diagnosticsOf(res, CodeAmbiguousChoice)
			require.Len(t, ds, len(tt.conflicts))
			for i, d := range ds {
				expected := tt.conflicts[i]
				require.Equal(t, SeverityWarning, d.Severity)
				require.Equal(t, semErrChoiceConflict, d.Cause)
				require.NotNil(t, d.Conflict)
				require.Equal(t, expected.Depth, d.Conflict.Depth)
				require.Equal(t, expected.OrMore, d.Conflict.OrMore)
				require.Equal(t, expected.Prefix, d.Conflict.Prefix)
				require.Len(t, d.Conflict.Positions, 2)
				require.Contains(t, d.Detail, expected.Prefix)
			}
			require.Equal(t, 0, res.ErrorCount())
		})
	}
}

func TestCheckChoice_ReportsTheConflictingAlternative(t *testing.T) {
	res := analyzeTestGrammar(t, `
S : "a"
  | "b"
  | "a" "c"
  ;
`)
	ds := diagnosticsOf(res, CodeAmbiguousChoice)
	require.Len(t, ds, 1)
	c := ds[0].Conflict
	require.Equal(t, 2, c.Depth)
	require.False(t, c.OrMore)
	require.Equal(t, 2, c.Positions[1].Row-c.Positions[0].Row)
	require.Equal(t, c.Positions[0], ds[0].Pos)
}

func TestCheckChoice_EmptyAlternative(t *testing.T) {
	res := analyzeTestGrammar(t, `S : [ "a" ] | "b" ;`)
	require.Equal(t, 1, res.Count(CodeEmptyChoiceAlternative))
	require.Equal(t, 0, res.Count(CodeAmbiguousChoice))
	require.Equal(t, 1, res.WarningCount())

	ds := diagnosticsOf(res, CodeEmptyChoiceAlternative)
	require.Equal(t, semErrEmptyAlternative, ds[0].Cause)
}

func TestCheckRepetition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.grammar")
	defer teardown()

	tests := []struct {
		caption   string
		src       string
		opts      []Option
		construct string
		conflict  *Conflict
	}{
		{
			caption:   "zero or more",
			src:       `R : ( "x" )* "x" ;`,
			construct: "(...)*",
			conflict: &Conflict{
				Depth:  2,
				OrMore: true,
				Prefix: `"x"`,
			},
		},
		{
			caption:   "one or more",
			src:       `R : ( "x" )+ "x" ;`,
			construct: "(...)+",
			conflict: &Conflict{
				Depth:  2,
				OrMore: true,
				Prefix: `"x"`,
			},
		},
		{
			caption:   "zero or one",
			src:       `R : [ "x" ] "x" ;`,
			construct: "[...]",
			conflict: &Conflict{
				Depth:  2,
				OrMore: true,
				Prefix: `"x"`,
			},
		},
		{
			caption: "a larger bound gives an exact depth",
			src:     `R : ( "x" )* "x" ;`,
			opts: []Option{
				OtherAmbiguityBound(2),
			},
			construct: "(...)*",
			conflict: &Conflict{
				Depth:  2,
				Prefix: `"x"`,
			},
		},
		{
			caption: "what follows through the referrers",
			src: `
S : A "y" ;
A : "a" ( "y" )* ;
`,
			construct: "(...)*",
			conflict: &Conflict{
				Depth:  2,
				OrMore: true,
				Prefix: `"y"`,
			},
		},
		{
			caption: "an explicit lookahead is trusted",
			src:     `R : ( LOOKAHEAD(2) "x" )* "x" ;`,
		},
		{
			caption: "distinct tokens are silent",
			src:     `R : ( "x" )* "y" ;`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			res := analyzeTestGrammar(t, tt.src, tt.opts...)
			ds := diagnosticsOf(res, CodeAmbiguousRepetitionBoundary)
			if tt.conflict == nil {
				require.Empty(t, ds)
				return
			}
			require.Len(t, ds, 1)
			d := ds[0]
			require.Equal(t, SeverityWarning, d.Severity)
			require.Equal(t, semErrRepetitionConflict, d.Cause)
			require.Equal(t, tt.construct, d.Conflict.Construct)
			require.Equal(t, tt.conflict.Depth, d.Conflict.Depth)
			require.Equal(t, tt.conflict.OrMore, d.Conflict.OrMore)
			require.Equal(t, tt.conflict.Prefix, d.Conflict.Prefix)
			require.Len(t, d.Conflict.Positions, 1)
			require.Contains(t, d.Detail, depthText(d.Conflict))
		})
	}
}

func TestCheckAmbiguities_Skipped(t *testing.T) {
	src := `
S : "a" B | "a" C ;
B : "b" ;
C : "c" ;
`
	res := analyzeTestGrammar(t, src, LookaheadLimit(2))
	require.Equal(t, 0, res.Count(CodeAmbiguousChoice))
	require.Equal(t, 1, res.Count(CodeLookaheadCheckSkipped))
	require.Equal(t, 1, res.WarningCount())

	res = analyzeTestGrammar(t, src, LookaheadLimit(2), ForceLookaheadCheck())
	require.Equal(t, 1, res.Count(CodeAmbiguousChoice))
	require.Equal(t, 0, res.Count(CodeLookaheadCheckSkipped))
}

func TestTokenImage(t *testing.T) {
	res := analyzeTestGrammar(t, "TOKEN : <ID: `[a-z]+`> | <`[0-9]+`> ; S : <ID> \"=\" <EOF> ;")

	id, ok := res.TokenOrdinal("ID")
	require.True(t, ok)
	require.Equal(t, 1, id)
	eof, ok := res.TokenOrdinal("EOF")
	require.True(t, ok)
	require.Equal(t, 0, eof)

	require.Equal(t, "<EOF>", res.TokenImage(0))
	require.Equal(t, "<ID>", res.TokenImage(1))
	require.Equal(t, "<token of kind 2>", res.TokenImage(2))
	require.Equal(t, `"="`, res.TokenImage(3))
	require.Equal(t, "<token of kind 99>", res.TokenImage(99))
	require.Equal(t, 4, res.TokenCount())

	label, ok := res.TokenLabel(1)
	require.True(t, ok)
	require.Equal(t, "ID", label)
	_, ok = res.TokenLabel(2)
	require.False(t, ok)
}
