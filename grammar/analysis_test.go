package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyze_Options(t *testing.T) {
	g := buildTestGrammar(t, `S : "a" ;`)

	tests := []struct {
		caption string
		opts    []Option
		valid   bool
	}{
		{
			caption: "default",
			valid:   true,
		},
		{
			caption: "zero lookahead limit",
			opts: []Option{
				LookaheadLimit(0),
			},
		},
		{
			caption: "zero choice ambiguity bound",
			opts: []Option{
				ChoiceAmbiguityBound(0),
			},
		},
		{
			caption: "negative other ambiguity bound",
			opts: []Option{
				OtherAmbiguityBound(-1),
			},
		},
		{
			caption: "every option",
			opts: []Option{
				LookaheadLimit(3),
				ChoiceAmbiguityBound(4),
				OtherAmbiguityBound(2),
				ForceLookaheadCheck(),
				UserDefinedLexer(),
			},
			valid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			res, err := Analyze(g, tt.opts...)
			if !tt.valid {
				require.Nil(t, res)
				require.True(t, errors.Is(err, ErrInvalidOptions), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, res)
		})
	}

	res, err := Analyze(g, LookaheadLimit(3), ChoiceAmbiguityBound(4), OtherAmbiguityBound(2), ForceLookaheadCheck(), UserDefinedLexer())
	require.NoError(t, err)
	require.Equal(t, Options{
		LookaheadLimit:       3,
		ChoiceAmbiguityBound: 4,
		OtherAmbiguityBound:  2,
		ForceLookaheadCheck:  true,
		UserDefinedLexer:     true,
	}, res.Options)

	res, err = Analyze(g)
	require.NoError(t, err)
	require.Equal(t, *DefaultOptions(), res.Options)
}

func TestAnalyze_Deterministic(t *testing.T) {
	src := `
TOKEN : <ID: ` + "`[a-z]+`" + `> | <NUM: ` + "`[0-9]+`" + `> ;
SKIP : " " ;
Program : ( Statement )* <EOF> ;
Statement : <ID> "=" Expr ";" | <ID> "(" [ Args ] ")" ";" | "if" Expr Statement [ "else" Statement ] ;
Args : Expr ( "," Expr )* ;
Expr : Term ( ( "+" | "-" ) Term )* ;
Term : <NUM> | <ID> | "(" Expr ")" ;
`
	g := buildTestGrammar(t, src)

	analyze := func(opts ...Option) *Result {
		res, err := Analyze(g, opts...)
		require.NoError(t, err)
		return res
	}
	for _, opts := range [][]Option{
		nil,
		{LookaheadLimit(2)},
		{LookaheadLimit(3), ForceLookaheadCheck()},
	} {
		r1 := analyze(opts...)
		r2 := analyze(opts...)
		require.NotSame(t, r1.a, r2.a)

		require.Equal(t, r1.Phase2, r2.Phase2)
		require.Equal(t, r1.Phase3, r2.Phase3)
		require.Equal(t, r1.TokenCount(), r2.TokenCount())
		for id := RegexpIDMin; int(id) <= g.RegexpCount(); id++ {
			require.Equal(t, r1.RegexpOrdinal(id), r2.RegexpOrdinal(id))
		}
		require.Equal(t, len(r1.Diagnostics), len(r2.Diagnostics))
		for i := range r1.Diagnostics {
			require.Equal(t, r1.Diagnostics[i].String(), r2.Diagnostics[i].String())
		}
	}

	// The statements beginning with <ID> need a lookahead of 2, and the
	// dangling else is ambiguous.
	res := analyze()
	require.Equal(t, 1, res.Count(CodeAmbiguousChoice))
	require.Equal(t, 1, res.Count(CodeAmbiguousRepetitionBoundary))
	require.NotEmpty(t, res.Phase2)
	require.NotEmpty(t, res.Phase3)
}

func TestResult_Queries(t *testing.T) {
	res := analyzeTestGrammar(t, `S : "a" T ; T : "b" ;`)
	g := res.Grammar
	body := g.Expansion(testProduction(t, g, "S").Body)

	require.Equal(t, 1, res.Ordinal(body.Children[0]))
	require.Equal(t, -1, res.Ordinal(body.Children[1]))
	require.Equal(t, -1, res.Ordinal(ExpansionIDNil))
	require.Equal(t, -1, res.RegexpOrdinal(RegexpIDNil))
	require.Empty(t, res.Phase2Name(ExpansionIDNil))
	require.Empty(t, res.Phase3Name(ExpansionID(g.ExpansionCount()+1)))

	_, ok := res.TokenOrdinal("UNKNOWN")
	require.False(t, ok)
	require.Equal(t, 0, res.ErrorCount())
	require.Equal(t, 0, res.WarningCount())
}
