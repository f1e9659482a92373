package grammar

import (
	"errors"
	"testing"

	verr "github.com/nihei9/lookahead/error"
	"github.com/stretchr/testify/require"
)

func TestGenLexSpec(t *testing.T) {
	res := analyzeTestGrammar(t, "TOKEN [IGNORE_CASE] : \"Ab1\" ; TOKEN : <#DIGIT: `[0-9]`> | <NUM: (<DIGIT>)+> -> IN_NUM ; TOKEN <IN_NUM> : \".\" ; S : \"x\" \"x\" <NUM> ;")
	ls := res.a.genLexSpec()

	patterns := map[string]string{}
	fragments := map[string]string{}
	for _, e := range ls.entries {
		if e.Fragment {
			fragments[ls.name(e.Kind)] = string(e.Pattern)
			continue
		}
		patterns[ls.name(e.Kind)] = string(e.Pattern)
	}

	require.Equal(t, map[string]string{
		`"Ab1"`: "[aA][bB]1",
		"<NUM>": `(\f{f_2})+`,
		`"."`:   `\.`,
		`"x"`:   "x",
	}, patterns)
	require.Equal(t, map[string]string{
		"<DIGIT>": "([0-9])",
		"<NUM>":   `(\f{f_2})+`,
	}, fragments)
}

func TestCheckLexicalPatterns(t *testing.T) {
	res, err := Analyze(buildTestGrammar(t, "TOKEN : <A: `[a`> ; S : <A> ;"))
	require.NotNil(t, res)
	var specErrs verr.SpecErrors
	require.True(t, errors.As(err, &specErrs), "unexpected error: %v", err)
	require.Greater(t, res.Count(CodeInvalidTokenPattern), 0)
	require.Nil(t, res.Phase2)

	res, err = Analyze(buildTestGrammar(t, "TOKEN : <A: `[a`> ; S : <A> ;"), UserDefinedLexer())
	require.NoError(t, err)
	require.Equal(t, 0, res.Count(CodeInvalidTokenPattern))
}

func TestCheckLexicalPatterns_ValidTokens(t *testing.T) {
	tests := []struct {
		caption string
		src     string
	}{
		{
			caption: "a single string literal",
			src:     `S : "a" ;`,
		},
		{
			caption: "literals in a choice",
			src:     `S : "a" B | "a" C ; B : "b" ; C : "c" ;`,
		},
		{
			caption: "patterns, fragments, IGNORE_CASE, SKIP, and lexical states",
			src: "TOKEN [IGNORE_CASE] : \"Ab1\" ; TOKEN : <#DIGIT: `[0-9]`> | <NUM: (<DIGIT>)+> -> IN_NUM ; " +
				"TOKEN <IN_NUM> : \".\" ; SKIP : \" \" ; S : \"x\" <NUM> ;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			res, err := Analyze(buildTestGrammar(t, tt.src))
			require.NoError(t, err)
			require.Equal(t, 0, res.Count(CodeInvalidTokenPattern))
			require.Equal(t, 0, res.ErrorCount())
			require.True(t, res.a.checkLexicalPatterns())
		})
	}
}
