package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func TestAssignRoutines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lookahead.grammar")
	defer teardown()

	src := `
S : "a" B | "a" C ;
B : "b" ;
C : "c" ;
`

	t.Run("lookahead of 1", func(t *testing.T) {
		res := analyzeTestGrammar(t, src)
		alt := testAlternative(t, res.Grammar, "S", 0)

		require.Len(t, res.Phase2, 1)
		r := res.Phase2[0]
		require.Regexp(t, `^phase2_1_S_line_\d+$`, r.Name)
		require.Equal(t, alt.ID, r.Expansion)
		require.Equal(t, 1, r.Amount)
		require.Equal(t, r.Name, res.Phase2Name(alt.ID))

		require.Len(t, res.Phase3, 1)
		require.Equal(t, alt.ID, res.Phase3[0].Expansion)
		require.Equal(t, 1, res.Phase3[0].Amount)
		require.Regexp(t, `^phase3_1_S_line_\d+$`, res.Phase3[0].Name)
		require.Equal(t, res.Phase3[0].Name, res.Phase3Name(alt.ID))

		// The last alternative always succeeds.
		require.Empty(t, res.Phase2Name(testAlternative(t, res.Grammar, "S", 1).ID))
	})

	t.Run("lookahead of 2", func(t *testing.T) {
		res := analyzeTestGrammar(t, src, LookaheadLimit(2))
		alt := testAlternative(t, res.Grammar, "S", 0)
		bBody := testProduction(t, res.Grammar, "B").Body

		require.Len(t, res.Phase2, 1)
		require.Equal(t, 2, res.Phase2[0].Amount)

		require.Len(t, res.Phase3, 2)
		require.Equal(t, alt.ID, res.Phase3[0].Expansion)
		require.Equal(t, 2, res.Phase3[0].Amount)
		require.Equal(t, bBody, res.Phase3[1].Expansion)
		require.Equal(t, 1, res.Phase3[1].Amount)
		require.Equal(t, "phase3R_2", res.Phase3[1].Name)
		require.Empty(t, res.Phase2Name(bBody))
	})
}

func TestAssignRoutines_ExplicitLookahead(t *testing.T) {
	tests := []struct {
		caption    string
		src        string
		phase2     int
		phase2Amts []int
	}{
		{
			caption:    "a syntactic lookahead without an amount scans to its end",
			src:        `S : LOOKAHEAD(A) A | B ; A : "a" "b" ; B : "a" "c" ;`,
			phase2:     1,
			phase2Amts: []int{unboundedAmount},
		},
		{
			caption:    "an amount and a syntactic lookahead",
			src:        `S : LOOKAHEAD(1, A) A | B ; A : "a" "b" ; B : "a" "c" ;`,
			phase2:     1,
			phase2Amts: []int{1},
		},
		{
			caption: "a semantic predicate alone needs no routine",
			src:     `S : LOOKAHEAD({ p() }) "a" | "b" ;`,
		},
		{
			caption: "LOOKAHEAD(0) always succeeds",
			src:     `S : LOOKAHEAD(0) "a" | "b" ;`,
		},
		{
			caption:    "alternatives after one that always succeeds are not collected",
			src:        `S : LOOKAHEAD(3) "a" | LOOKAHEAD(0) "b" | LOOKAHEAD(2) "c" "d" | "e" ;`,
			phase2:     1,
			phase2Amts: []int{3},
		},
		{
			caption:    "repetitions and nested choices",
			src:        `S : ( "a" )* [ "b" ] ( "c" | "d" ) ;`,
			phase2:     3,
			phase2Amts: []int{1, 1, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			res := analyzeTestGrammar(t, tt.src)
			require.Len(t, res.Phase2, tt.phase2)
			for i, r := range res.Phase2 {
				require.Equal(t, tt.phase2Amts[i], r.Amount)
			}
		})
	}
}

func TestAssignRoutines_SyntacticLookaheadIsInlined(t *testing.T) {
	res := analyzeTestGrammar(t, `
S : LOOKAHEAD(A) A | B ;
A : "a" ( "b" | C ) ;
B : "a" "c" ;
C : "x" ;
`)
	g := res.Grammar
	aBody := testProduction(t, g, "A").Body
	cBody := testProduction(t, g, "C").Body

	// The syntactic lookahead of S and the first alternative of the choice
	// in A.
	require.Len(t, res.Phase2, 2)
	nested := res.Phase2[0].Expansion
	require.True(t, g.Expansion(nested).Parent.IsNil())

	amounts := map[ExpansionID]int{}
	for _, r := range res.Phase3 {
		_, dup := amounts[r.Expansion]
		require.False(t, dup)
		amounts[r.Expansion] = r.Amount
	}
	require.Equal(t, unboundedAmount, amounts[nested])
	require.Equal(t, unboundedAmount, amounts[aBody])
	require.Contains(t, amounts, cBody)
}

func TestPhase3Builder_Monotonicity(t *testing.T) {
	res := analyzeTestGrammar(t, `S : "a" "b" | "c" ;`)
	a := res.a
	id := testAlternative(t, res.Grammar, "S", 0).ID

	b := newPhase3Builder(a)
	b.register(id, 2)
	require.Equal(t, 1, b.queue.Size())
	name := a.attrs.phase3[id]
	require.NotEmpty(t, name)

	b.register(id, 1)
	b.register(id, 2)
	require.Equal(t, 1, b.queue.Size())
	require.Equal(t, 2, a.attrs.phase3Amount[id])

	b.register(id, 3)
	require.Equal(t, 2, b.queue.Size())
	require.Equal(t, 3, a.attrs.phase3Amount[id])
	require.Equal(t, name, a.attrs.phase3[id])

	b.run()
	routines := b.routines()
	require.Len(t, routines, 1)
	require.Equal(t, 3, routines[0].Amount)
	require.Equal(t, name, routines[0].Name)
}
