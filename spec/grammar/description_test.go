package grammar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDescription() *Description {
	return &Description{
		Name: "test",
		Options: &Options{
			LookaheadLimit:       1,
			ChoiceAmbiguityBound: 2,
			OtherAmbiguityBound:  1,
		},
		Terminals: []*Terminal{
			{Ordinal: 0, Label: "EOF", Image: "<EOF>"},
			{Ordinal: 1, Image: `"a"`},
		},
		Phase2: []*Routine{
			{Name: "phase2_1_S_line_1", Production: "S", Row: 1, Col: 5, Amount: 2},
		},
		Phase3: []*Routine{
			{Name: "phase3_1_S_line_1", Production: "S", Row: 1, Col: 5, Amount: 2},
		},
	}
}

func TestDescription_Fingerprint(t *testing.T) {
	d1 := newTestDescription()
	require.NoError(t, d1.ComputeFingerprint())
	require.NotEmpty(t, d1.Fingerprint)

	d2 := newTestDescription()
	require.NoError(t, d2.ComputeFingerprint())
	require.Equal(t, d1.Fingerprint, d2.Fingerprint)

	ok, err := d1.VerifyFingerprint()
	require.NoError(t, err)
	require.True(t, ok)

	d2.Phase3[0].Amount = 3
	ok, err = d2.VerifyFingerprint()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, d2.ComputeFingerprint())
	require.NotEqual(t, d1.Fingerprint, d2.Fingerprint)
}

func TestDescription_FingerprintSurvivesJSON(t *testing.T) {
	d := newTestDescription()
	require.NoError(t, d.ComputeFingerprint())

	b, err := json.Marshal(d)
	require.NoError(t, err)
	decoded := &Description{}
	require.NoError(t, json.Unmarshal(b, decoded))
	require.Equal(t, d, decoded)

	ok, err := decoded.VerifyFingerprint()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = (&Description{Name: "empty"}).VerifyFingerprint()
	require.NoError(t, err)
	require.False(t, ok)
}
