package error

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpecError_Error(t *testing.T) {
	cause := errors.New("undefined non-terminal")

	tests := []struct {
		caption string
		err     *SpecError
		want    string
	}{
		{
			caption: "cause only",
			err: &SpecError{
				Cause: cause,
			},
			want: "error: undefined non-terminal",
		},
		{
			caption: "with a source name, a position, and a detail",
			err: &SpecError{
				Cause:      cause,
				Detail:     "B",
				SourceName: "test.la",
				Row:        3,
				Col:        7,
			},
			want: "test.la: 3:7: error: undefined non-terminal: B",
		},
		{
			caption: "row without a column",
			err: &SpecError{
				Cause: cause,
				Row:   2,
			},
			want: "2: error: undefined non-terminal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			require.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSpecError_ErrorQuotesSourceLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.la")
	err := os.WriteFile(path, []byte("S : \"a\" ;\nT : B ;\n"), 0600)
	require.NoError(t, err)

	e := &SpecError{
		Cause:      errors.New("undefined non-terminal"),
		FilePath:   path,
		SourceName: "test.la",
		Row:        2,
		Col:        5,
	}
	require.Equal(t, "test.la: 2:5: error: undefined non-terminal\n    T : B ;", e.Error())
}

func TestSpecErrors_Error(t *testing.T) {
	errs := SpecErrors{
		{Cause: errors.New("a"), Row: 1},
		{Cause: errors.New("b"), Row: 2},
	}
	require.Equal(t, "1: error: a\n2: error: b", errs.Error())
	require.Equal(t, "", SpecErrors{}.Error())
}
