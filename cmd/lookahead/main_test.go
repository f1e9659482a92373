package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	verr "github.com/nihei9/lookahead/error"
	"github.com/nihei9/lookahead/grammar"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"
)

const testGrammar = `
S : "a" B | "a" C ;
B : "b" ;
C : "c" ;
`

func TestGrammarSource_Stdin(t *testing.T) {
	src, err := openGrammarSource(nil, strings.NewReader(testGrammar))
	require.NoError(t, err)
	require.Equal(t, "stdin", src.name())
	tmpDirPath := src.tmpDirPath

	res, err := src.analyze()
	require.NoError(t, err)
	require.Len(t, res.Phase2, 1)
	require.Equal(t, 1, res.Count(grammar.CodeAmbiguousChoice))

	src.close()
	_, err = os.Stat(tmpDirPath)
	require.True(t, os.IsNotExist(err))
}

func TestGrammarSource_Annotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jj")
	require.NoError(t, os.WriteFile(path, []byte(`S : "a" B ;`), 0600))

	src, err := openGrammarSource([]string{path}, nil)
	require.NoError(t, err)
	require.Equal(t, "broken", src.name())

	_, err = src.analyze()
	require.Error(t, err)
	src.annotate(err)

	var specErrs verr.SpecErrors
	require.True(t, errors.As(err, &specErrs))
	require.Len(t, specErrs, 1)
	require.Equal(t, path, specErrs[0].SourceName)
	require.Contains(t, specErrs[0].Error(), `S : "a" B ;`)
}

func TestWriteDescription(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	src, err := openGrammarSource(nil, strings.NewReader(testGrammar))
	require.NoError(t, err)
	defer src.close()
	res, err := src.analyze(grammar.LookaheadLimit(2))
	require.NoError(t, err)
	desc, err := res.Describe("abc")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "abc.json")
	require.NoError(t, writeDescriptionFile(desc, path, nil))
	read, err := readDescription(path)
	require.NoError(t, err)
	require.Equal(t, desc, read)

	var b bytes.Buffer
	require.NoError(t, writeDescription(&b, read))
	out := b.String()
	require.Contains(t, out, "abc")
	require.Contains(t, out, "Phase-3 routines")
	require.Contains(t, out, desc.Phase2[0].Name)
	require.Contains(t, out, "phase3R_2")
	require.Contains(t, out, string(grammar.CodeLookaheadCheckSkipped))
}

func TestAmountText(t *testing.T) {
	require.Equal(t, "2", amountText(2))
	require.Equal(t, "unbounded", amountText(2147483647))
}
