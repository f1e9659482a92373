package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	verr "github.com/nihei9/lookahead/error"
	"github.com/nihei9/lookahead/grammar"
	"github.com/nihei9/lookahead/spec"
)

// grammarSource is a grammar file given as an argument, or the standard
// input copied to a temporary file so that error messages can quote lines.
type grammarSource struct {
	path       string
	sourceName string
	tmpDirPath string
}

func openGrammarSource(args []string, stdin io.Reader) (*grammarSource, error) {
	if len(args) > 0 {
		return &grammarSource{
			path:       args[0],
			sourceName: args[0],
		}, nil
	}

	tmpDirPath, err := os.MkdirTemp("", "lookahead-*")
	if err != nil {
		return nil, err
	}
	src, err := io.ReadAll(stdin)
	if err != nil {
		os.RemoveAll(tmpDirPath)
		return nil, err
	}
	path := filepath.Join(tmpDirPath, "stdin.jj")
	err = os.WriteFile(path, src, 0600)
	if err != nil {
		os.RemoveAll(tmpDirPath)
		return nil, err
	}
	return &grammarSource{
		path:       path,
		sourceName: "stdin",
		tmpDirPath: tmpDirPath,
	}, nil
}

func (s *grammarSource) close() {
	if s.tmpDirPath == "" {
		return
	}
	os.RemoveAll(s.tmpDirPath)
}

// name returns the file name without its extension.
func (s *grammarSource) name() string {
	if s.tmpDirPath != "" {
		return "stdin"
	}
	base := filepath.Base(s.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// annotate attaches the source location to spec errors.
func (s *grammarSource) annotate(err error) {
	var specErrs verr.SpecErrors
	if !errors.As(err, &specErrs) {
		return
	}
	for _, e := range specErrs {
		e.FilePath = s.path
		e.SourceName = s.sourceName
	}
}

// analyze parses, builds, and analyzes the grammar. The result is nil when
// the grammar cannot be built.
func (s *grammarSource) analyze(opts ...grammar.Option) (*grammar.Result, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", s.path, err)
	}
	defer f.Close()

	ast, err := spec.Parse(f)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build()
	if err != nil {
		return nil, err
	}

	return grammar.Analyze(g, opts...)
}
