package spec

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'lookahead.spec'.
func tracer() tracing.Trace {
	return tracing.Select("lookahead.spec")
}

type tokenKind string

const (
	tokenKindKWToken        = tokenKind("TOKEN")
	tokenKindKWSkip         = tokenKind("SKIP")
	tokenKindKWMore         = tokenKind("MORE")
	tokenKindKWSpecialToken = tokenKind("SPECIAL_TOKEN")
	tokenKindKWIgnoreCase   = tokenKind("IGNORE_CASE")
	tokenKindKWLookahead    = tokenKind("LOOKAHEAD")
	tokenKindKWTry          = tokenKind("try")
	tokenKindID             = tokenKind("id")
	tokenKindStringLiteral  = tokenKind("string")
	tokenKindPattern        = tokenKind("pattern")
	tokenKindPredicate      = tokenKind("predicate")
	tokenKindInteger        = tokenKind("integer")
	tokenKindArrow          = tokenKind("->")
	tokenKindColon          = tokenKind(":")
	tokenKindSemicolon      = tokenKind(";")
	tokenKindComma          = tokenKind(",")
	tokenKindOr             = tokenKind("|")
	tokenKindLAngle         = tokenKind("<")
	tokenKindRAngle         = tokenKind(">")
	tokenKindHash           = tokenKind("#")
	tokenKindLParen         = tokenKind("(")
	tokenKindRParen         = tokenKind(")")
	tokenKindLBracket       = tokenKind("[")
	tokenKindRBracket       = tokenKind("]")
	tokenKindStar           = tokenKind("*")
	tokenKindPlus           = tokenKind("+")
	tokenKindQuestion       = tokenKind("?")
	tokenKindEOF            = tokenKind("eof")
	tokenKindInvalid        = tokenKind("invalid")
)

// lexmachine token types are indexes into this table.
var tokenKinds = []tokenKind{
	tokenKindKWToken,
	tokenKindKWSkip,
	tokenKindKWMore,
	tokenKindKWSpecialToken,
	tokenKindKWIgnoreCase,
	tokenKindKWLookahead,
	tokenKindKWTry,
	tokenKindID,
	tokenKindStringLiteral,
	tokenKindPattern,
	tokenKindPredicate,
	tokenKindInteger,
	tokenKindArrow,
	tokenKindColon,
	tokenKindSemicolon,
	tokenKindComma,
	tokenKindOr,
	tokenKindLAngle,
	tokenKindRAngle,
	tokenKindHash,
	tokenKindLParen,
	tokenKindRParen,
	tokenKindLBracket,
	tokenKindRBracket,
	tokenKindStar,
	tokenKindPlus,
	tokenKindQuestion,
}

// Position is a 1-based location in a grammar source.
type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

func (p Position) String() string {
	return fmt.Sprintf("%v:%v", p.Row, p.Col)
}

type token struct {
	kind tokenKind
	text string
	num  int
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newTextToken(kind tokenKind, text string, pos Position) *token {
	return &token{
		kind: kind,
		text: text,
		pos:  pos,
	}
}

func newIntegerToken(num int, pos Position) *token {
	return &token{
		kind: tokenKindInteger,
		num:  num,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

var (
	lexDef    *lexmachine.Lexer
	lexDefErr error
	lexOnce   sync.Once
)

// literalPattern escapes every byte of a literal the way lexmachine expects.
func literalPattern(lit string) string {
	return "\\" + strings.Join(strings.Split(lit, ""), "\\")
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(kindIndex int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(kindIndex, string(m.Bytes), m), nil
	}
}

func lexerDefinition() (*lexmachine.Lexer, error) {
	lexOnce.Do(func() {
		l := lexmachine.NewLexer()
		l.Add([]byte(`( |\t|\r|\n)+`), skip)
		l.Add([]byte(`//[^\n]*`), skip)
		l.Add([]byte(`/\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`), skip)
		for i, kind := range tokenKinds {
			var pat string
			switch kind {
			case tokenKindKWToken, tokenKindKWSkip, tokenKindKWMore, tokenKindKWSpecialToken,
				tokenKindKWIgnoreCase, tokenKindKWLookahead, tokenKindKWTry:
				pat = string(kind)
			case tokenKindID:
				pat = `[A-Za-z_][A-Za-z0-9_]*`
			case tokenKindStringLiteral:
				pat = `"([^"\\\n]|(\\[^\n]))*"`
			case tokenKindPattern:
				pat = "`[^`]*`"
			case tokenKindPredicate:
				pat = `\{[^}]*\}`
			case tokenKindInteger:
				pat = `[0-9]+`
			default:
				pat = literalPattern(string(kind))
			}
			l.Add([]byte(pat), makeToken(i))
		}
		err := l.Compile()
		if err != nil {
			tracer().Errorf("error compiling the DFA: %v", err)
			lexDefErr = err
			return
		}
		lexDef = l
	})
	return lexDef, lexDefErr
}

type lexer struct {
	s       *lexmachine.Scanner
	lastPos Position
}

func newLexer(src io.Reader) (*lexer, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	def, err := lexerDefinition()
	if err != nil {
		return nil, err
	}
	s, err := def.Scanner(b)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s:       s,
		lastPos: newPosition(1, 1),
	}, nil
}

func (l *lexer) next() (*token, error) {
	tok, err, eof := l.s.Next()
	if err != nil {
		ui, ok := err.(*machines.UnconsumedInput)
		if !ok {
			return nil, err
		}
		pos := newPosition(ui.StartLine, ui.StartColumn)
		text := unconsumedText(ui)
		l.s.TC = ui.FailTC
		if strings.HasPrefix(text, `"`) {
			return nil, &lexError{cause: synErrUnclosedString, pos: pos}
		}
		return newInvalidToken(text, pos), nil
	}
	if eof {
		return newEOFToken(l.lastPos), nil
	}

	t := tok.(*lexmachine.Token)
	pos := newPosition(t.StartLine, t.StartColumn)
	l.lastPos = pos
	kind := tokenKinds[t.Type]
	lexeme := string(t.Lexeme)
	switch kind {
	case tokenKindID:
		return newTextToken(kind, lexeme, pos), nil
	case tokenKindStringLiteral:
		s, ok := unescapeString(lexeme[1 : len(lexeme)-1])
		if !ok {
			return nil, &lexError{cause: synErrInvalidEscSeq, pos: pos}
		}
		if s == "" {
			return nil, &lexError{cause: synErrEmptyString, pos: pos}
		}
		return newTextToken(kind, s, pos), nil
	case tokenKindPattern:
		p := lexeme[1 : len(lexeme)-1]
		if p == "" {
			return nil, &lexError{cause: synErrEmptyPattern, pos: pos}
		}
		return newTextToken(kind, p, pos), nil
	case tokenKindPredicate:
		p := strings.TrimSpace(lexeme[1 : len(lexeme)-1])
		if p == "" {
			return nil, &lexError{cause: synErrEmptyPredicate, pos: pos}
		}
		return newTextToken(kind, p, pos), nil
	case tokenKindInteger:
		n, err := strconv.Atoi(lexeme)
		if err != nil {
			return nil, &lexError{cause: synErrInvalidInteger, pos: pos}
		}
		return newIntegerToken(n, pos), nil
	}
	return newSymbolToken(kind, pos), nil
}

func unconsumedText(ui *machines.UnconsumedInput) string {
	from, to := ui.StartTC, ui.FailTC
	if to > len(ui.Text) {
		to = len(ui.Text)
	}
	if from < 0 || from >= to {
		return ""
	}
	return string(ui.Text[from:to])
}

func unescapeString(s string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", false
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '"', '\\', '\'':
			b.WriteByte(s[i])
		default:
			return "", false
		}
	}
	return b.String(), true
}

type lexError struct {
	cause *SyntaxError
	pos   Position
}

func (e *lexError) Error() string {
	return fmt.Sprintf("%v: %v", e.pos, e.cause)
}
