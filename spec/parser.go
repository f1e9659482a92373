package spec

import (
	"io"

	verr "github.com/nihei9/lookahead/error"
)

type RootNode struct {
	TokenProductions []*TokenProductionNode
	Productions      []*ProductionNode
}

// TokenKind is the kind of a token production.
type TokenKind string

const (
	TokenKindToken        = TokenKind("TOKEN")
	TokenKindSkip         = TokenKind("SKIP")
	TokenKindMore         = TokenKind("MORE")
	TokenKindSpecialToken = TokenKind("SPECIAL_TOKEN")
)

type TokenProductionNode struct {
	Kind       TokenKind
	IgnoreCase bool
	States     []*StateNode
	Specs      []*RegexpSpecNode
	Pos        Position
}

type StateNode struct {
	Name string
	Pos  Position
}

type RegexpSpecNode struct {
	Regexp    *RegexpNode
	NextState *StateNode
	Pos       Position
}

type RegexpKind string

const (
	RegexpKindString     = RegexpKind("string")
	RegexpKindRef        = RegexpKind("ref")
	RegexpKindPattern    = RegexpKind("pattern")
	RegexpKindSequence   = RegexpKind("sequence")
	RegexpKindChoice     = RegexpKind("choice")
	RegexpKindZeroOrOne  = RegexpKind("?")
	RegexpKindZeroOrMore = RegexpKind("*")
	RegexpKindOneOrMore  = RegexpKind("+")
)

// RegexpNode is a regular expression. Label and Private are meaningful only
// for the outermost node of a definition like <#LABEL: ...>.
type RegexpNode struct {
	Kind     RegexpKind
	Label    string
	Private  bool
	Text     string
	Children []*RegexpNode
	Pos      Position
}

type ProductionNode struct {
	Name string
	Body *ExpansionNode
	Pos  Position
}

type ExpansionKind string

const (
	ExpansionKindTerminal    = ExpansionKind("terminal")
	ExpansionKindNonTerminal = ExpansionKind("non-terminal")
	ExpansionKindSequence    = ExpansionKind("sequence")
	ExpansionKindChoice      = ExpansionKind("choice")
	ExpansionKindZeroOrOne   = ExpansionKind("[...]")
	ExpansionKindZeroOrMore  = ExpansionKind("(...)*")
	ExpansionKindOneOrMore   = ExpansionKind("(...)+")
	ExpansionKindTry         = ExpansionKind("try")
)

// ExpansionNode is a node of a production body. Choice children are always
// sequences; repetitions and try blocks have exactly one child.
type ExpansionNode struct {
	Kind      ExpansionKind
	Children  []*ExpansionNode
	Regexp    *RegexpNode
	Name      string
	Lookahead *LookaheadNode
	Pos       Position
}

type LookaheadNode struct {
	Amount    int
	HasAmount bool
	Expansion *ExpansionNode
	Predicate string
	Pos       Position
}

func raiseSyntaxError(pos Position, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   pos.Row,
		Col:   pos.Col,
	})
}

func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
	pos       Position
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
		pos: newPosition(1, 1),
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			specErr, ok := err.(*verr.SpecError)
			if !ok {
				panic(err)
			}
			retErr = verr.SpecErrors{specErr}
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for {
		if p.consume(tokenKindEOF) {
			break
		}
		if tp := p.parseTokenProduction(); tp != nil {
			root.TokenProductions = append(root.TokenProductions, tp)
			continue
		}
		root.Productions = append(root.Productions, p.parseProduction())
	}
	if len(root.Productions) == 0 {
		raiseSyntaxError(p.pos, synErrNoDeclaration)
	}
	tracer().Debugf("parsed %v token productions and %v productions", len(root.TokenProductions), len(root.Productions))
	return root
}

func (p *parser) parseTokenProduction() *TokenProductionNode {
	var kind TokenKind
	switch {
	case p.consume(tokenKindKWToken):
		kind = TokenKindToken
	case p.consume(tokenKindKWSkip):
		kind = TokenKindSkip
	case p.consume(tokenKindKWMore):
		kind = TokenKindMore
	case p.consume(tokenKindKWSpecialToken):
		kind = TokenKindSpecialToken
	default:
		return nil
	}
	tp := &TokenProductionNode{
		Kind: kind,
		Pos:  p.lastTok.pos,
	}
	if p.consume(tokenKindLBracket) {
		if !p.consume(tokenKindKWIgnoreCase) {
			raiseSyntaxError(p.pos, synErrNoIgnoreCase)
		}
		tp.IgnoreCase = true
		if !p.consume(tokenKindRBracket) {
			raiseSyntaxError(p.pos, synErrUnclosedOption)
		}
	}
	if p.consume(tokenKindLAngle) {
		for {
			if !p.consume(tokenKindID) {
				raiseSyntaxError(p.pos, synErrNoStateName)
			}
			tp.States = append(tp.States, &StateNode{
				Name: p.lastTok.text,
				Pos:  p.lastTok.pos,
			})
			if !p.consume(tokenKindComma) {
				break
			}
		}
		if !p.consume(tokenKindRAngle) {
			raiseSyntaxError(p.pos, synErrUnclosedStateList)
		}
	}
	if !p.consume(tokenKindColon) {
		raiseSyntaxError(p.pos, synErrNoColon)
	}
	for {
		tp.Specs = append(tp.Specs, p.parseRegexpSpec())
		if !p.consume(tokenKindOr) {
			break
		}
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(p.pos, synErrNoSemicolon)
	}
	return tp
}

func (p *parser) parseRegexpSpec() *RegexpSpecNode {
	re := p.parseTopLevelRegexp()
	if re == nil {
		raiseSyntaxError(p.pos, synErrNoRegexp)
	}
	spec := &RegexpSpecNode{
		Regexp: re,
		Pos:    re.Pos,
	}
	if p.consume(tokenKindArrow) {
		if !p.consume(tokenKindID) {
			raiseSyntaxError(p.pos, synErrNoNextState)
		}
		spec.NextState = &StateNode{
			Name: p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	}
	return spec
}

// parseTopLevelRegexp parses a string literal, a reference <LABEL>, or a
// definition <LABEL: ...> / <#LABEL: ...> / <...>.
func (p *parser) parseTopLevelRegexp() *RegexpNode {
	if p.consume(tokenKindStringLiteral) {
		return &RegexpNode{
			Kind: RegexpKindString,
			Text: p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	}
	if !p.consume(tokenKindLAngle) {
		return nil
	}
	pos := p.lastTok.pos
	private := p.consume(tokenKindHash)
	if p.consume(tokenKindID) {
		label := p.lastTok.text
		labelPos := p.lastTok.pos
		if !private && p.consume(tokenKindRAngle) {
			return &RegexpNode{
				Kind: RegexpKindRef,
				Text: label,
				Pos:  labelPos,
			}
		}
		if !p.consume(tokenKindColon) {
			raiseSyntaxError(p.pos, synErrUnclosedRegexp)
		}
		re := p.parseRegexpChoice()
		if !p.consume(tokenKindRAngle) {
			raiseSyntaxError(p.pos, synErrUnclosedRegexp)
		}
		re.Label = label
		re.Private = private
		re.Pos = pos
		return re
	}
	if private {
		raiseSyntaxError(p.pos, synErrNoLabel)
	}
	re := p.parseRegexpChoice()
	if !p.consume(tokenKindRAngle) {
		raiseSyntaxError(p.pos, synErrUnclosedRegexp)
	}
	re.Pos = pos
	return re
}

func (p *parser) parseRegexpChoice() *RegexpNode {
	seq := p.parseRegexpSequence()
	if !p.consume(tokenKindOr) {
		return seq
	}
	choice := &RegexpNode{
		Kind:     RegexpKindChoice,
		Children: []*RegexpNode{seq},
		Pos:      seq.Pos,
	}
	for {
		choice.Children = append(choice.Children, p.parseRegexpSequence())
		if !p.consume(tokenKindOr) {
			break
		}
	}
	return choice
}

func (p *parser) parseRegexpSequence() *RegexpNode {
	var units []*RegexpNode
	for {
		u := p.parseRegexpUnit()
		if u == nil {
			break
		}
		units = append(units, u)
	}
	if len(units) == 0 {
		raiseSyntaxError(p.pos, synErrNoRegexp)
	}
	if len(units) == 1 {
		return units[0]
	}
	return &RegexpNode{
		Kind:     RegexpKindSequence,
		Children: units,
		Pos:      units[0].Pos,
	}
}

func (p *parser) parseRegexpUnit() *RegexpNode {
	var re *RegexpNode
	switch {
	case p.consume(tokenKindStringLiteral):
		re = &RegexpNode{
			Kind: RegexpKindString,
			Text: p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	case p.consume(tokenKindPattern):
		re = &RegexpNode{
			Kind: RegexpKindPattern,
			Text: p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	case p.consume(tokenKindLAngle):
		if !p.consume(tokenKindID) {
			raiseSyntaxError(p.pos, synErrNoLabel)
		}
		re = &RegexpNode{
			Kind: RegexpKindRef,
			Text: p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
		if !p.consume(tokenKindRAngle) {
			raiseSyntaxError(p.pos, synErrUnclosedRegexp)
		}
	case p.consume(tokenKindLParen):
		re = p.parseRegexpChoice()
		if !p.consume(tokenKindRParen) {
			raiseSyntaxError(p.pos, synErrUnclosedGroup)
		}
	default:
		return nil
	}
	var kind RegexpKind
	switch {
	case p.consume(tokenKindStar):
		kind = RegexpKindZeroOrMore
	case p.consume(tokenKindPlus):
		kind = RegexpKindOneOrMore
	case p.consume(tokenKindQuestion):
		kind = RegexpKindZeroOrOne
	default:
		return re
	}
	return &RegexpNode{
		Kind:     kind,
		Children: []*RegexpNode{re},
		Pos:      re.Pos,
	}
}

func (p *parser) parseProduction() *ProductionNode {
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.pos, synErrNoProductionName)
	}
	prod := &ProductionNode{
		Name: p.lastTok.text,
		Pos:  p.lastTok.pos,
	}
	if !p.consume(tokenKindColon) {
		raiseSyntaxError(p.pos, synErrNoColon)
	}
	prod.Body = p.parseExpansionChoice()
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(p.pos, synErrNoSemicolon)
	}
	return prod
}

// parseExpansionChoice returns a sequence when there is only one alternative.
func (p *parser) parseExpansionChoice() *ExpansionNode {
	seq := p.parseExpansionSequence()
	if !p.consume(tokenKindOr) {
		return seq
	}
	choice := &ExpansionNode{
		Kind:     ExpansionKindChoice,
		Children: []*ExpansionNode{seq},
		Pos:      seq.Pos,
	}
	for {
		choice.Children = append(choice.Children, p.parseExpansionSequence())
		if !p.consume(tokenKindOr) {
			break
		}
	}
	return choice
}

func (p *parser) parseExpansionSequence() *ExpansionNode {
	seq := &ExpansionNode{
		Kind: ExpansionKindSequence,
		Pos:  p.pos,
	}
	if p.consume(tokenKindKWLookahead) {
		seq.Lookahead = p.parseLookahead()
		seq.Pos = seq.Lookahead.Pos
	}
	for {
		if p.consume(tokenKindKWLookahead) {
			raiseSyntaxError(p.lastTok.pos, synErrLookaheadNotFirst)
		}
		u := p.parseExpansionUnit()
		if u == nil {
			break
		}
		if len(seq.Children) == 0 && seq.Lookahead == nil {
			seq.Pos = u.Pos
		}
		seq.Children = append(seq.Children, u)
	}
	return seq
}

// parseLookahead parses the arguments of LOOKAHEAD(...). The amount, the
// syntactic expansion, and the semantic predicate are all optional but at
// least one must be present.
func (p *parser) parseLookahead() *LookaheadNode {
	la := &LookaheadNode{
		Pos: p.lastTok.pos,
	}
	if !p.consume(tokenKindLParen) {
		raiseSyntaxError(p.pos, synErrNoLookaheadParen)
	}
	if p.consume(tokenKindInteger) {
		la.Amount = p.lastTok.num
		la.HasAmount = true
		p.consume(tokenKindComma)
	}
	if !p.peek(tokenKindPredicate) && !p.peek(tokenKindRParen) {
		exp := p.parseExpansionChoice()
		if exp.Kind != ExpansionKindSequence || len(exp.Children) > 0 || exp.Lookahead != nil {
			la.Expansion = exp
		}
		p.consume(tokenKindComma)
	}
	if p.consume(tokenKindPredicate) {
		la.Predicate = p.lastTok.text
	}
	if !p.consume(tokenKindRParen) {
		raiseSyntaxError(p.pos, synErrUnclosedLookahead)
	}
	if !la.HasAmount && la.Expansion == nil && la.Predicate == "" {
		raiseSyntaxError(la.Pos, synErrEmptyLookahead)
	}
	return la
}

func (p *parser) parseExpansionUnit() *ExpansionNode {
	switch {
	case p.consume(tokenKindID):
		return &ExpansionNode{
			Kind: ExpansionKindNonTerminal,
			Name: p.lastTok.text,
			Pos:  p.lastTok.pos,
		}
	case p.peek(tokenKindStringLiteral) || p.peek(tokenKindLAngle):
		re := p.parseTopLevelRegexp()
		return &ExpansionNode{
			Kind:   ExpansionKindTerminal,
			Regexp: re,
			Pos:    re.Pos,
		}
	case p.consume(tokenKindLParen):
		pos := p.lastTok.pos
		body := p.parseExpansionChoice()
		if !p.consume(tokenKindRParen) {
			raiseSyntaxError(p.pos, synErrUnclosedGroup)
		}
		var kind ExpansionKind
		switch {
		case p.consume(tokenKindStar):
			kind = ExpansionKindZeroOrMore
		case p.consume(tokenKindPlus):
			kind = ExpansionKindOneOrMore
		case p.consume(tokenKindQuestion):
			kind = ExpansionKindZeroOrOne
		default:
			return body
		}
		return &ExpansionNode{
			Kind:     kind,
			Children: []*ExpansionNode{body},
			Pos:      pos,
		}
	case p.consume(tokenKindLBracket):
		pos := p.lastTok.pos
		body := p.parseExpansionChoice()
		if !p.consume(tokenKindRBracket) {
			raiseSyntaxError(p.pos, synErrUnclosedOptional)
		}
		return &ExpansionNode{
			Kind:     ExpansionKindZeroOrOne,
			Children: []*ExpansionNode{body},
			Pos:      pos,
		}
	case p.consume(tokenKindKWTry):
		pos := p.lastTok.pos
		if !p.consume(tokenKindLParen) {
			raiseSyntaxError(p.pos, synErrNoTryParen)
		}
		body := p.parseExpansionChoice()
		if !p.consume(tokenKindRParen) {
			raiseSyntaxError(p.pos, synErrUnclosedTry)
		}
		return &ExpansionNode{
			Kind:     ExpansionKindTry,
			Children: []*ExpansionNode{body},
			Pos:      pos,
		}
	}
	return nil
}

func (p *parser) fetch() *token {
	if p.peekedTok != nil {
		tok := p.peekedTok
		p.peekedTok = nil
		return tok
	}
	tok, err := p.lex.next()
	if err != nil {
		if lexErr, ok := err.(*lexError); ok {
			raiseSyntaxError(lexErr.pos, lexErr.cause)
		}
		panic(&verr.SpecError{
			Cause: err,
			Row:   p.pos.Row,
			Col:   p.pos.Col,
		})
	}
	return tok
}

func (p *parser) peek(expected tokenKind) bool {
	tok := p.fetch()
	p.peekedTok = tok
	p.pos = tok.pos
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(tok.pos, synErrInvalidToken)
	}
	return tok.kind == expected
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.fetch()
	p.pos = tok.pos
	p.lastTok = tok
	if tok.kind == tokenKindInvalid {
		raiseSyntaxError(tok.pos, synErrInvalidToken)
	}
	if tok.kind == expected {
		return true
	}
	p.peekedTok = tok
	p.lastTok = nil

	return false
}
