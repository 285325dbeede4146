package pattern

import (
	"fmt"
	"strings"
)

// ParseError is returned when a query cannot be parsed.
type ParseError struct {
	Position int
	Message  string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", err.Position, err.Message)
}

// Parse parses a query of the form `vertex pattern vertex`.
//
// Vertices are written ?name (any vertex) or <name> (a specific vertex).
// Patterns are built from <label> atoms, postfix *, + and ?, sequences
// joined by / and alternatives joined by |. Both binary operators are left
// associative and / binds tighter than |. Parentheses group.
func Parse(query string) (Query, error) {
	tokens := lex(query)
	p := &parser{tokens: tokens}

	src, err := p.parseVertex()
	if err != nil {
		return Query{}, err
	}

	pattern, err := p.parseAlt()
	if err != nil {
		return Query{}, err
	}

	dest, err := p.parseVertex()
	if err != nil {
		return Query{}, err
	}

	if _, err := p.consume(TokenTypeEOF); err != nil {
		return Query{}, err
	}

	return Query{Src: src, Pattern: pattern, Dest: dest}, nil
}

// MustParse is Parse that panics on error. Intended for tests.
func MustParse(query string) Query {
	q, err := Parse(query)
	if err != nil {
		panic(fmt.Sprintf("invalid query %q: %v", query, err))
	}
	return q
}

type parser struct {
	tokens []Lexeme
	index  int
}

func (p *parser) current() Lexeme {
	if p.index >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.index]
}

func (p *parser) is(kind TokenType) bool {
	return p.current().Kind == kind
}

func (p *parser) errorAtCurrent(format string, args ...any) error {
	tok := p.current()
	if tok.Kind == TokenTypeError {
		return &ParseError{Position: tok.Position, Message: tok.Error}
	}
	return &ParseError{Position: tok.Position, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) consume(kind TokenType) (Lexeme, error) {
	tok := p.current()
	if tok.Kind != kind {
		return Lexeme{}, p.errorAtCurrent("expected %s, found %s", kind, describe(tok))
	}
	p.index++
	return tok, nil
}

func describe(tok Lexeme) string {
	if tok.Kind == TokenTypeEOF {
		return tok.Kind.String()
	}
	return fmt.Sprintf("%s %q", tok.Kind, tok.Value)
}

// parseVertex: ?name | <name>
func (p *parser) parseVertex() (Vertex, error) {
	tok := p.current()
	switch tok.Kind {
	case TokenTypeVariable:
		p.index++
		return Any(strings.TrimPrefix(tok.Value, "?")), nil
	case TokenTypeQuestionMark:
		p.index++
		return Any(""), nil
	case TokenTypeIRI:
		p.index++
		return Constant(unwrapIRI(tok.Value)), nil
	default:
		return Vertex{}, p.errorAtCurrent("expected a vertex, found %s", describe(tok))
	}
}

// parseAlt: seq ('|' seq)*
func (p *parser) parseAlt() (Pattern, error) {
	left, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	for p.is(TokenTypePipe) {
		p.index++
		right, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		left = &Alt{Left: left, Right: right}
	}
	return left, nil
}

// parseSeq: postfix ('/' postfix)*
func (p *parser) parseSeq() (Pattern, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.is(TokenTypeDiv) {
		p.index++
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		left = &Seq{Left: left, Right: right}
	}
	return left, nil
}

// parsePostfix: atom ('*' | '+' | '?')?
func (p *parser) parsePostfix() (Pattern, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	switch p.current().Kind {
	case TokenTypeStar:
		p.index++
		return &Star{Inner: atom}, nil
	case TokenTypePlus:
		p.index++
		return &Plus{Inner: atom}, nil
	case TokenTypeQuestionMark:
		// A bare '?' ending the query is the destination vertex, not a
		// modifier.
		if p.index+1 < len(p.tokens) && p.tokens[p.index+1].Kind == TokenTypeEOF {
			return atom, nil
		}
		p.index++
		return &Opt{Inner: atom}, nil
	default:
		return atom, nil
	}
}

// parseAtom: <label> | '(' alt ')'
func (p *parser) parseAtom() (Pattern, error) {
	tok := p.current()
	switch tok.Kind {
	case TokenTypeIRI:
		p.index++
		return &Label{URI: unwrapIRI(tok.Value)}, nil

	case TokenTypeLeftParen:
		p.index++
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(TokenTypeRightParen); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.errorAtCurrent("expected a label or '(', found %s", describe(tok))
	}
}

func unwrapIRI(value string) string {
	return strings.TrimSuffix(strings.TrimPrefix(value, "<"), ">")
}
