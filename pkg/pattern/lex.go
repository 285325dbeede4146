// Based on design first introduced in: http://blog.golang.org/two-go-talks-lexical-scanning-in-go-and

package pattern

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

const eofRune = -1

// TokenType identifies the type of lexer lexemes.
type TokenType int

const (
	TokenTypeError TokenType = iota // error occurred; value is text of error
	TokenTypeEOF
	TokenTypeWhitespace

	TokenTypeIRI      // <http://example.org/knows>
	TokenTypeVariable // ?x

	TokenTypeDiv          // /
	TokenTypePipe         // |
	TokenTypeStar         // *
	TokenTypePlus         // +
	TokenTypeQuestionMark // ?
	TokenTypeLeftParen    // (
	TokenTypeRightParen   // )
)

func (t TokenType) String() string {
	switch t {
	case TokenTypeError:
		return "error"
	case TokenTypeEOF:
		return "end of input"
	case TokenTypeWhitespace:
		return "whitespace"
	case TokenTypeIRI:
		return "IRI"
	case TokenTypeVariable:
		return "variable"
	case TokenTypeDiv:
		return "'/'"
	case TokenTypePipe:
		return "'|'"
	case TokenTypeStar:
		return "'*'"
	case TokenTypePlus:
		return "'+'"
	case TokenTypeQuestionMark:
		return "'?'"
	case TokenTypeLeftParen:
		return "'('"
	case TokenTypeRightParen:
		return "')'"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Lexeme represents a token returned from scanning a query.
type Lexeme struct {
	Kind     TokenType // The type of this lexeme.
	Position int       // The starting byte position of this token in the input string.
	Value    string    // The textual value of this token.
	Error    string    // The error associated with the lexeme, if any.
}

// stateFn represents the state of the scanner as a function that returns the next state.
type stateFn func(*lexer) stateFn

// lexer holds the state of the scanner. Unlike a streaming lexer it runs to
// completion on the calling goroutine; queries are a single short line.
type lexer struct {
	input  string   // the string being scanned
	pos    int      // current position in the input
	start  int      // start position of this token
	width  int      // width of last rune read from input
	tokens []Lexeme // scanned lexemes
}

// lex scans the whole input and returns its lexemes, ending with either an
// EOF or an error lexeme. Whitespace is dropped.
func lex(input string) []Lexeme {
	l := &lexer{input: input}
	for state := lexQuery; state != nil; {
		state = state(l)
	}
	return l.tokens
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eofRune
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += l.width
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// value returns the current value of the token in the lexer.
func (l *lexer) value() string {
	return l.input[l.start:l.pos]
}

// emit records a token and starts the next one.
func (l *lexer) emit(t TokenType) {
	if t != TokenTypeWhitespace {
		l.tokens = append(l.tokens, Lexeme{t, l.start, l.value(), ""})
	}
	l.start = l.pos
}

// errorf records an error token and terminates the scan by returning a nil
// state.
func (l *lexer) errorf(format string, args ...any) stateFn {
	l.tokens = append(l.tokens, Lexeme{TokenTypeError, l.start, l.value(), fmt.Sprintf(format, args...)})
	return nil
}

var singleRuneTokens = map[rune]TokenType{
	'/': TokenTypeDiv,
	'|': TokenTypePipe,
	'*': TokenTypeStar,
	'+': TokenTypePlus,
	'(': TokenTypeLeftParen,
	')': TokenTypeRightParen,
}

// lexQuery scans until the end of the input.
func lexQuery(l *lexer) stateFn {
	r := l.next()
	switch {
	case r == eofRune:
		l.emit(TokenTypeEOF)
		return nil

	case unicode.IsSpace(r):
		for unicode.IsSpace(l.peek()) {
			l.next()
		}
		l.emit(TokenTypeWhitespace)
		return lexQuery

	case r == '<':
		return lexIRI

	case r == '?':
		// A question mark directly followed by a name starts a variable;
		// otherwise it is the optional modifier.
		if isNameRune(l.peek()) {
			return lexVariable
		}
		l.emit(TokenTypeQuestionMark)
		return lexQuery
	}

	if t, ok := singleRuneTokens[r]; ok {
		l.emit(t)
		return lexQuery
	}

	return l.errorf("unexpected character %q", r)
}

// lexIRI scans the remainder of an IRI after its opening '<'.
func lexIRI(l *lexer) stateFn {
	for {
		switch l.next() {
		case '>':
			l.emit(TokenTypeIRI)
			return lexQuery
		case eofRune:
			return l.errorf("unterminated IRI")
		}
	}
}

// lexVariable scans the name of a variable after its leading '?'.
func lexVariable(l *lexer) stateFn {
	for isNameRune(l.peek()) {
		l.next()
	}
	l.emit(TokenTypeVariable)
	return lexQuery
}

func isNameRune(r rune) bool {
	return r != eofRune && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}
