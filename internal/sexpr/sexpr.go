// Package sexpr reads the small s-expression dialect used to print and parse
// plan terms and rewrite patterns.
//
// Atoms are whitespace separated. An atom starting with '<' runs until the
// matching '>' and may be followed by a ":<digits>" suffix, so label names may
// contain any character other than '>'.
package sexpr

import (
	"fmt"
	"strings"
	"unicode"
)

// Node is either an atom or a list.
type Node struct {
	Atom string
	List []Node
	Pos  int
}

// IsAtom returns true if the node is an atom.
func (n Node) IsAtom() bool { return n.List == nil }

func (n Node) String() string {
	if n.IsAtom() {
		return n.Atom
	}
	parts := make([]string, 0, len(n.List))
	for _, child := range n.List {
		parts = append(parts, child.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// SyntaxError is returned for malformed input.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

// Parse reads exactly one s-expression from the input.
func Parse(input string) (Node, error) {
	r := &reader{input: []rune(input)}
	n, err := r.read()
	if err != nil {
		return Node{}, err
	}
	r.skipSpace()
	if r.pos < len(r.input) {
		return Node{}, SyntaxError{r.pos, fmt.Sprintf("unexpected trailing input %q", string(r.input[r.pos:]))}
	}
	return n, nil
}

type reader struct {
	input []rune
	pos   int
}

func (r *reader) skipSpace() {
	for r.pos < len(r.input) && unicode.IsSpace(r.input[r.pos]) {
		r.pos++
	}
}

func (r *reader) read() (Node, error) {
	r.skipSpace()
	if r.pos >= len(r.input) {
		return Node{}, SyntaxError{r.pos, "unexpected end of input"}
	}

	start := r.pos
	switch r.input[r.pos] {
	case '(':
		r.pos++
		list := []Node{}
		for {
			r.skipSpace()
			if r.pos >= len(r.input) {
				return Node{}, SyntaxError{start, "unclosed list"}
			}
			if r.input[r.pos] == ')' {
				r.pos++
				break
			}
			child, err := r.read()
			if err != nil {
				return Node{}, err
			}
			list = append(list, child)
		}
		if len(list) == 0 {
			return Node{}, SyntaxError{start, "empty list"}
		}
		return Node{List: list, Pos: start}, nil

	case ')':
		return Node{}, SyntaxError{start, "unexpected ')'"}

	case '<':
		for r.pos < len(r.input) && r.input[r.pos] != '>' {
			r.pos++
		}
		if r.pos >= len(r.input) {
			return Node{}, SyntaxError{start, "unclosed '<'"}
		}
		r.pos++
		for r.pos < len(r.input) && !unicode.IsSpace(r.input[r.pos]) && r.input[r.pos] != '(' && r.input[r.pos] != ')' {
			r.pos++
		}
		return Node{Atom: string(r.input[start:r.pos]), Pos: start}, nil

	default:
		for r.pos < len(r.input) && !unicode.IsSpace(r.input[r.pos]) && r.input[r.pos] != '(' && r.input[r.pos] != ')' {
			r.pos++
		}
		return Node{Atom: string(r.input[start:r.pos]), Pos: start}, nil
	}
}
