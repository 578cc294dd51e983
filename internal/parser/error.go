package parser

import (
	"fmt"

	"github.com/go-minic/minic/internal/lexer"
)

// ParseErrorKind classifies why parsing stopped.
type ParseErrorKind int

const (
	// ExpectedToken means the token stream ran out mid-production.
	ExpectedToken ParseErrorKind = iota
	// UnexpectedToken means the next token is the wrong kind for the
	// current production.
	UnexpectedToken
)

// ParseError is the error the parser surfaces; the first one aborts
// parsing with no recovery.
type ParseError struct {
	Kind       ParseErrorKind
	Token      lexer.Token
	Production string
	Pos        lexer.Position
}

func (e *ParseError) Error() string {
	if e.Kind == ExpectedToken {
		return fmt.Sprintf("unexpected end of input while parsing %s at %s", e.Production, e.Pos)
	}
	return fmt.Sprintf("unexpected token %s while parsing %s at %s", e.Token, e.Production, e.Pos)
}
