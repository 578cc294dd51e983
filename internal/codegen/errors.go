package codegen

import (
	"fmt"

	"github.com/go-minic/minic/internal/lexer"
)

// GenerationErrorKind enumerates the fatal conditions the generator can
// hit. As in the lexer, parser and analyser, every generator error is
// fatal: there is no recovery once code emission has started.
type GenerationErrorKind int

const (
	// UndeclaredVariable: a read or write names a variable with no
	// binding in any enclosing scope.
	UndeclaredVariable GenerationErrorKind = iota
	// DuplicateDeclaration: a name is declared twice in the same scope.
	DuplicateDeclaration
	// BreakOutsideLoop: a break statement with no enclosing loop context.
	BreakOutsideLoop
	// ContinueOutsideLoop: a continue statement with no enclosing loop
	// context.
	ContinueOutsideLoop
)

// GenerationError is the fatal error the generator surfaces.
type GenerationError struct {
	Kind    GenerationErrorKind
	Name    string
	Message string
	Pos     lexer.Position
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}
