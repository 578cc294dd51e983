package semantic

import (
	"fmt"

	"github.com/go-minic/minic/internal/ccerrors"
	"github.com/go-minic/minic/internal/lexer"
)

// FunctionErrorReason enumerates the reasons the analyser rejects a
// function declaration or call site.
type FunctionErrorReason int

const (
	// UndeclaredCall: a call site names a function with no matching
	// declaration visible in any enclosing scope.
	UndeclaredCall FunctionErrorReason = iota
	// CallTargetIsVariable: a call site's name resolves to a variable,
	// not a function.
	CallTargetIsVariable
	// ArityMismatch: a call site's argument count disagrees with the
	// resolved function's declared parameter count.
	ArityMismatch
	// InconsistentRedeclaration: a function name is declared more than
	// once with differing parameter counts.
	InconsistentRedeclaration
)

// FunctionError is the one error kind spec.md §4.3 names: a problem with a
// function declaration or call site's name or arity.
type FunctionError struct {
	Reason FunctionErrorReason
	Name   string
	Detail string
	Pos    lexer.Position
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("%s at %s", e.Detail, e.Pos)
}

// ToCompilerError renders the error with source context, the way the
// driver reports every stage's first error.
func (e *FunctionError) ToCompilerError(source, file string) *ccerrors.CompilerError {
	return ccerrors.New(e.Pos.Line, e.Pos.Column, e.Detail, source, file)
}
