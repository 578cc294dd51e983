// Package codegen walks a type-checked syntax tree and emits x86-64
// AT&T-syntax assembly text, following the stack-machine convention in
// spec.md §4.4: every expression leaves its value in %rax, locals live at
// fixed offsets below %rbp, and loops lower through a small loop-context
// stack so break/continue can unwind the right number of stack bytes.
package codegen

import (
	"fmt"
	"strings"

	"github.com/go-minic/minic/internal/ast"
	"github.com/go-minic/minic/internal/lexer"
)

// argRegisters are the System V AMD64 integer argument registers, in
// order. minic only supports up to this many parameters/arguments.
var argRegisters = []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

// Generator walks one *ast.Program and emits its assembly text. A
// Generator holds all of the mutable state a compilation needs — label
// counter included — and must not be shared across compilations (spec.md
// §5: the label counter is instance-scoped, never a package global).
type Generator struct {
	out          strings.Builder
	scopes       []*frameScope
	stackIndex   int
	labelCounter int
	loops        []loopContext
	emitNoteGNUStack bool
}

// Option configures a Generator at construction time.
type Option func(*Generator)

// WithGNUStackNote controls whether a trailing ".section .note.GNU-stack"
// directive is emitted, marking the object as not requiring an executable
// stack. Off by default, since spec.md's output contract is assembly text
// with only .globl directives and text labels.
func WithGNUStackNote(enabled bool) Option {
	return func(g *Generator) { g.emitNoteGNUStack = enabled }
}

// New creates a Generator ready for a single Generate call.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate emits the program's assembly text, or the first
// GenerationError encountered.
func Generate(prog *ast.Program, opts ...Option) (string, *GenerationError) {
	g := New(opts...)
	return g.generateProgram(prog)
}

func (g *Generator) generateProgram(prog *ast.Program) (string, *GenerationError) {
	for _, fn := range prog.Functions {
		if fn.Body == nil {
			continue // forward declaration: nothing to emit
		}
		if err := g.generateFunction(fn); err != nil {
			return "", err
		}
	}
	if g.emitNoteGNUStack {
		g.emit(".section .note.GNU-stack,\"\",@progbits\n")
	}
	return g.out.String(), nil
}

func (g *Generator) emit(s string) {
	g.out.WriteString(s)
}

func (g *Generator) emitf(format string, args ...any) {
	fmt.Fprintf(&g.out, format, args...)
}

func (g *Generator) newLabel() string {
	l := fmt.Sprintf("label_%d", g.labelCounter)
	g.labelCounter++
	return l
}

// pushScope opens a new lexical scope.
func (g *Generator) pushScope() {
	g.scopes = append(g.scopes, newFrameScope())
}

// popScope closes the innermost scope, emitting the %rsp adjustment to
// release its locals and handing their frame slots back to stackIndex.
func (g *Generator) popScope() {
	top := g.scopes[len(g.scopes)-1]
	g.scopes = g.scopes[:len(g.scopes)-1]
	g.stackIndex += top.bytes
	if top.bytes > 0 {
		g.emitf("addq\t$%d, %%rsp\n", top.bytes)
	}
}

// declare binds name to the next frame slot in the innermost scope. It is
// a GenerationError for name to already be bound in that same scope.
func (g *Generator) declare(name string, pos lexer.Position) (int, *GenerationError) {
	top := g.scopes[len(g.scopes)-1]
	if _, exists := top.offsets[name]; exists {
		return 0, &GenerationError{
			Kind:    DuplicateDeclaration,
			Name:    name,
			Message: fmt.Sprintf("redeclaration of %q in the same scope", name),
			Pos:     pos,
		}
	}
	offset := g.stackIndex
	top.offsets[name] = offset
	top.bytes += 8
	g.stackIndex -= 8
	return offset, nil
}

// lookup resolves name to a frame offset, walking scopes innermost-first
// so the nearest declaration shadows enclosing ones.
func (g *Generator) lookup(name string) (int, bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if off, ok := g.scopes[i].offsets[name]; ok {
			return off, true
		}
	}
	return 0, false
}

func (g *Generator) pushLoop(ctx loopContext) {
	g.loops = append(g.loops, ctx)
}

func (g *Generator) popLoop() {
	g.loops = g.loops[:len(g.loops)-1]
}

func (g *Generator) currentLoop() (loopContext, bool) {
	if len(g.loops) == 0 {
		return loopContext{}, false
	}
	return g.loops[len(g.loops)-1], true
}

// bytesSince sums the bytes occupied by every scope opened at index depth
// or later — the locals a break/continue must release before jumping.
func (g *Generator) bytesSince(depth int) int {
	total := 0
	for i := depth; i < len(g.scopes); i++ {
		total += g.scopes[i].bytes
	}
	return total
}
