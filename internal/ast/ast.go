// Package ast defines the syntax tree node types produced by the parser
// and consumed read-only by the analyser and generator.
package ast

import (
	"strings"

	"github.com/go-minic/minic/internal/lexer"
)

// Node is the base interface every syntax tree node implements.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Program is the root node: an ordered sequence of function declarations
// and definitions.
type Program struct {
	Functions []*Function
}

func (p *Program) Pos() lexer.Position {
	if len(p.Functions) > 0 {
		return p.Functions[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var sb strings.Builder
	for i, fn := range p.Functions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fn.String())
	}
	return sb.String()
}

// Function is either a forward declaration (Body == nil) or a definition.
type Function struct {
	Token  lexer.Token // the "int" token introducing the function
	Name   string
	Params []string    // parameter names; every parameter is typed "int"
	Body   []BlockItem // nil for a forward declaration
}

func (f *Function) Pos() lexer.Position { return f.Token.Pos }

func (f *Function) String() string {
	var sb strings.Builder
	sb.WriteString("int ")
	sb.WriteString(f.Name)
	sb.WriteString("(")
	params := make([]string, len(f.Params))
	for i, n := range f.Params {
		params[i] = "int " + n
	}
	sb.WriteString(strings.Join(params, ", "))
	sb.WriteString(")")
	if f.Body == nil {
		sb.WriteString(";")
		return sb.String()
	}
	sb.WriteString(" {\n")
	for _, item := range f.Body {
		sb.WriteString("  ")
		sb.WriteString(item.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// BlockItem is either a Declaration or a Statement.
type BlockItem interface {
	Node
	blockItemNode()
}

// Declaration introduces a local variable, optionally initialised.
type Declaration struct {
	Token lexer.Token // the "int" token
	Name  string
	Init  Expression // nil if uninitialised
}

func (d *Declaration) Pos() lexer.Position { return d.Token.Pos }
func (d *Declaration) blockItemNode()       {}
func (d *Declaration) String() string {
	if d.Init == nil {
		return "int " + d.Name + ";"
	}
	return "int " + d.Name + " = " + d.Init.String() + ";"
}
