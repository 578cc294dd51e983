package ast

import (
	"strconv"
	"strings"

	"github.com/go-minic/minic/internal/lexer"
)

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// BinOp is an operator token spelled as text, used at every stratified
// binary-expression level ("+", "==", "&&", ...).
type BinOp string

// Assignment is "name = expr". The grammar gives identifier-then-"=" a
// two-token lookahead so it is distinguished from a Conditional expression
// that merely starts with an identifier.
type Assignment struct {
	Token lexer.Token // the identifier token
	Name  string
	Value Expression
}

func (e *Assignment) expressionNode()        {}
func (e *Assignment) Pos() lexer.Position    { return e.Token.Pos }
func (e *Assignment) String() string         { return e.Name + " = " + e.Value.String() }

// Conditional is the ternary "cond ? then : else". It is right-associative:
// the else-branch recurses into another Conditional.
type Conditional struct {
	Token lexer.Token
	Cond  Expression // a LogicalOr
	Then  Expression // a full Expression
	Else  Expression // a Conditional (or lower, by construction)
}

func (e *Conditional) expressionNode()     {}
func (e *Conditional) Pos() lexer.Position { return e.Token.Pos }
func (e *Conditional) String() string {
	return "(" + e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String() + ")"
}

// BinaryChain encodes one stratified precedence level: a first operand
// plus a left-to-right list of (operator, operand) pairs. This structure
// makes left-associativity intrinsic to the tree shape: evaluation folds
// First, then each Rest pair in order.
type BinaryChain struct {
	First Expression
	Rest  []BinaryOp
}

// BinaryOp pairs an operator with its right-hand operand.
type BinaryOp struct {
	Op      BinOp
	Operand Expression
	Token   lexer.Token
}

func (e *BinaryChain) expressionNode() {}
func (e *BinaryChain) Pos() lexer.Position {
	return e.First.Pos()
}
func (e *BinaryChain) String() string {
	if len(e.Rest) == 0 {
		return e.First.String()
	}
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(e.First.String())
	for _, r := range e.Rest {
		sb.WriteString(" ")
		sb.WriteString(string(r.Op))
		sb.WriteString(" ")
		sb.WriteString(r.Operand.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// UnaryExpr applies a prefix operator ("-", "~", "!") to a Factor.
type UnaryExpr struct {
	Token   lexer.Token
	Op      BinOp
	Operand Expression
}

func (e *UnaryExpr) expressionNode()     {}
func (e *UnaryExpr) Pos() lexer.Position { return e.Token.Pos }
func (e *UnaryExpr) String() string {
	return string(e.Op) + e.Operand.String()
}

// Grouping is a parenthesised expression, kept as a distinct node so
// pretty-printing round-trips the source's explicit parenthesisation.
type Grouping struct {
	Token lexer.Token
	Inner Expression
}

func (e *Grouping) expressionNode()     {}
func (e *Grouping) Pos() lexer.Position { return e.Token.Pos }
func (e *Grouping) String() string      { return "(" + e.Inner.String() + ")" }

// Identifier is a variable reference.
type Identifier struct {
	Token lexer.Token
	Name  string
}

func (e *Identifier) expressionNode()     {}
func (e *Identifier) Pos() lexer.Position { return e.Token.Pos }
func (e *Identifier) String() string      { return e.Name }

// IntLiteral is an integer constant; the lexer already validated it parses
// as an i32.
type IntLiteral struct {
	Token lexer.Token
	Value int32
}

func (e *IntLiteral) expressionNode()     {}
func (e *IntLiteral) Pos() lexer.Position { return e.Token.Pos }
func (e *IntLiteral) String() string      { return strconv.FormatInt(int64(e.Value), 10) }

// CallExpr is "name ( args... )".
type CallExpr struct {
	Token lexer.Token
	Name  string
	Args  []Expression
}

func (e *CallExpr) expressionNode()     {}
func (e *CallExpr) Pos() lexer.Position { return e.Token.Pos }
func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Name + "(" + strings.Join(args, ", ") + ")"
}
