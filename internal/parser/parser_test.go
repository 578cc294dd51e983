package parser

import (
	"testing"

	"github.com/go-minic/minic/internal/ast"
	"github.com/go-minic/minic/internal/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, lexErr := lexer.Lex(src)
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	prog, parseErr := ParseProgram(tokens)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	return prog
}

func TestParseSimpleFunction(t *testing.T) {
	prog := mustParse(t, `int main() { return 2 + 2; }`)

	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "main" {
		t.Fatalf("expected function named main, got %q", fn.Name)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 block item, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected a ReturnStmt, got %T", fn.Body[0])
	}
	chain, ok := ret.Value.(*ast.BinaryChain)
	if !ok {
		t.Fatalf("expected a BinaryChain, got %T", ret.Value)
	}
	if len(chain.Rest) != 1 || chain.Rest[0].Op != "+" {
		t.Fatalf("expected a single '+' operation, got %+v", chain.Rest)
	}
}

func TestParseForwardDeclaration(t *testing.T) {
	prog := mustParse(t, `int three();`)

	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	if prog.Functions[0].Body != nil {
		t.Fatalf("expected a nil body for a forward declaration")
	}
}

func TestParseParameters(t *testing.T) {
	prog := mustParse(t, `int add(int a, int b) { return a + b; }`)

	fn := prog.Functions[0]
	if len(fn.Params) != 2 || fn.Params[0] != "a" || fn.Params[1] != "b" {
		t.Fatalf("unexpected params: %v", fn.Params)
	}
}

func TestParseAssignmentVsConditionalLookahead(t *testing.T) {
	prog := mustParse(t, `int main() { int x = 0; x = 1; return x; }`)

	fn := prog.Functions[0]
	stmt, ok := fn.Body[1].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected an ExprStmt, got %T", fn.Body[1])
	}
	assign, ok := stmt.Value.(*ast.Assignment)
	if !ok {
		t.Fatalf("expected an Assignment, got %T", stmt.Value)
	}
	if assign.Name != "x" {
		t.Fatalf("expected assignment to x, got %q", assign.Name)
	}
}

func TestParseConditionalExpression(t *testing.T) {
	prog := mustParse(t, `int main() { return 1 ? 2 : 3; }`)

	ret := prog.Functions[0].Body[0].(*ast.ReturnStmt)
	cond, ok := ret.Value.(*ast.Conditional)
	if !ok {
		t.Fatalf("expected a Conditional, got %T", ret.Value)
	}
	if _, ok := cond.Cond.(*ast.IntLiteral); !ok {
		t.Fatalf("expected IntLiteral condition, got %T", cond.Cond)
	}
}

func TestParseForLoopVariants(t *testing.T) {
	prog := mustParse(t, `int main() {
		for (int i = 0; i < 10; i = i + 1) continue;
		for (; ; ) break;
		return 0;
	}`)

	fn := prog.Functions[0]
	if _, ok := fn.Body[0].(*ast.ForDeclStmt); !ok {
		t.Fatalf("expected a ForDeclStmt, got %T", fn.Body[0])
	}
	forStmt, ok := fn.Body[1].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected a ForStmt, got %T", fn.Body[1])
	}
	if _, ok := forStmt.Cond.(*ast.IntLiteral); !ok {
		t.Fatalf("expected an empty for-condition to synthesize an IntLiteral, got %T", forStmt.Cond)
	}
}

func TestParseCallVsIdentifierLookahead(t *testing.T) {
	prog := mustParse(t, `int main() { return f(1, 2) + x; }`)

	ret := prog.Functions[0].Body[0].(*ast.ReturnStmt)
	chain := ret.Value.(*ast.BinaryChain)
	call, ok := chain.First.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a CallExpr, got %T", chain.First)
	}
	if call.Name != "f" || len(call.Args) != 2 {
		t.Fatalf("unexpected call: %+v", call)
	}
	if _, ok := chain.Rest[0].Operand.(*ast.Identifier); !ok {
		t.Fatalf("expected an Identifier operand, got %T", chain.Rest[0].Operand)
	}
}

func TestParseUnexpectedTokenError(t *testing.T) {
	tokens, lexErr := lexer.Lex(`int main() { return 1 + ; }`)
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	_, parseErr := ParseProgram(tokens)
	if parseErr == nil {
		t.Fatal("expected a parse error for a dangling '+' with no right operand")
	}
	if parseErr.Kind != UnexpectedToken {
		t.Fatalf("expected UnexpectedToken, got %v", parseErr.Kind)
	}
}

func TestParseUnexpectedEOFError(t *testing.T) {
	tokens, lexErr := lexer.Lex(`int main() { return 1;`)
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	_, parseErr := ParseProgram(tokens)
	if parseErr == nil {
		t.Fatal("expected a parse error for an unterminated function body")
	}
	if parseErr.Kind != ExpectedToken {
		t.Fatalf("expected ExpectedToken, got %v", parseErr.Kind)
	}
}
