package codegen

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/go-minic/minic/internal/lexer"
	"github.com/go-minic/minic/internal/parser"
	"github.com/go-minic/minic/internal/semantic"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	tokens, lexErr := lexer.Lex(src)
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	prog, parseErr := parser.ParseProgram(tokens)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	if semErr := semantic.Analyze(prog); semErr != nil {
		t.Fatalf("unexpected semantic error: %v", semErr)
	}
	asm, genErr := Generate(prog)
	if genErr != nil {
		t.Fatalf("unexpected generation error: %v", genErr)
	}
	return asm
}

// These mirror the worked seed scenarios the specification uses to pin
// down evaluation order, short-circuiting, and loop-unwinding behaviour.

func TestGenerate_ReturnConstant(t *testing.T) {
	asm := compile(t, `int main() { return 2; }`)
	snaps.MatchSnapshot(t, "return_constant", asm)
}

func TestGenerate_Arithmetic(t *testing.T) {
	asm := compile(t, `int main() { return (1 + 2) * 3 - 4 / 2; }`)
	snaps.MatchSnapshot(t, "arithmetic", asm)
}

func TestGenerate_DivisionAndModulo(t *testing.T) {
	asm := compile(t, `int main() { return 17 / 5 + 17 % 5; }`)
	snaps.MatchSnapshot(t, "division_and_modulo", asm)
}

func TestGenerate_ShortCircuitAnd(t *testing.T) {
	asm := compile(t, `int main() { int x = 0; return (x = 1) && (x = 2); }`)
	snaps.MatchSnapshot(t, "short_circuit_and", asm)
}

func TestGenerate_ShortCircuitOr(t *testing.T) {
	asm := compile(t, `int main() { int x = 0; return (x = 1) || (x = 2); }`)
	snaps.MatchSnapshot(t, "short_circuit_or", asm)
}

func TestGenerate_IfElse(t *testing.T) {
	asm := compile(t, `int main() { if (1) return 1; else return 0; }`)
	snaps.MatchSnapshot(t, "if_else", asm)
}

func TestGenerate_WhileLoopWithBreakAndContinue(t *testing.T) {
	asm := compile(t, `int main() {
		int i = 0;
		int sum = 0;
		while (i < 10) {
			i = i + 1;
			if (i == 5) continue;
			if (i == 8) break;
			sum = sum + i;
		}
		return sum;
	}`)
	snaps.MatchSnapshot(t, "while_loop_with_break_and_continue", asm)
}

func TestGenerate_ForDeclLoop(t *testing.T) {
	asm := compile(t, `int main() {
		int sum = 0;
		for (int i = 0; i < 5; i = i + 1) {
			sum = sum + i;
		}
		return sum;
	}`)
	snaps.MatchSnapshot(t, "for_decl_loop", asm)
}

func TestGenerate_DoWhileLoop(t *testing.T) {
	asm := compile(t, `int main() {
		int i = 0;
		do {
			i = i + 1;
		} while (i < 3);
		return i;
	}`)
	snaps.MatchSnapshot(t, "do_while_loop", asm)
}

func TestGenerate_MultiFunctionForwardDeclaration(t *testing.T) {
	asm := compile(t, `int three();
		int main() { return three(); }
		int three() { return 3; }`)
	snaps.MatchSnapshot(t, "multi_function_forward_declaration", asm)
}

func TestGenerate_Recursion(t *testing.T) {
	asm := compile(t, `int fact(int n) {
		if (n <= 1) return 1;
		return n * fact(n - 1);
	}
	int main() { return fact(5); }`)
	snaps.MatchSnapshot(t, "recursion", asm)
}

func TestGenerate_ConditionalExpression(t *testing.T) {
	asm := compile(t, `int main() { int x = 7; return x > 5 ? 1 : 0; }`)
	snaps.MatchSnapshot(t, "conditional_expression", asm)
}

func TestGenerate_UndeclaredVariableIsAGeneratorError(t *testing.T) {
	tokens, lexErr := lexer.Lex(`int main() { return y; }`)
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	prog, parseErr := parser.ParseProgram(tokens)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	if semErr := semantic.Analyze(prog); semErr != nil {
		t.Fatalf("unexpected semantic error: %v", semErr)
	}
	_, genErr := Generate(prog)
	if genErr == nil {
		t.Fatal("expected an UndeclaredVariable generation error")
	}
	if genErr.Kind != UndeclaredVariable {
		t.Fatalf("expected UndeclaredVariable, got %v", genErr.Kind)
	}
}

func TestGenerate_BreakOutsideLoopIsAGeneratorError(t *testing.T) {
	tokens, lexErr := lexer.Lex(`int main() { break; }`)
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	prog, parseErr := parser.ParseProgram(tokens)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	_, genErr := Generate(prog)
	if genErr == nil {
		t.Fatal("expected a BreakOutsideLoop generation error")
	}
	if genErr.Kind != BreakOutsideLoop {
		t.Fatalf("expected BreakOutsideLoop, got %v", genErr.Kind)
	}
}

func TestGenerate_ContinueOutsideLoopIsAGeneratorError(t *testing.T) {
	tokens, lexErr := lexer.Lex(`int main() { continue; }`)
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	prog, parseErr := parser.ParseProgram(tokens)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	_, genErr := Generate(prog)
	if genErr == nil {
		t.Fatal("expected a ContinueOutsideLoop generation error")
	}
	if genErr.Kind != ContinueOutsideLoop {
		t.Fatalf("expected ContinueOutsideLoop, got %v", genErr.Kind)
	}
}

func TestGenerate_DuplicateDeclarationIsAGeneratorError(t *testing.T) {
	tokens, lexErr := lexer.Lex(`int main() { int x = 1; int x = 2; return x; }`)
	if lexErr != nil {
		t.Fatalf("unexpected lex error: %v", lexErr)
	}
	prog, parseErr := parser.ParseProgram(tokens)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	if semErr := semantic.Analyze(prog); semErr != nil {
		t.Fatalf("unexpected semantic error: %v", semErr)
	}
	_, genErr := Generate(prog)
	if genErr == nil {
		t.Fatal("expected a DuplicateDeclaration generation error")
	}
	if genErr.Kind != DuplicateDeclaration {
		t.Fatalf("expected DuplicateDeclaration, got %v", genErr.Kind)
	}
}

func TestGenerate_LabelCounterIsInstanceScoped(t *testing.T) {
	asmA := compile(t, `int main() { if (1) return 1; return 0; }`)
	asmB := compile(t, `int main() { if (1) return 1; return 0; }`)
	if asmA != asmB {
		t.Fatalf("two independent compilations of the same source should produce identical label numbering:\n%s\n---\n%s", asmA, asmB)
	}
}
