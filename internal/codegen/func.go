package codegen

import "github.com/go-minic/minic/internal/ast"

func (g *Generator) generateFunction(fn *ast.Function) *GenerationError {
	g.stackIndex = -8
	g.scopes = nil
	g.loops = nil

	g.emitf(".globl %s\n%s:\n", fn.Name, fn.Name)
	g.emit("pushq\t%rbp\n")
	g.emit("movq\t%rsp, %rbp\n")

	g.pushScope()
	for i, param := range fn.Params {
		if i >= len(argRegisters) {
			return &GenerationError{Kind: DuplicateDeclaration, Name: param, Message: "more parameters than available argument registers", Pos: fn.Pos()}
		}
		if _, err := g.declare(param, fn.Pos()); err != nil {
			return err
		}
		g.emitf("pushq\t%s\n", argRegisters[i])
	}

	for _, item := range fn.Body {
		if err := g.generateBlockItem(item); err != nil {
			g.popScope()
			return err
		}
	}
	g.popScope()

	if !endsInReturn(fn.Body) {
		g.emit("movq\t%rbp, %rsp\n")
		g.emit("popq\t%rbp\n")
		g.emit("movq\t$0, %rax\n")
		g.emit("ret\n")
	}
	return nil
}

// endsInReturn reports whether a function body's last top-level item is
// unconditionally a return. This is a syntactic check, not a full
// reachability analysis (optimisation and flow analysis are out of scope
// per spec.md §1) — it is enough to avoid emitting a dead default
// epilogue after a trailing "return ...;".
func endsInReturn(body []ast.BlockItem) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(*ast.ReturnStmt)
	return ok
}
