package codegen

import (
	"github.com/go-minic/minic/internal/ast"
	"github.com/go-minic/minic/internal/lexer"
)

func (g *Generator) generateBlockItem(item ast.BlockItem) *GenerationError {
	switch it := item.(type) {
	case *ast.Declaration:
		return g.generateDeclaration(it)
	case ast.Statement:
		return g.generateStatement(it)
	}
	return nil
}

// generateDeclaration implements spec.md §4.4.2: an initialised
// declaration evaluates its initialiser and pushes it; an uninitialised
// one pushes a zero so that the bound slot always exists (subsequent
// reads and writes are legal either way).
func (g *Generator) generateDeclaration(d *ast.Declaration) *GenerationError {
	if d.Init != nil {
		if err := g.generateExpr(d.Init); err != nil {
			return err
		}
	} else {
		g.emit("movq\t$0, %rax\n")
	}
	g.emit("pushq\t%rax\n")
	_, err := g.declare(d.Name, d.Pos())
	return err
}

func (g *Generator) generateStatement(stmt ast.Statement) *GenerationError {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		if s.Value != nil {
			if err := g.generateExpr(s.Value); err != nil {
				return err
			}
		} else {
			g.emit("movq\t$0, %rax\n")
		}
		g.emit("movq\t%rbp, %rsp\n")
		g.emit("popq\t%rbp\n")
		g.emit("ret\n")
		return nil

	case *ast.ExprStmt:
		if s.Value == nil {
			return nil
		}
		return g.generateExpr(s.Value)

	case *ast.IfStmt:
		return g.generateIf(s)

	case *ast.CompoundStmt:
		g.pushScope()
		for _, item := range s.Items {
			if err := g.generateBlockItem(item); err != nil {
				g.popScope()
				return err
			}
		}
		g.popScope()
		return nil

	case *ast.ForStmt:
		return g.generateFor(s)

	case *ast.ForDeclStmt:
		return g.generateForDecl(s)

	case *ast.WhileStmt:
		return g.generateWhile(s)

	case *ast.DoStmt:
		return g.generateDo(s)

	case *ast.BreakStmt:
		return g.generateBreak(s.Pos())

	case *ast.ContinueStmt:
		return g.generateContinue(s.Pos())
	}
	return nil
}

func (g *Generator) generateIf(s *ast.IfStmt) *GenerationError {
	falseLabel := g.newLabel()
	endLabel := g.newLabel()

	if err := g.generateExpr(s.Cond); err != nil {
		return err
	}
	g.emit("cmpq\t$0, %rax\n")
	g.emitf("je\t%s\n", falseLabel)
	if err := g.generateStatement(s.Then); err != nil {
		return err
	}
	g.emitf("jmp\t%s\n", endLabel)
	g.emitf("%s:\n", falseLabel)
	if s.Else != nil {
		if err := g.generateStatement(s.Else); err != nil {
			return err
		}
	}
	g.emitf("%s:\n", endLabel)
	return nil
}

func (g *Generator) generateWhile(s *ast.WhileStmt) *GenerationError {
	startLabel := g.newLabel()
	endLabel := g.newLabel()

	g.pushLoop(loopContext{startLabel: startLabel, endLabel: endLabel, depth: len(g.scopes)})
	defer g.popLoop()

	g.emitf("%s:\n", startLabel)
	if err := g.generateExpr(s.Cond); err != nil {
		return err
	}
	g.emit("cmpq\t$0, %rax\n")
	g.emitf("je\t%s\n", endLabel)
	if err := g.generateStatement(s.Body); err != nil {
		return err
	}
	g.emitf("jmp\t%s\n", startLabel)
	g.emitf("%s:\n", endLabel)
	return nil
}

func (g *Generator) generateDo(s *ast.DoStmt) *GenerationError {
	startLabel := g.newLabel()
	endLabel := g.newLabel()

	g.pushLoop(loopContext{startLabel: startLabel, endLabel: endLabel, depth: len(g.scopes)})
	defer g.popLoop()

	g.emitf("%s:\n", startLabel)
	if err := g.generateStatement(s.Body); err != nil {
		return err
	}
	if err := g.generateExpr(s.Cond); err != nil {
		return err
	}
	g.emit("cmpq\t$0, %rax\n")
	g.emitf("je\t%s\n", endLabel)
	g.emitf("jmp\t%s\n", startLabel)
	g.emitf("%s:\n", endLabel)
	return nil
}

// generateFor and generateForDecl share the same lowering; the only
// difference is whether the init-clause is a plain expression or a
// declaration owned by the loop's own scope (spec.md §3: "For-declaration
// loops own their initialiser in a scope that strictly contains the
// body").
func (g *Generator) generateFor(s *ast.ForStmt) *GenerationError {
	g.pushScope()
	defer g.popScope()

	if s.Init != nil {
		if err := g.generateExpr(s.Init); err != nil {
			return err
		}
	}
	return g.generateForBody(s.Cond, s.Post, s.Body)
}

func (g *Generator) generateForDecl(s *ast.ForDeclStmt) *GenerationError {
	g.pushScope()
	defer g.popScope()

	if err := g.generateDeclaration(s.Init); err != nil {
		return err
	}
	return g.generateForBody(s.Cond, s.Post, s.Body)
}

// generateForBody emits the COND/CONT/END lowering shared by both for
// forms. CONT is the loop's start-label for continue purposes (it must
// reach the post-expression, not the condition); END is its end-label.
func (g *Generator) generateForBody(cond, post ast.Expression, body ast.Statement) *GenerationError {
	condLabel := g.newLabel()
	contLabel := g.newLabel()
	endLabel := g.newLabel()

	g.pushLoop(loopContext{startLabel: contLabel, endLabel: endLabel, depth: len(g.scopes)})
	defer g.popLoop()

	g.emitf("%s:\n", condLabel)
	if err := g.generateExpr(cond); err != nil {
		return err
	}
	g.emit("cmpq\t$0, %rax\n")
	g.emitf("je\t%s\n", endLabel)
	if err := g.generateStatement(body); err != nil {
		return err
	}
	g.emitf("%s:\n", contLabel)
	if post != nil {
		if err := g.generateExpr(post); err != nil {
			return err
		}
	}
	g.emitf("jmp\t%s\n", condLabel)
	g.emitf("%s:\n", endLabel)
	return nil
}

func (g *Generator) generateBreak(pos lexer.Position) *GenerationError {
	loop, ok := g.currentLoop()
	if !ok {
		return &GenerationError{Kind: BreakOutsideLoop, Message: "break outside any loop", Pos: pos}
	}
	if n := g.bytesSince(loop.depth); n > 0 {
		g.emitf("addq\t$%d, %%rsp\n", n)
	}
	g.emitf("jmp\t%s\n", loop.endLabel)
	return nil
}

func (g *Generator) generateContinue(pos lexer.Position) *GenerationError {
	loop, ok := g.currentLoop()
	if !ok {
		return &GenerationError{Kind: ContinueOutsideLoop, Message: "continue outside any loop", Pos: pos}
	}
	if n := g.bytesSince(loop.depth); n > 0 {
		g.emitf("addq\t$%d, %%rsp\n", n)
	}
	g.emitf("jmp\t%s\n", loop.startLabel)
	return nil
}
