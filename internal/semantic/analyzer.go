// Package semantic walks a parsed program once, checking that every
// function call names a declared function with an agreeing argument
// count. See spec.md §4.3 for the exact policy; variable
// declaration-before-use is deliberately left to the generator (§9 of
// spec.md explains the split).
package semantic

import (
	"fmt"

	"github.com/go-minic/minic/internal/ast"
)

// Analyzer holds the scope stack used across one Analyze call. It must
// not be reused as a package-level singleton: a fresh Analyzer belongs to
// exactly one compilation, matching the no-shared-state rule in spec.md §5.
type Analyzer struct {
	scopes *scopeStack
}

// New creates an Analyzer ready for a single Analyze call.
func New() *Analyzer {
	return &Analyzer{scopes: newScopeStack()}
}

// Analyze walks prog once and returns the first FunctionError found, or
// nil if the program passes.
func Analyze(prog *ast.Program) *FunctionError {
	a := New()
	return a.analyzeProgram(prog)
}

// analyzeProgram walks functions in declaration order, declaring each
// signature before analysing its body. A function's own signature is
// visible to its body (so direct recursion never needs a forward
// declaration), but a later function's signature is not visible to an
// earlier one unless it was forward-declared first — this is what makes
// "declaration-before-use of functions" an enforced rule rather than a
// name merely present somewhere in the file.
func (a *Analyzer) analyzeProgram(prog *ast.Program) *FunctionError {
	for _, fn := range prog.Functions {
		if err := a.declareFunction(fn); err != nil {
			return err
		}
		if fn.Body == nil {
			continue
		}
		a.scopes.push()
		for _, p := range fn.Params {
			a.scopes.defineVariable(p)
		}
		for _, item := range fn.Body {
			if err := a.analyzeBlockItem(item); err != nil {
				a.scopes.pop()
				return err
			}
		}
		a.scopes.pop()
	}
	return nil
}

// declareFunction records fn's signature in the global scope. A name seen
// again must agree on arity; disagreeing redeclarations are an error,
// agreeing ones (forward declarations, or the eventual definition) are
// tolerated.
func (a *Analyzer) declareFunction(fn *ast.Function) *FunctionError {
	existing, isVar := a.scopes.lookupFunction(fn.Name)
	if isVar {
		return &FunctionError{
			Reason: InconsistentRedeclaration,
			Name:   fn.Name,
			Detail: fmt.Sprintf("%q is already declared as a variable", fn.Name),
			Pos:    fn.Pos(),
		}
	}
	if existing != nil && existing.Arity != len(fn.Params) {
		return &FunctionError{
			Reason: InconsistentRedeclaration,
			Name:   fn.Name,
			Detail: fmt.Sprintf("redeclaration of %q with %d parameter(s), previously declared with %d", fn.Name, len(fn.Params), existing.Arity),
			Pos:    fn.Pos(),
		}
	}
	a.scopes.defineFunction(fn.Name, len(fn.Params))
	return nil
}

func (a *Analyzer) analyzeBlockItem(item ast.BlockItem) *FunctionError {
	switch it := item.(type) {
	case *ast.Declaration:
		if it.Init != nil {
			if err := a.analyzeExpr(it.Init); err != nil {
				return err
			}
		}
		a.scopes.defineVariable(it.Name)
		return nil
	case ast.Statement:
		return a.analyzeStatement(it)
	}
	return nil
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement) *FunctionError {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		if s.Value != nil {
			return a.analyzeExpr(s.Value)
		}
	case *ast.ExprStmt:
		if s.Value != nil {
			return a.analyzeExpr(s.Value)
		}
	case *ast.IfStmt:
		if err := a.analyzeExpr(s.Cond); err != nil {
			return err
		}
		if err := a.analyzeStatement(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return a.analyzeStatement(s.Else)
		}
	case *ast.CompoundStmt:
		a.scopes.push()
		defer a.scopes.pop()
		for _, item := range s.Items {
			if err := a.analyzeBlockItem(item); err != nil {
				return err
			}
		}
	case *ast.ForStmt:
		a.scopes.push()
		defer a.scopes.pop()
		if s.Init != nil {
			if err := a.analyzeExpr(s.Init); err != nil {
				return err
			}
		}
		if err := a.analyzeExpr(s.Cond); err != nil {
			return err
		}
		if s.Post != nil {
			if err := a.analyzeExpr(s.Post); err != nil {
				return err
			}
		}
		return a.analyzeStatement(s.Body)
	case *ast.ForDeclStmt:
		a.scopes.push()
		defer a.scopes.pop()
		if s.Init.Init != nil {
			if err := a.analyzeExpr(s.Init.Init); err != nil {
				return err
			}
		}
		a.scopes.defineVariable(s.Init.Name)
		if err := a.analyzeExpr(s.Cond); err != nil {
			return err
		}
		if s.Post != nil {
			if err := a.analyzeExpr(s.Post); err != nil {
				return err
			}
		}
		return a.analyzeStatement(s.Body)
	case *ast.WhileStmt:
		if err := a.analyzeExpr(s.Cond); err != nil {
			return err
		}
		return a.analyzeStatement(s.Body)
	case *ast.DoStmt:
		if err := a.analyzeStatement(s.Body); err != nil {
			return err
		}
		return a.analyzeExpr(s.Cond)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// Loop-context validation is a generator responsibility; see
		// spec.md §4.3's note that invariant is "permitted but not
		// required" to be enforced here.
	}
	return nil
}

func (a *Analyzer) analyzeExpr(expr ast.Expression) *FunctionError {
	switch e := expr.(type) {
	case *ast.Assignment:
		return a.analyzeExpr(e.Value)
	case *ast.Conditional:
		if err := a.analyzeExpr(e.Cond); err != nil {
			return err
		}
		if err := a.analyzeExpr(e.Then); err != nil {
			return err
		}
		return a.analyzeExpr(e.Else)
	case *ast.BinaryChain:
		if err := a.analyzeExpr(e.First); err != nil {
			return err
		}
		for _, r := range e.Rest {
			if err := a.analyzeExpr(r.Operand); err != nil {
				return err
			}
		}
	case *ast.UnaryExpr:
		return a.analyzeExpr(e.Operand)
	case *ast.Grouping:
		return a.analyzeExpr(e.Inner)
	case *ast.CallExpr:
		sym, isVar := a.scopes.lookupFunction(e.Name)
		if isVar {
			return &FunctionError{
				Reason: CallTargetIsVariable,
				Name:   e.Name,
				Detail: fmt.Sprintf("%q is a variable, not a function", e.Name),
				Pos:    e.Pos(),
			}
		}
		if sym == nil {
			return &FunctionError{
				Reason: UndeclaredCall,
				Name:   e.Name,
				Detail: fmt.Sprintf("call to undeclared function %q", e.Name),
				Pos:    e.Pos(),
			}
		}
		if sym.Arity != len(e.Args) {
			return &FunctionError{
				Reason: ArityMismatch,
				Name:   e.Name,
				Detail: fmt.Sprintf("%q expects %d argument(s), got %d", e.Name, sym.Arity, len(e.Args)),
				Pos:    e.Pos(),
			}
		}
		for _, arg := range e.Args {
			if err := a.analyzeExpr(arg); err != nil {
				return err
			}
		}
	case *ast.Identifier, *ast.IntLiteral:
		// Not validated here; see package doc comment.
	}
	return nil
}
