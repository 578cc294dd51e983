// Package parser implements a single-pass recursive-descent parser for the
// grammar in spec.md §4.2, producing an *ast.Program.
package parser

import (
	"strconv"

	"github.com/go-minic/minic/internal/ast"
	"github.com/go-minic/minic/internal/lexer"
)

// Parser consumes a token sequence and builds the syntax tree. It keeps a
// single token of lookahead, extended to two tokens only for the
// identifier-then-"=" case.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New wraps a pre-lexed token sequence. The sequence must end in an EOF
// token, as produced by lexer.Lex.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) cur() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos+1 < len(p.tokens) {
		p.pos++
	}
	return t
}

// expect consumes the current token if it matches tt, else returns a
// ParseError naming production as the context.
func (p *Parser) expect(tt lexer.TokenType, production string) (lexer.Token, *ParseError) {
	tok := p.cur()
	if tok.Type == lexer.EOF && tt != lexer.EOF {
		return lexer.Token{}, &ParseError{Kind: ExpectedToken, Token: tok, Production: production, Pos: tok.Pos}
	}
	if tok.Type != tt {
		return lexer.Token{}, &ParseError{Kind: UnexpectedToken, Token: tok, Production: production, Pos: tok.Pos}
	}
	return p.advance(), nil
}

// ParseProgram parses a whole token sequence as a program: zero or more
// functions followed by EOF.
func ParseProgram(tokens []lexer.Token) (*ast.Program, *ParseError) {
	p := New(tokens)
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	return prog, nil
}

func (p *Parser) parseProgram() (*ast.Program, *ParseError) {
	prog := &ast.Program{}
	for p.cur().Type != lexer.EOF {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

func (p *Parser) parseFunction() (*ast.Function, *ParseError) {
	tok, err := p.expect(lexer.KEYWORD_INT, "function")
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT, "function")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "function parameter list"); err != nil {
		return nil, err
	}

	var params []string
	if p.cur().Type != lexer.RPAREN {
		for {
			if _, err := p.expect(lexer.KEYWORD_INT, "function parameter"); err != nil {
				return nil, err
			}
			paramTok, err := p.expect(lexer.IDENT, "function parameter")
			if err != nil {
				return nil, err
			}
			params = append(params, paramTok.Literal)
			if p.cur().Type != lexer.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RPAREN, "function parameter list"); err != nil {
		return nil, err
	}

	fn := &ast.Function{Token: tok, Name: nameTok.Literal, Params: params}

	if p.cur().Type == lexer.SEMI {
		p.advance()
		return fn, nil // forward declaration, no body
	}

	if _, err := p.expect(lexer.LBRACE, "function body"); err != nil {
		return nil, err
	}
	for p.cur().Type != lexer.RBRACE {
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		fn.Body = append(fn.Body, item)
	}
	if _, err := p.expect(lexer.RBRACE, "function body"); err != nil {
		return nil, err
	}
	if fn.Body == nil {
		fn.Body = []ast.BlockItem{}
	}
	return fn, nil
}

func (p *Parser) parseBlockItem() (ast.BlockItem, *ParseError) {
	if p.cur().Type == lexer.KEYWORD_INT {
		return p.parseDeclaration()
	}
	return p.parseStatement()
}

func (p *Parser) parseDeclaration() (*ast.Declaration, *ParseError) {
	tok, err := p.expect(lexer.KEYWORD_INT, "declaration")
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT, "declaration")
	if err != nil {
		return nil, err
	}
	decl := &ast.Declaration{Token: tok, Name: nameTok.Literal}
	if p.cur().Type == lexer.ASSIGN {
		p.advance()
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if _, err := p.expect(lexer.SEMI, "declaration"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseStatement() (ast.Statement, *ParseError) {
	switch p.cur().Type {
	case lexer.KEYWORD_RETURN:
		tok := p.advance()
		stmt := &ast.ReturnStmt{Token: tok}
		if p.cur().Type != lexer.SEMI {
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmt.Value = val
		}
		if _, err := p.expect(lexer.SEMI, "return statement"); err != nil {
			return nil, err
		}
		return stmt, nil

	case lexer.KEYWORD_IF:
		return p.parseIf()

	case lexer.LBRACE:
		return p.parseCompound()

	case lexer.KEYWORD_FOR:
		return p.parseFor()

	case lexer.KEYWORD_WHILE:
		return p.parseWhile()

	case lexer.KEYWORD_DO:
		return p.parseDo()

	case lexer.KEYWORD_BREAK:
		tok := p.advance()
		if _, err := p.expect(lexer.SEMI, "break statement"); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Token: tok}, nil

	case lexer.KEYWORD_CONTINUE:
		tok := p.advance()
		if _, err := p.expect(lexer.SEMI, "continue statement"); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Token: tok}, nil

	default:
		tok := p.cur()
		stmt := &ast.ExprStmt{Token: tok}
		if p.cur().Type != lexer.SEMI {
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmt.Value = val
		}
		if _, err := p.expect(lexer.SEMI, "expression statement"); err != nil {
			return nil, err
		}
		return stmt, nil
	}
}

func (p *Parser) parseIf() (*ast.IfStmt, *ParseError) {
	tok, err := p.expect(lexer.KEYWORD_IF, "if statement")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "if condition"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "if condition"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Token: tok, Cond: cond, Then: then}
	if p.cur().Type == lexer.KEYWORD_ELSE {
		p.advance()
		elseStmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmt
	}
	return stmt, nil
}

func (p *Parser) parseCompound() (*ast.CompoundStmt, *ParseError) {
	tok, err := p.expect(lexer.LBRACE, "compound statement")
	if err != nil {
		return nil, err
	}
	stmt := &ast.CompoundStmt{Token: tok}
	for p.cur().Type != lexer.RBRACE {
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		stmt.Items = append(stmt.Items, item)
	}
	if _, err := p.expect(lexer.RBRACE, "compound statement"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseFor dispatches to ForDeclStmt or ForStmt depending on whether the
// init-clause is a declaration.
func (p *Parser) parseFor() (ast.Statement, *ParseError) {
	tok, err := p.expect(lexer.KEYWORD_FOR, "for statement")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "for clause"); err != nil {
		return nil, err
	}

	if p.cur().Type == lexer.KEYWORD_INT {
		decl, err := p.parseDeclaration() // consumes the trailing ";"
		if err != nil {
			return nil, err
		}
		cond, err := p.parseForCond()
		if err != nil {
			return nil, err
		}
		post, err := p.parseForPost()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "for clause"); err != nil {
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &ast.ForDeclStmt{Token: tok, Init: decl, Cond: cond, Post: post, Body: body}, nil
	}

	var init ast.Expression
	if p.cur().Type != lexer.SEMI {
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMI, "for clause"); err != nil {
		return nil, err
	}
	cond, err := p.parseForCond()
	if err != nil {
		return nil, err
	}
	post, err := p.parseForPost()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "for clause"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Token: tok, Init: init, Cond: cond, Post: post, Body: body}, nil
}

// parseForCond parses the condition clause and its trailing ";". An empty
// condition is synthesised to the integer literal 1 (infinite loop).
func (p *Parser) parseForCond() (ast.Expression, *ParseError) {
	var cond ast.Expression
	if p.cur().Type != lexer.SEMI {
		c, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cond = c
	} else {
		cond = &ast.IntLiteral{Token: p.cur(), Value: 1}
	}
	if _, err := p.expect(lexer.SEMI, "for clause"); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseForPost parses the optional post-expression, up to (not consuming)
// the closing ")".
func (p *Parser) parseForPost() (ast.Expression, *ParseError) {
	if p.cur().Type == lexer.RPAREN {
		return nil, nil
	}
	return p.parseExpression()
}

func (p *Parser) parseWhile() (*ast.WhileStmt, *ParseError) {
	tok, err := p.expect(lexer.KEYWORD_WHILE, "while statement")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "while condition"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "while condition"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Token: tok, Cond: cond, Body: body}, nil
}

func (p *Parser) parseDo() (*ast.DoStmt, *ParseError) {
	tok, err := p.expect(lexer.KEYWORD_DO, "do-while statement")
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KEYWORD_WHILE, "do-while statement"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN, "do-while condition"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "do-while condition"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI, "do-while statement"); err != nil {
		return nil, err
	}
	return &ast.DoStmt{Token: tok, Body: body, Cond: cond}, nil
}

// parseExpression implements:
//
//	expression ::= ident "=" expression | conditional
//
// distinguishing the two alternatives with the grammar's one allowed
// two-token lookahead.
func (p *Parser) parseExpression() (ast.Expression, *ParseError) {
	if p.cur().Type == lexer.IDENT && p.peek().Type == lexer.ASSIGN {
		tok := p.advance()
		p.advance() // consume "="
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Token: tok, Name: tok.Literal, Value: value}, nil
	}
	return p.parseConditional()
}

func (p *Parser) parseConditional() (ast.Expression, *ParseError) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.QUESTION {
		return cond, nil
	}
	tok := p.advance()
	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON, "conditional expression"); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return &ast.Conditional{Token: tok, Cond: cond, Then: then, Else: elseExpr}, nil
}

func (p *Parser) parseBinary(production string, ops map[lexer.TokenType]ast.BinOp, next func(*Parser) (ast.Expression, *ParseError)) (ast.Expression, *ParseError) {
	first, err := next(p)
	if err != nil {
		return nil, err
	}
	chain := &ast.BinaryChain{First: first}
	for {
		op, ok := ops[p.cur().Type]
		if !ok {
			break
		}
		tok := p.advance()
		rhs, err := next(p)
		if err != nil {
			return nil, err
		}
		chain.Rest = append(chain.Rest, ast.BinaryOp{Op: op, Operand: rhs, Token: tok})
	}
	if len(chain.Rest) == 0 {
		return first, nil
	}
	return chain, nil
}

var logicalOrOps = map[lexer.TokenType]ast.BinOp{lexer.OR_OR: "||"}
var logicalAndOps = map[lexer.TokenType]ast.BinOp{lexer.AND_AND: "&&"}
var equalityOps = map[lexer.TokenType]ast.BinOp{lexer.EQ: "==", lexer.NOT_EQ: "!="}
var relationalOps = map[lexer.TokenType]ast.BinOp{
	lexer.LESS: "<", lexer.GREATER: ">", lexer.LESS_EQ: "<=", lexer.GREATER_EQ: ">=",
}
var additiveOps = map[lexer.TokenType]ast.BinOp{lexer.PLUS: "+", lexer.MINUS: "-"}
var termOps = map[lexer.TokenType]ast.BinOp{lexer.STAR: "*", lexer.SLASH: "/", lexer.PERCENT: "%"}

func (p *Parser) parseLogicalOr() (ast.Expression, *ParseError) {
	return p.parseBinary("logical-or expression", logicalOrOps, (*Parser).parseLogicalAnd)
}

func (p *Parser) parseLogicalAnd() (ast.Expression, *ParseError) {
	return p.parseBinary("logical-and expression", logicalAndOps, (*Parser).parseEquality)
}

func (p *Parser) parseEquality() (ast.Expression, *ParseError) {
	return p.parseBinary("equality expression", equalityOps, (*Parser).parseRelational)
}

func (p *Parser) parseRelational() (ast.Expression, *ParseError) {
	return p.parseBinary("relational expression", relationalOps, (*Parser).parseAdditive)
}

func (p *Parser) parseAdditive() (ast.Expression, *ParseError) {
	return p.parseBinary("additive expression", additiveOps, (*Parser).parseTerm)
}

func (p *Parser) parseTerm() (ast.Expression, *ParseError) {
	return p.parseBinary("term", termOps, (*Parser).parseFactor)
}

var unaryOps = map[lexer.TokenType]ast.BinOp{lexer.MINUS: "-", lexer.TILDE: "~", lexer.BANG: "!"}

func (p *Parser) parseFactor() (ast.Expression, *ParseError) {
	tok := p.cur()

	if tok.Type == lexer.LPAREN {
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "parenthesised expression"); err != nil {
			return nil, err
		}
		return &ast.Grouping{Token: tok, Inner: inner}, nil
	}

	if op, ok := unaryOps[tok.Type]; ok {
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Token: tok, Op: op, Operand: operand}, nil
	}

	if tok.Type == lexer.IDENT {
		p.advance()
		if p.cur().Type == lexer.LPAREN {
			p.advance() // consume "("
			var args []ast.Expression
			if p.cur().Type != lexer.RPAREN {
				for {
					arg, err := p.parseExpression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.cur().Type != lexer.COMMA {
						break
					}
					p.advance()
				}
			}
			if _, err := p.expect(lexer.RPAREN, "call arguments"); err != nil {
				return nil, err
			}
			return &ast.CallExpr{Token: tok, Name: tok.Literal, Args: args}, nil
		}
		return &ast.Identifier{Token: tok, Name: tok.Literal}, nil
	}

	if tok.Type == lexer.INT {
		p.advance()
		v, err := strconv.ParseInt(tok.Literal, 10, 32)
		if err != nil {
			return nil, &ParseError{Kind: UnexpectedToken, Token: tok, Production: "integer literal", Pos: tok.Pos}
		}
		return &ast.IntLiteral{Token: tok, Value: int32(v)}, nil
	}

	if tok.Type == lexer.EOF {
		return nil, &ParseError{Kind: ExpectedToken, Token: tok, Production: "factor", Pos: tok.Pos}
	}
	return nil, &ParseError{Kind: UnexpectedToken, Token: tok, Production: "factor", Pos: tok.Pos}
}
