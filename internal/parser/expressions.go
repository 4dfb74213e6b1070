package parser

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/diagnostics"
	"github.com/loomlang/loom/internal/token"
)

// startsAtom reports whether t can begin an argument-position expression.
func startsAtom(t token.TokenType) bool {
	switch t {
	case token.INT, token.STRING, token.IDENT, token.UPPER, token.LPAREN:
		return true
	}
	return false
}

// parseExpression is a Pratt loop over infix operators. Application by
// juxtaposition binds tighter than every operator and is handled inside
// parseApplication.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parseApplication()
	if left == nil {
		return nil
	}

	for p.peekTokenIs(token.OPERATOR) && precedence < precedenceOf(p.peekToken.Literal) {
		p.nextToken()
		left = p.parseInfixExpression(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token: p.curToken,
		Left:  left,
		Op:    p.curToken,
	}
	prec := precedenceOf(p.curToken.Literal)
	p.nextToken()
	expr.Right = p.parseExpression(prec)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseApplication parses an atom followed by juxtaposed argument atoms:
// `f x (g y)` or a constructor application `Pair 1 2`.
func (p *Parser) parseApplication() ast.Expression {
	if p.curTokenIs(token.UPPER) {
		nt := &ast.NamedTupleExpression{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}
		for startsAtom(p.peekToken.Type) {
			p.nextToken()
			arg := p.parseAtom()
			if arg == nil {
				return nil
			}
			nt.Args = append(nt.Args, arg)
		}
		return nt
	}

	fn := p.parseAtom()
	if fn == nil {
		return nil
	}
	if !startsAtom(p.peekToken.Type) {
		return fn
	}

	call := &ast.CallExpression{Token: fn.GetToken(), Func: fn}
	for startsAtom(p.peekToken.Type) {
		p.nextToken()
		arg := p.parseAtom()
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
	}
	return call
}

// parseAtom parses a single non-applied expression.
func (p *Parser) parseAtom() ast.Expression {
	switch p.curToken.Type {
	case token.INT, token.STRING:
		return &ast.ConstantExpression{Token: p.curToken}
	case token.IDENT:
		return p.parseReference()
	case token.UPPER:
		// A constructor in argument position takes no arguments of its
		// own; wrap in parentheses to apply it.
		return &ast.NamedTupleExpression{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}
	case token.LPAREN:
		return p.parseParenExpression()
	case token.ILLEGAL:
		d := diagnostics.New(diagnostics.ErrL001, p.curToken,
			fmt.Sprintf("illegal token %q", p.curToken.Lexeme))
		d.File = p.file
		p.diags.Add(d)
		return nil
	default:
		p.errorAt(p.curToken, fmt.Sprintf("unexpected token %s in expression", p.curToken.Type))
		return nil
	}
}

// parseReference parses `name` or a module-qualified `a.b.name`.
func (p *Parser) parseReference() ast.Expression {
	ref := &ast.ReferenceExpression{Token: p.curToken}
	ids := []*ast.Identifier{{Token: p.curToken, Value: p.curToken.Literal}}
	for p.peekTokenIs(token.DOT) {
		p.nextToken() // the dot
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		ids = append(ids, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}
	ref.Name = ids[len(ids)-1]
	ref.ModulePath = ids[:len(ids)-1]
	return ref
}

// parseParenExpression parses `(expr)` or an operator reference `(+)`.
func (p *Parser) parseParenExpression() ast.Expression {
	lparen := p.curToken
	if p.peekTokenIs(token.OPERATOR) || p.peekTokenIs(token.ASSIGN) || p.peekTokenIs(token.PIPE) {
		opTok := p.peekToken
		p.nextToken()
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.ReferenceExpression{
			Token: lparen,
			Name:  &ast.Identifier{Token: opTok, Value: opTok.Literal},
		}
	}
	p.nextToken()
	inner := p.parseExpression(LOWEST)
	if inner == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.NestedExpression{Token: lparen, Inner: inner}
}
