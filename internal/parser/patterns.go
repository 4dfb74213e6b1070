package parser

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/token"
)

// peekStartsPattern reports whether the next token can begin a
// let-declaration parameter.
func (p *Parser) peekStartsPattern() bool {
	switch p.peekToken.Type {
	case token.IDENT, token.UPPER, token.LPAREN:
		return true
	}
	return false
}

// parsePattern parses a binding pattern with the current token as its
// first token.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.curToken.Type {
	case token.IDENT:
		return &ast.BindPattern{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}
	case token.UPPER:
		return p.parseStructPattern()
	case token.LPAREN:
		return p.parseParenPattern()
	default:
		p.errorAt(p.curToken, fmt.Sprintf("unexpected token %s in pattern", p.curToken.Type))
		return nil
	}
}

// parseParenPattern parses `(op)` as a wrapped operator, or a nested
// pattern in parentheses.
func (p *Parser) parseParenPattern() ast.Pattern {
	lparen := p.curToken
	if p.peekTokenIs(token.OPERATOR) || p.peekTokenIs(token.ASSIGN) || p.peekTokenIs(token.PIPE) {
		opTok := p.peekToken
		p.nextToken()
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.WrappedOperator{Token: lparen, Op: opTok}
	}
	p.nextToken()
	inner := p.parsePattern()
	if inner == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return inner
}

// parseStructPattern parses `Name` or `Name(elem, elem, ...)`.
func (p *Parser) parseStructPattern() ast.Pattern {
	pat := &ast.StructPattern{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}
	if !p.peekTokenIs(token.LPAREN) {
		return pat
	}
	p.nextToken() // the '('
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return pat
	}
	for {
		p.nextToken()
		elem := p.parseStructPatternElement()
		if elem == nil {
			return nil
		}
		pat.Fields = append(pat.Fields, elem)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return pat
}

func (p *Parser) parseStructPatternElement() ast.StructPatternElement {
	switch p.curToken.Type {
	case token.ELLIPSIS:
		elem := &ast.VariadicStructPatternElement{Token: p.curToken}
		if p.peekTokenIs(token.IDENT) || p.peekTokenIs(token.UPPER) || p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			elem.Pattern = p.parsePattern()
			if elem.Pattern == nil {
				return nil
			}
		}
		return elem
	case token.IDENT:
		nameTok := p.curToken
		name := &ast.Identifier{Token: nameTok, Value: nameTok.Literal}
		if p.peekTokenIs(token.COLON) {
			p.nextToken() // the ':'
			p.nextToken()
			inner := p.parsePattern()
			if inner == nil {
				return nil
			}
			return &ast.StructPatternField{Token: nameTok, Name: name, Pattern: inner}
		}
		return &ast.PunnedStructPatternField{Token: nameTok, Name: name}
	default:
		p.errorAt(p.curToken, fmt.Sprintf("unexpected token %s in struct pattern", p.curToken.Type))
		return nil
	}
}
