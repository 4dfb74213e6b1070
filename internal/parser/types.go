package parser

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/token"
)

func startsTypeAtom(t token.TokenType) bool {
	switch t {
	case token.IDENT, token.UPPER, token.LPAREN:
		return true
	}
	return false
}

// parseTypeExpression parses a type, flattening right-nested arrows:
// `Int -> Int -> Bool` becomes params [Int, Int] with return Bool.
func (p *Parser) parseTypeExpression() ast.TypeExpression {
	first := p.parseTypeApplication()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.ARROW) {
		return first
	}

	arrow := &ast.ArrowTypeExpression{Token: first.GetToken()}
	segments := []ast.TypeExpression{first}
	for p.peekTokenIs(token.ARROW) {
		p.nextToken() // the '->'
		p.nextToken()
		seg := p.parseTypeApplication()
		if seg == nil {
			return nil
		}
		segments = append(segments, seg)
	}
	arrow.Params = segments[:len(segments)-1]
	arrow.Return = segments[len(segments)-1]
	return arrow
}

// parseTypeApplication parses a named type with optional juxtaposed
// arguments: `List Int`.
func (p *Parser) parseTypeApplication() ast.TypeExpression {
	head := p.parseTypeAtom()
	if head == nil {
		return nil
	}
	ref, ok := head.(*ast.ReferenceTypeExpression)
	if !ok {
		return head
	}
	for startsTypeAtom(p.peekToken.Type) {
		p.nextToken()
		arg := p.parseTypeAtom()
		if arg == nil {
			return nil
		}
		ref.Args = append(ref.Args, arg)
	}
	return ref
}

func (p *Parser) parseTypeAtom() ast.TypeExpression {
	switch p.curToken.Type {
	case token.UPPER, token.IDENT:
		return &ast.ReferenceTypeExpression{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}
	case token.LPAREN:
		lparen := p.curToken
		p.nextToken()
		inner := p.parseTypeExpression()
		if inner == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.NestedTypeExpression{Token: lparen, Inner: inner}
	default:
		p.errorAt(p.curToken, fmt.Sprintf("unexpected token %s in type", p.curToken.Type))
		return nil
	}
}
