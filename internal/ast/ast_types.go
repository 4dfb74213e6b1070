package ast

import (
	"github.com/loomlang/loom/internal/token"
)

// ReferenceTypeExpression names a type, with optional arguments:
// `Int`, `List Int`.
type ReferenceTypeExpression struct {
	parentRef
	Token token.Token
	Name  *Identifier
	Args  []TypeExpression
}

func (rt *ReferenceTypeExpression) typeExpressionNode()   {}
func (rt *ReferenceTypeExpression) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *ReferenceTypeExpression) GetToken() token.Token { return rt.Token }

// ArrowTypeExpression is a function type: `Int -> Int -> Bool`.
// The arrow is right-associative in the grammar; the parser flattens
// `A -> B -> R` into params [A, B] and return R.
type ArrowTypeExpression struct {
	parentRef
	Token  token.Token
	Params []TypeExpression
	Return TypeExpression
}

func (at *ArrowTypeExpression) typeExpressionNode()   {}
func (at *ArrowTypeExpression) TokenLiteral() string  { return at.Token.Lexeme }
func (at *ArrowTypeExpression) GetToken() token.Token { return at.Token }

// NestedTypeExpression is a parenthesised type expression.
type NestedTypeExpression struct {
	parentRef
	Token token.Token
	Inner TypeExpression
}

func (nt *NestedTypeExpression) typeExpressionNode()   {}
func (nt *NestedTypeExpression) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NestedTypeExpression) GetToken() token.Token { return nt.Token }
