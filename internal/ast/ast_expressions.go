package ast

import (
	"github.com/loomlang/loom/internal/token"
)

// Identifier is a bare name in expression or declaration position.
type Identifier struct {
	parentRef
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

// ConstantExpression is an integer or string literal. The token type
// discriminates which.
type ConstantExpression struct {
	parentRef
	Token token.Token // token.INT or token.STRING
}

func (ce *ConstantExpression) expressionNode()       {}
func (ce *ConstantExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ConstantExpression) GetToken() token.Token { return ce.Token }

// ReferenceExpression names a value, optionally qualified by a module
// path (`geometry.area`). Qualified references parse but are rejected by
// the checker.
type ReferenceExpression struct {
	parentRef
	Token      token.Token
	ModulePath []*Identifier
	Name       *Identifier
}

func (re *ReferenceExpression) expressionNode()       {}
func (re *ReferenceExpression) TokenLiteral() string  { return re.Token.Lexeme }
func (re *ReferenceExpression) GetToken() token.Token { return re.Token }

// CallExpression applies a function to arguments by juxtaposition:
// `f x y`.
type CallExpression struct {
	parentRef
	Token token.Token
	Func  Expression
	Args  []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// NamedTupleExpression applies a data constructor to positional
// arguments: `Pair 1 2`. The callee must resolve to a struct or enum
// constructor.
type NamedTupleExpression struct {
	parentRef
	Token token.Token
	Name  *Identifier
	Args  []Expression
}

func (nt *NamedTupleExpression) expressionNode()       {}
func (nt *NamedTupleExpression) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedTupleExpression) GetToken() token.Token { return nt.Token }

// InfixExpression is a binary operator application. The operator token
// carries the spelling used for environment lookup.
type InfixExpression struct {
	parentRef
	Token token.Token // the operator token
	Left  Expression
	Op    token.Token
	Right Expression
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// NestedExpression is a parenthesised expression.
type NestedExpression struct {
	parentRef
	Token token.Token // the '(' token
	Inner Expression
}

func (ne *NestedExpression) expressionNode()       {}
func (ne *NestedExpression) TokenLiteral() string  { return ne.Token.Lexeme }
func (ne *NestedExpression) GetToken() token.Token { return ne.Token }
