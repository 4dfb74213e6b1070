package ast

import (
	"github.com/loomlang/loom/internal/token"
)

// Node is the base interface for all syntax nodes. Every node carries its
// primary token for error reporting and an assignable parent link; parent
// links are set once by SetParents before checking.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	Parent() Node
	SetParent(Node)
}

// Statement is a Node in statement position (declarations included).
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node in expression position.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is a Node in binding position.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpression is a Node in type-annotation position.
type TypeExpression interface {
	Node
	typeExpressionNode()
}

// parentRef holds the parent link shared by every node type.
type parentRef struct {
	parent Node
}

func (p *parentRef) Parent() Node     { return p.parent }
func (p *parentRef) SetParent(n Node) { p.parent = n }

// SourceFile is the root node of every parsed file.
type SourceFile struct {
	parentRef
	File       string
	Statements []Statement
}

func (sf *SourceFile) TokenLiteral() string {
	if len(sf.Statements) > 0 {
		return sf.Statements[0].TokenLiteral()
	}
	return ""
}

func (sf *SourceFile) GetToken() token.Token {
	if len(sf.Statements) > 0 {
		return sf.Statements[0].GetToken()
	}
	return token.Token{}
}

// Param is a single parameter of a let declaration. The pattern is almost
// always a BindPattern but the grammar permits any pattern.
type Param struct {
	parentRef
	Token   token.Token
	Pattern Pattern
}

func (p *Param) TokenLiteral() string  { return p.Token.Lexeme }
func (p *Param) GetToken() token.Token { return p.Token }

// LetDeclaration binds a pattern, with optional parameters, to either an
// expression body (`let f x = e`) or a block body (`let f x.` + block).
type LetDeclaration struct {
	parentRef
	Token      token.Token // the 'let' token
	Pattern    Pattern
	Params     []*Param
	TypeAssert TypeExpression // optional `: T` annotation
	Body       Expression     // expression body, nil when Block is set
	Block      []Statement    // block body, nil when Body is set
}

func (ld *LetDeclaration) statementNode()        {}
func (ld *LetDeclaration) TokenLiteral() string  { return ld.Token.Lexeme }
func (ld *LetDeclaration) GetToken() token.Token { return ld.Token }

// StructFieldDecl is one `name: Type` line inside a struct block.
type StructFieldDecl struct {
	parentRef
	Token token.Token // the field name token
	Name  *Identifier
	Type  TypeExpression
}

func (sf *StructFieldDecl) TokenLiteral() string  { return sf.Token.Lexeme }
func (sf *StructFieldDecl) GetToken() token.Token { return sf.Token }

// StructDeclaration declares a nominal record type. The struct name is
// also usable as a constructor in expressions.
type StructDeclaration struct {
	parentRef
	Token  token.Token // the 'struct' token
	Name   *Identifier
	Fields []*StructFieldDecl
}

func (sd *StructDeclaration) statementNode()        {}
func (sd *StructDeclaration) TokenLiteral() string  { return sd.Token.Lexeme }
func (sd *StructDeclaration) GetToken() token.Token { return sd.Token }

// EnumMember is one member line inside an enum block.
type EnumMember struct {
	parentRef
	Token token.Token
	Name  *Identifier
}

func (em *EnumMember) TokenLiteral() string  { return em.Token.Lexeme }
func (em *EnumMember) GetToken() token.Token { return em.Token }

// EnumDeclaration declares a nominal sum type; member names become values.
type EnumDeclaration struct {
	parentRef
	Token   token.Token // the 'enum' token
	Name    *Identifier
	Members []*EnumMember
}

func (ed *EnumDeclaration) statementNode()        {}
func (ed *EnumDeclaration) TokenLiteral() string  { return ed.Token.Lexeme }
func (ed *EnumDeclaration) GetToken() token.Token { return ed.Token }

// TypeDeclaration declares a type alias: `type Name = T`.
type TypeDeclaration struct {
	parentRef
	Token token.Token // the 'type' token
	Name  *Identifier
	Type  TypeExpression
}

func (td *TypeDeclaration) statementNode()        {}
func (td *TypeDeclaration) TokenLiteral() string  { return td.Token.Lexeme }
func (td *TypeDeclaration) GetToken() token.Token { return td.Token }

// ModuleDeclaration groups declarations under a name: `mod geometry.`.
type ModuleDeclaration struct {
	parentRef
	Token token.Token // the 'mod' token
	Name  *Identifier
	Body  []Statement
}

func (md *ModuleDeclaration) statementNode()        {}
func (md *ModuleDeclaration) TokenLiteral() string  { return md.Token.Lexeme }
func (md *ModuleDeclaration) GetToken() token.Token { return md.Token }

// IfCase is one arm of an if statement. Test is nil for the else arm.
type IfCase struct {
	parentRef
	Token token.Token // 'if', 'elif' or 'else'
	Test  Expression
	Body  []Statement
}

func (ic *IfCase) TokenLiteral() string  { return ic.Token.Lexeme }
func (ic *IfCase) GetToken() token.Token { return ic.Token }

// IfStatement is a chain of if/elif/else cases.
type IfStatement struct {
	parentRef
	Token token.Token // the 'if' token
	Cases []*IfCase
}

func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

// ReturnStatement returns from the nearest enclosing let declaration.
// A bare `return` yields the unit type.
type ReturnStatement struct {
	parentRef
	Token token.Token // the 'return' token
	Expr  Expression  // may be nil
}

func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

// ExpressionStatement is a bare expression in statement position.
type ExpressionStatement struct {
	parentRef
	Token token.Token
	Expr  Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }
