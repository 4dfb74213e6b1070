package ast

import (
	"github.com/loomlang/loom/internal/token"
)

// BindPattern binds a single name.
type BindPattern struct {
	parentRef
	Token token.Token
	Name  *Identifier
}

func (bp *BindPattern) patternNode()          {}
func (bp *BindPattern) TokenLiteral() string  { return bp.Token.Lexeme }
func (bp *BindPattern) GetToken() token.Token { return bp.Token }

// WrappedOperator binds an operator spelling as a value name:
// `let (+) a b = ...`.
type WrappedOperator struct {
	parentRef
	Token token.Token // the '(' token
	Op    token.Token // the operator token
}

func (wo *WrappedOperator) patternNode()          {}
func (wo *WrappedOperator) TokenLiteral() string  { return wo.Op.Lexeme }
func (wo *WrappedOperator) GetToken() token.Token { return wo.Token }

// StructPatternElement is one element of a struct pattern's field list.
type StructPatternElement interface {
	Node
	structPatternElement()
}

// PunnedStructPatternField binds a field by its own name: `Point(x, y)`.
type PunnedStructPatternField struct {
	parentRef
	Token token.Token
	Name  *Identifier
}

func (pf *PunnedStructPatternField) structPatternElement() {}
func (pf *PunnedStructPatternField) TokenLiteral() string  { return pf.Token.Lexeme }
func (pf *PunnedStructPatternField) GetToken() token.Token { return pf.Token }

// StructPatternField binds a field through a nested pattern:
// `Point(x: inner)`.
type StructPatternField struct {
	parentRef
	Token   token.Token
	Name    *Identifier
	Pattern Pattern
}

func (sf *StructPatternField) structPatternElement() {}
func (sf *StructPatternField) TokenLiteral() string  { return sf.Token.Lexeme }
func (sf *StructPatternField) GetToken() token.Token { return sf.Token }

// VariadicStructPatternElement absorbs remaining fields: `Point(x, ...)`
// or `Point(x, ...rest)`.
type VariadicStructPatternElement struct {
	parentRef
	Token   token.Token // the '...' token
	Pattern Pattern     // may be nil
}

func (ve *VariadicStructPatternElement) structPatternElement() {}
func (ve *VariadicStructPatternElement) TokenLiteral() string  { return ve.Token.Lexeme }
func (ve *VariadicStructPatternElement) GetToken() token.Token { return ve.Token }

// StructPattern destructures a struct value by name.
type StructPattern struct {
	parentRef
	Token  token.Token
	Name   *Identifier
	Fields []StructPatternElement
}

func (sp *StructPattern) patternNode()          {}
func (sp *StructPattern) TokenLiteral() string  { return sp.Token.Lexeme }
func (sp *StructPattern) GetToken() token.Token { return sp.Token }
