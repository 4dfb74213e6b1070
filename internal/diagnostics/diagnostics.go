package diagnostics

import (
	"fmt"

	"github.com/loomlang/loom/internal/token"
)

// ErrorCode classifies a diagnostic for tooling and tests.
type ErrorCode string

const (
	// Lexer and parser
	ErrL001 ErrorCode = "L001" // illegal character / malformed literal
	ErrP001 ErrorCode = "P001" // unexpected token

	// Checker
	ErrC001 ErrorCode = "C001" // binding not found
	ErrC002 ErrorCode = "C002" // unification failed
	ErrC003 ErrorCode = "C003" // arity mismatch
	ErrC004 ErrorCode = "C004" // infinite type (occurs check)
)

// Diagnostic is a single reported problem. Left and Right carry the fully
// substituted rendering of the types involved, when the code has any.
type Diagnostic struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
	Left    string
	Right   string
}

func (d *Diagnostic) Error() string {
	if d.File != "" {
		return fmt.Sprintf("%s:%d:%d [%s] %s", d.File, d.Token.Line, d.Token.Column, d.Code, d.Message)
	}
	return fmt.Sprintf("%d:%d [%s] %s", d.Token.Line, d.Token.Column, d.Code, d.Message)
}

// New creates a diagnostic with a position and message.
func New(code ErrorCode, tok token.Token, msg string) *Diagnostic {
	return &Diagnostic{Code: code, Token: tok, Message: msg}
}

// Sink accepts diagnostics as they are discovered.
type Sink interface {
	Add(d *Diagnostic)
}

// Bag is a Sink that preserves emission order. The checker's walk and
// worklist are deterministic, so the order in a Bag is stable for a given
// input; it must not be re-sorted.
type Bag struct {
	items []*Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

func (b *Bag) Add(d *Diagnostic) {
	b.items = append(b.items, d)
}

// Items returns the diagnostics in emission order.
func (b *Bag) Items() []*Diagnostic {
	return b.items
}

func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors reports whether anything was collected.
func (b *Bag) HasErrors() bool {
	return len(b.items) > 0
}

// Codes returns just the codes, in emission order. Test helper fodder.
func (b *Bag) Codes() []ErrorCode {
	codes := make([]ErrorCode, len(b.items))
	for i, d := range b.items {
		codes[i] = d.Code
	}
	return codes
}
