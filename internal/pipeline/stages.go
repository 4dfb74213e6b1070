package pipeline

import (
	"github.com/loomlang/loom/internal/checker"
	"github.com/loomlang/loom/internal/lexer"
	"github.com/loomlang/loom/internal/parser"
)

// ParseStage lexes and parses the source into ctx.Tree.
type ParseStage struct{}

func (ParseStage) Process(ctx *Context) *Context {
	l := lexer.New(ctx.Source)
	p := parser.New(l, ctx.File, ctx.Diags)
	ctx.Tree = p.ParseSourceFile()
	return ctx
}

// CheckStage runs semantic analysis over ctx.Tree.
type CheckStage struct{}

func (CheckStage) Process(ctx *Context) *Context {
	if ctx.Tree == nil {
		return ctx
	}
	c := checker.New(ctx.Diags)
	c.Check(ctx.Tree)
	return ctx
}

// CheckFile is the convenience entry used by the CLI and the daemon:
// parse and check one source, returning the populated context.
func CheckFile(file, source string) *Context {
	ctx := NewContext(file, source)
	return New(ParseStage{}, CheckStage{}).Run(ctx)
}
