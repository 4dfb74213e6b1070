package pipeline

import (
	"github.com/google/uuid"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/diagnostics"
)

// Context carries one file through the stages. SessionID tags the run
// for report storage and the check daemon.
type Context struct {
	SessionID string
	File      string
	Source    string

	Tree  *ast.SourceFile
	Diags *diagnostics.Bag
}

// NewContext prepares a run over one source file.
func NewContext(file, source string) *Context {
	return &Context{
		SessionID: uuid.NewString(),
		File:      file,
		Source:    source,
		Diags:     diagnostics.NewBag(),
	}
}

// Processor is one stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Stages keep running after errors so every diagnostic from
		// every stage is collected.
	}
	return ctx
}
