package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

// Formatter renders diagnostics for a terminal.
type Formatter struct {
	out   io.Writer
	color bool
}

// NewFormatter creates a formatter writing to out. Color is enabled when
// out is a terminal, unless forced off.
func NewFormatter(out io.Writer, noColor bool) *Formatter {
	color := false
	if !noColor {
		if f, ok := out.(*os.File); ok {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return &Formatter{out: out, color: color}
}

// Print writes one diagnostic.
func (f *Formatter) Print(d *Diagnostic) {
	pos := fmt.Sprintf("%d:%d", d.Token.Line, d.Token.Column)
	if d.File != "" {
		pos = d.File + ":" + pos
	}
	if f.color {
		fmt.Fprintf(f.out, "%s%s%s %s[%s]%s %s\n", ansiBold, pos, ansiReset, ansiRed, d.Code, ansiReset, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s [%s] %s\n", pos, d.Code, d.Message)
	}
	if d.Left != "" || d.Right != "" {
		if f.color {
			fmt.Fprintf(f.out, "  %sexpected%s %s\n  %sactual%s   %s\n", ansiDim, ansiReset, d.Left, ansiDim, ansiReset, d.Right)
		} else {
			fmt.Fprintf(f.out, "  expected %s\n  actual   %s\n", d.Left, d.Right)
		}
	}
}

// PrintAll writes every diagnostic in the bag, returning the count.
func (f *Formatter) PrintAll(bag *Bag) int {
	for _, d := range bag.Items() {
		f.Print(d)
	}
	return bag.Len()
}
