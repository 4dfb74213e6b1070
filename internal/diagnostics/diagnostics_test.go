package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/loomlang/loom/internal/token"
)

func TestBagPreservesEmissionOrder(t *testing.T) {
	bag := NewBag()
	bag.Add(New(ErrC002, token.Token{Line: 9, Column: 1}, "second line problem"))
	bag.Add(New(ErrC001, token.Token{Line: 1, Column: 1}, "first line problem"))

	codes := bag.Codes()
	if codes[0] != ErrC002 || codes[1] != ErrC001 {
		t.Errorf("expected emission order [C002 C001], got %v", codes)
	}
}

func TestDiagnosticError(t *testing.T) {
	d := New(ErrC001, token.Token{Line: 3, Column: 7}, `binding "x" not found`)
	d.File = "main.loom"
	want := `main.loom:3:7 [C001] binding "x" not found`
	if d.Error() != want {
		t.Errorf("expected %q, got %q", want, d.Error())
	}
}

func TestFormatterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, true)

	d := New(ErrC002, token.Token{Line: 2, Column: 5}, "cannot unify String with Int")
	d.File = "main.loom"
	d.Left = "String"
	d.Right = "Int"
	f.Print(d)

	out := buf.String()
	if !strings.Contains(out, "main.loom:2:5 [C002] cannot unify String with Int") {
		t.Errorf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "expected String") || !strings.Contains(out, "actual   Int") {
		t.Errorf("expected type detail lines, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no ANSI escapes on a plain writer, got %q", out)
	}
}

func TestFormatterPrintAll(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf, true)
	bag := NewBag()
	bag.Add(New(ErrC001, token.Token{Line: 1, Column: 1}, "one"))
	bag.Add(New(ErrC001, token.Token{Line: 2, Column: 1}, "two"))
	if n := f.PrintAll(bag); n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("expected two lines, got %q", buf.String())
	}
}
