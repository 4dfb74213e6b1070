package pipeline

import (
	"testing"

	"github.com/loomlang/loom/internal/diagnostics"
)

func TestCheckFileClean(t *testing.T) {
	ctx := CheckFile("ok.loom", "let id x = x\nlet a = id 1\n")
	if ctx.SessionID == "" {
		t.Error("expected a session id")
	}
	if ctx.Tree == nil {
		t.Fatal("expected a parsed tree")
	}
	if ctx.Diags.HasErrors() {
		for _, d := range ctx.Diags.Items() {
			t.Log(d.Error())
		}
		t.Error("expected no diagnostics")
	}
}

func TestCheckFileCollectsAllStages(t *testing.T) {
	ctx := CheckFile("bad.loom", "let g x = frobnicate x + 1\n")
	codes := ctx.Diags.Codes()
	if len(codes) != 1 || codes[0] != diagnostics.ErrC001 {
		t.Errorf("expected [C001], got %v", codes)
	}
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := CheckFile("a.loom", "let a = 1\n")
	b := CheckFile("b.loom", "let b = 2\n")
	if a.SessionID == b.SessionID {
		t.Error("expected distinct session ids")
	}
}
