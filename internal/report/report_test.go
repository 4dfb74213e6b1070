package report

import (
	"path/filepath"
	"testing"

	"github.com/loomlang/loom/internal/diagnostics"
	"github.com/loomlang/loom/internal/token"
)

func TestRecordAndQuery(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "report.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	bag := diagnostics.NewBag()
	d := diagnostics.New(diagnostics.ErrC002, token.Token{Line: 3, Column: 7}, "cannot unify String with Int")
	d.File = "main.loom"
	d.Left = "String"
	d.Right = "Int"
	bag.Add(d)

	if err := store.Record("session-1", "main.loom", bag); err != nil {
		t.Fatal(err)
	}

	n, err := store.SessionDiagCount("session-1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 diagnostic, got %d", n)
	}
}

func TestRecordEmptyBag(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "report.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Record("session-2", "clean.loom", diagnostics.NewBag()); err != nil {
		t.Fatal(err)
	}
	n, err := store.SessionDiagCount("session-2")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected 0 diagnostics, got %d", n)
	}
}
