package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectMissingFileIsZero(t *testing.T) {
	p, err := LoadProject(filepath.Join(t.TempDir(), "loom.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if p.Color != "" || p.MaxErrors != 0 || p.Report != "" {
		t.Errorf("expected zero project, got %+v", p)
	}
}

func TestLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.yaml")
	data := "color: never\nmax-errors: 5\nreport: out.db\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProject(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Color != "never" {
		t.Errorf("expected never, got %q", p.Color)
	}
	if p.MaxErrors != 5 {
		t.Errorf("expected 5, got %d", p.MaxErrors)
	}
	if p.Report != "out.db" {
		t.Errorf("expected out.db, got %q", p.Report)
	}
}

func TestLoadProjectRejectsBadColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.yaml")
	if err := os.WriteFile(path, []byte("color: sometimes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(path); err == nil {
		t.Fatal("expected an error for an invalid color value")
	}
}

func TestLoadProjectRejectsBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.yaml")
	if err := os.WriteFile(path, []byte("color: [never\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(path); err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
}
