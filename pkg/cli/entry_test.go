package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNoArgsShowsUsage(t *testing.T) {
	code, _, stderr := runCLI(t)
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr, "usage") {
		t.Errorf("expected usage, got %q", stderr)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "frobnicate")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr, "unknown command") {
		t.Errorf("expected unknown command, got %q", stderr)
	}
}

func TestCheckCleanFile(t *testing.T) {
	path := writeSource(t, "ok.loom", "let id x = x\nlet a = id 1\n")
	code, stdout, stderr := runCLI(t, "check", path)
	if code != 0 {
		t.Errorf("expected exit 0, got %d (stdout %q, stderr %q)", code, stdout, stderr)
	}
}

func TestCheckReportsDiagnostics(t *testing.T) {
	path := writeSource(t, "bad.loom", "let g x = frobnicate x + 1\n")
	code, stdout, _ := runCLI(t, "check", "--no-color", path)
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout, "C001") || !strings.Contains(stdout, "frobnicate") {
		t.Errorf("expected C001 mentioning frobnicate, got %q", stdout)
	}
}

func TestBareFileArgumentImpliesCheck(t *testing.T) {
	path := writeSource(t, "ok.loom", "let a = 1\n")
	code, _, _ := runCLI(t, path)
	if code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
}

func TestRejectsNonSourceFile(t *testing.T) {
	code, _, stderr := runCLI(t, "check", "notes.txt")
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "not a source file") {
		t.Errorf("expected extension complaint, got %q", stderr)
	}
}

func TestCheckWritesReport(t *testing.T) {
	src := writeSource(t, "bad.loom", "let g x = frobnicate x + 1\n")
	db := filepath.Join(t.TempDir(), "report.db")
	code, _, stderr := runCLI(t, "check", "--no-color", "--report", db, src)
	if code != 1 {
		t.Errorf("expected exit 1, got %d (stderr %q)", code, stderr)
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("expected report database to exist: %v", err)
	}
}
