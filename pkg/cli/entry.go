package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/loomlang/loom/internal/config"
	"github.com/loomlang/loom/internal/diagnostics"
	"github.com/loomlang/loom/internal/pipeline"
	"github.com/loomlang/loom/internal/report"
	"github.com/loomlang/loom/internal/rpc"
	"github.com/loomlang/loom/internal/token"
)

const usage = `usage:
  loom check [--report db] [--no-color] [--remote addr] <files...>
  loom serve [--addr addr]
`

// isSourceFile checks if a file has a recognized source extension.
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Run is the CLI entry point. It returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd := args[0]
	rest := args[1:]
	if cmd != "check" && cmd != "serve" {
		// Bare file arguments imply check.
		if isSourceFile(cmd) {
			rest = args
			cmd = "check"
		} else {
			fmt.Fprintf(stderr, "unknown command %q\n%s", cmd, usage)
			return 2
		}
	}

	proj, err := config.LoadProject(config.ProjectFileName)
	if err != nil {
		fmt.Fprintf(stderr, "loom: %v\n", err)
		return 2
	}

	switch cmd {
	case "serve":
		return runServe(rest, stderr)
	default:
		return runCheck(rest, proj, stdout, stderr)
	}
}

func runCheck(args []string, proj *config.Project, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	reportPath := fs.String("report", proj.Report, "write diagnostics to a SQLite report database")
	noColor := fs.Bool("no-color", proj.Color == "never", "disable colored output")
	remote := fs.String("remote", "", "send sources to a running check daemon at this address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var store *report.Store
	if *reportPath != "" {
		var err error
		store, err = report.Open(*reportPath)
		if err != nil {
			fmt.Fprintf(stderr, "loom: %v\n", err)
			return 2
		}
		defer store.Close()
	}

	formatter := diagnostics.NewFormatter(stdout, *noColor)

	failed := false
	for _, file := range files {
		if !isSourceFile(file) {
			fmt.Fprintf(stderr, "loom: %s: not a source file\n", file)
			failed = true
			continue
		}

		if *remote != "" {
			if checkRemote(*remote, file, formatter, stderr) {
				failed = true
			}
			continue
		}

		source, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(stderr, "loom: %v\n", err)
			failed = true
			continue
		}

		ctx := pipeline.CheckFile(file, string(source))
		printed := printDiags(formatter, ctx.Diags, proj.MaxErrors)
		if printed > 0 {
			failed = true
		}

		if store != nil {
			if err := store.Record(ctx.SessionID, file, ctx.Diags); err != nil {
				fmt.Fprintf(stderr, "loom: recording report: %v\n", err)
			}
		}
	}

	if failed {
		return 1
	}
	return 0
}

func printDiags(f *diagnostics.Formatter, bag *diagnostics.Bag, maxErrors int) int {
	items := bag.Items()
	shown := len(items)
	if maxErrors > 0 && shown > maxErrors {
		shown = maxErrors
	}
	for _, d := range items[:shown] {
		f.Print(d)
	}
	return len(items)
}

func checkRemote(addr, file string, formatter *diagnostics.Formatter, stderr io.Writer) bool {
	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(stderr, "loom: %v\n", err)
		return true
	}
	client, err := rpc.Dial(addr)
	if err != nil {
		fmt.Fprintf(stderr, "loom: %v\n", err)
		return true
	}
	defer client.Close()

	_, diags, err := client.Check(context.Background(), file, string(source))
	if err != nil {
		fmt.Fprintf(stderr, "loom: %v\n", err)
		return true
	}
	for _, d := range diags {
		formatter.Print(&diagnostics.Diagnostic{
			Code:    diagnostics.ErrorCode(d.Code),
			Token:   token.Token{Line: d.Line, Column: d.Col},
			File:    file,
			Message: d.Message,
			Left:    d.Left,
			Right:   d.Right,
		})
	}
	return len(diags) > 0
}

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", "127.0.0.1:7466", "listen address")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	server, err := rpc.NewServer()
	if err != nil {
		fmt.Fprintf(stderr, "loom: %v\n", err)
		return 2
	}
	fmt.Fprintf(stderr, "loom: serving on %s\n", *addr)
	if err := server.Serve(*addr); err != nil {
		fmt.Fprintf(stderr, "loom: %v\n", err)
		return 2
	}
	return 0
}
