package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"

	"masmlint/diag"
	"masmlint/session"
	"masmlint/span"
)

// lintCmd implements the tool's single operation: run the analyzer over
// one source file (or stdin) and print its diagnostics (§6). It replaces
// the teacher's run/repl/emit commands, whose bytecode-VM backends this
// spec has no use for (see DESIGN.md's dropped-modules entry).
type lintCmd struct {
	json    bool
	stdin   bool
	verbose bool
}

func (*lintCmd) Name() string     { return "lint" }
func (*lintCmd) Synopsis() string { return "Lint an assembly source file and report diagnostics" }
func (*lintCmd) Usage() string {
	return `lint [--json] [--stdin] [path]:
  Analyze path (default examples/test1.asm) and print its diagnostics.
`
}

func (c *lintCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "emit diagnostics as a JSON array")
	f.BoolVar(&c.stdin, "stdin", false, "read the source from standard input")
	f.BoolVar(&c.verbose, "v", false, "print phase trace lines to stderr")
}

func (c *lintCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := "examples/test1.asm"
	if args := f.Args(); len(args) > 0 {
		path = args[0]
	}

	src, err := c.readSource(path)
	if err != nil {
		sink := diag.NewSink()
		sink.AddDiagnostic(diag.Errorf(diag.FailedToOpenFile, diag.Label{}, "failed to open %q: %v", path, err))
		if c.json {
			_ = sink.EmitJSON(span.NewSourceMap(), os.Stdout)
		} else {
			_ = sink.Emit(span.NewSourceMap(), os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))
		}
		return subcommands.ExitSuccess
	}

	if c.verbose {
		fmt.Fprintf(os.Stderr, "lint: read %d bytes from %s\n", len(src), path)
	}

	sess := session.New()
	sess.Run(path, src)

	if c.verbose {
		fmt.Fprintf(os.Stderr, "lint: %d diagnostic(s)\n", len(sess.Sink.Diagnostics()))
	}

	if c.json {
		if err := sess.Sink.EmitJSON(sess.SourceMap, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "💥 failed to emit JSON: %v\n", err)
		}
		return subcommands.ExitSuccess
	}

	useColor := isatty.IsTerminal(os.Stdout.Fd())
	if err := sess.Sink.Emit(sess.SourceMap, os.Stdout, useColor); err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to render diagnostics: %v\n", err)
	}
	return subcommands.ExitSuccess
}

func (c *lintCmd) readSource(path string) (string, error) {
	if c.stdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		src := string(data)
		if !c.json && (len(src) == 0 || src[len(src)-1] != '\n') {
			src += "\n"
		}
		return src, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
