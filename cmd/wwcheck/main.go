package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"
	"pkt.systems/ww/check"
)

const (
	exitOK      = 0
	exitIssues  = 1
	exitUsage   = 2
	exitFailure = 1
)

func init() {
	version.SetDefaultModule("pkt.systems/ww")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, isTerminal(os.Stdout)))
}

func run(args []string, stdout, stderr io.Writer, color bool) int {
	var (
		showDiff    bool
		diffContext int
		maxIssues   int
		colorFlag   string
		showVersion bool
	)
	flags := pflag.NewFlagSet("wwcheck", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVarP(&showDiff, "diff", "d", false, "Print a diff against a fresh reflow of input_file")
	flags.IntVarP(&diffContext, "context", "C", 2, "Unchanged lines shown around each diff change")
	flags.IntVarP(&maxIssues, "max-issues", "n", 100, "Issues listed before the rest are only counted (0 lists all)")
	flags.StringVar(&colorFlag, "color", "auto", "Colored diff: auto|on|off")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: wwcheck [flags] column_width output_file [input_file]\n")
		fmt.Fprintln(stderr, "\nChecks that output_file is text reflowed to column_width. With")
		fmt.Fprintln(stderr, "input_file, also checks that no word was lost, added or reordered.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return exitOK
	}

	rest := flags.Args()
	if len(rest) < 2 || len(rest) > 3 {
		flags.Usage()
		return exitUsage
	}
	width, err := strconv.Atoi(rest[0])
	if err != nil || width < 1 {
		fmt.Fprintf(stderr, "invalid column_width %q\n\n", rest[0])
		flags.Usage()
		return exitUsage
	}
	if showDiff && len(rest) < 3 {
		fmt.Fprintln(stderr, "--diff needs input_file")
		return exitUsage
	}
	if maxIssues < 0 || diffContext < 0 {
		fmt.Fprintln(stderr, "--max-issues and --context must not be negative")
		return exitUsage
	}
	switch colorFlag {
	case "auto":
	case "on":
		color = true
	case "off":
		color = false
	default:
		fmt.Fprintf(stderr, "invalid --color %q: expected auto|on|off\n", colorFlag)
		return exitUsage
	}

	output, err := os.ReadFile(rest[1])
	if err != nil {
		fmt.Fprintf(stderr, "read output: %v\n", err)
		return exitFailure
	}
	req := check.Request{
		Output:    bytes.NewReader(output),
		Width:     width,
		MaxIssues: maxIssues,
	}
	var input []byte
	if len(rest) == 3 {
		input, err = os.ReadFile(rest[2])
		if err != nil {
			fmt.Fprintf(stderr, "read input: %v\n", err)
			return exitFailure
		}
		req.Original = bytes.NewReader(input)
	}

	report, err := check.Check(req)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitFailure
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(stderr, "%s: %s\n", rest[1], issue)
	}
	if report.Dropped > 0 {
		fmt.Fprintf(stderr, "%s: %d more issues not shown\n", rest[1], report.Dropped)
	}

	differs := false
	if showDiff {
		want, err := check.Expected(bytes.NewReader(input), width)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return exitFailure
		}
		differs, err = check.Diff(check.DiffRequest{
			Writer:  stdout,
			Want:    want,
			Got:     output,
			Context: diffContext,
			Color:   color,
		})
		if err != nil {
			fmt.Fprintf(stderr, "diff: %v\n", err)
			return exitFailure
		}
	}

	if !report.OK() || differs {
		return exitIssues
	}
	return exitOK
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
