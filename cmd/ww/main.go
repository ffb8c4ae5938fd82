package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"code.cloudfoundry.org/lager/v3"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/pflag"
	"pkt.systems/version"
	"pkt.systems/ww"
	"pkt.systems/ww/batch"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2

	logWordWidth = 40
)

func init() {
	version.SetDefaultModule("pkt.systems/ww")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	outPath    string
	sibling    bool
	jobs       int
	configPath string
	prefix     string
	watch      bool
	verbose    bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		opts        options
		showVersion bool
	)
	flags := pflag.NewFlagSet("ww", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVar(&opts.sibling, "sibling", false, "Write a file's output next to it, named with the output prefix")
	flags.IntVarP(&opts.jobs, "jobs", "j", 1, "Files reflowed at once in directory mode")
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML file with the directory filter")
	flags.StringVar(&opts.prefix, "prefix", "", "Output name prefix in directory mode (default "+strconv.Quote(batch.DefaultPrefix)+")")
	flags.BoolVar(&opts.watch, "watch", false, "Keep reflowing a directory as its files change")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: ww [flags] column_width [path]\n")
		fmt.Fprintln(stderr, "\nWithout a path, text is read from stdin. A path may be a file,")
		fmt.Fprintln(stderr, "an http(s) URL or a directory whose files are reflowed one by one.")
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
	if len(rest) < 1 || len(rest) > 2 {
		flags.Usage()
		return exitUsage
	}
	width, err := parseWidth(rest[0])
	if err != nil {
		fmt.Fprintf(stderr, "invalid column_width %q: %v\n\n", rest[0], err)
		flags.Usage()
		return exitUsage
	}

	logger := newLogger(stderr, opts.verbose)

	if len(rest) == 1 {
		if opts.sibling || opts.watch {
			fmt.Fprintln(stderr, "--sibling and --watch need a path")
			return exitUsage
		}
		return reflowTo(logger, opts.outPath, stdout, stderr, width, func(w io.Writer, o []ww.Option) (ww.Result, error) {
			return ww.Reflow(ww.ReflowRequest{Reader: stdin, Writer: w, Width: width, Options: o})
		})
	}

	target := strings.TrimSpace(rest[1])
	if isURL(target) {
		if opts.sibling || opts.watch {
			fmt.Fprintln(stderr, "--sibling and --watch need a local path")
			return exitUsage
		}
		return reflowTo(logger, opts.outPath, stdout, stderr, width, func(w io.Writer, o []ww.Option) (ww.Result, error) {
			return ww.HTTPReflow(ctx, ww.HTTPReflowRequest{URL: target, Writer: w, Width: width, Options: o})
		})
	}

	path := normalizePath(target)
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return exitFailure
	}
	if info.IsDir() {
		if opts.outPath != "" || opts.sibling {
			fmt.Fprintln(stderr, "--output and --sibling do not apply to a directory")
			return exitUsage
		}
		return reflowDir(ctx, logger, stderr, path, width, opts)
	}
	if opts.watch {
		fmt.Fprintln(stderr, "--watch needs a directory")
		return exitUsage
	}

	outPath := opts.outPath
	if opts.sibling {
		if outPath != "" {
			fmt.Fprintln(stderr, "--output and --sibling are mutually exclusive")
			return exitUsage
		}
		prefix := opts.prefix
		if prefix == "" {
			prefix = batch.DefaultPrefix
		}
		outPath = filepath.Join(filepath.Dir(path), prefix+filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return exitFailure
	}
	defer func() { _ = f.Close() }()
	return reflowTo(logger, outPath, stdout, stderr, width, func(w io.Writer, o []ww.Option) (ww.Result, error) {
		return ww.Reflow(ww.ReflowRequest{Reader: f, Writer: w, Width: width, Options: o})
	})
}

func parseWidth(raw string) (int, error) {
	width, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("not an integer")
	}
	if width < 1 {
		return 0, errors.New("must be positive")
	}
	return width, nil
}

func newLogger(w io.Writer, verbose bool) lager.Logger {
	level := lager.INFO
	if verbose {
		level = lager.DEBUG
	}
	logger := lager.NewLogger("ww")
	logger.RegisterSink(lager.NewPrettySink(w, level))
	return logger
}

type reflowFunc func(w io.Writer, opts []ww.Option) (ww.Result, error)

func reflowTo(logger lager.Logger, outPath string, stdout, stderr io.Writer, width int, fn reflowFunc) int {
	writer, closeOut, err := resolveOutput(outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return exitFailure
	}
	log := logger.Session("reflow", lager.Data{"width": width})
	bw := bufio.NewWriter(writer)
	res, err := fn(bw, []ww.Option{ww.WithViolationHandler(violationLogger(log))})
	if flushErr := bw.Flush(); flushErr != nil && (err == nil || errors.Is(err, ww.ErrWidthViolation)) {
		err = &ww.WriteError{Requested: bw.Buffered(), Err: flushErr}
	}
	if closeOut != nil {
		if closeErr := closeOut.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	log.Debug("done", lager.Data{
		"read":       res.BytesRead,
		"written":    res.BytesWritten,
		"words":      res.Words,
		"lines":      res.Lines,
		"violations": res.Violations,
	})
	if err != nil {
		fmt.Fprintf(stderr, "reflow: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func violationLogger(log lager.Logger) func(ww.Violation) {
	return func(v ww.Violation) {
		log.Info("width-violation", lager.Data{
			"word":  truncate.StringWithTail(v.Word, logWordWidth, "…"),
			"width": v.Width,
			"limit": v.Limit,
			"line":  v.Line,
		})
	}
}

func reflowDir(ctx context.Context, logger lager.Logger, stderr io.Writer, dir string, width int, opts options) int {
	filter := batch.DefaultFilter()
	if opts.configPath != "" {
		loaded, err := batch.LoadFilter(normalizePath(opts.configPath))
		if err != nil {
			fmt.Fprintf(stderr, "load config: %v\n", err)
			return exitUsage
		}
		filter = loaded
	}
	if opts.prefix != "" {
		filter.Prefix = opts.prefix
	}
	req := batch.RunRequest{
		Dir:    dir,
		Width:  width,
		Filter: filter,
		Jobs:   opts.jobs,
		Logger: logger,
	}
	if opts.watch {
		if err := batch.Watch(ctx, batch.WatchRequest{RunRequest: req}); err != nil {
			fmt.Fprintf(stderr, "watch: %v\n", err)
			return exitFailure
		}
		return exitOK
	}
	if _, err := batch.Run(ctx, req); err != nil {
		fmt.Fprintf(stderr, "batch: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}
