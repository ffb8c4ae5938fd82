package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"code.cloudfoundry.org/lager/v3"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/sync/errgroup"
	"pkt.systems/ww"
)

const logWordWidth = 40

// RunRequest configures Run.
type RunRequest struct {
	Dir    string
	Width  int
	Filter Filter
	// Jobs is the number of files reflowed at once. Values below 1 mean 1.
	Jobs   int
	Logger lager.Logger
	// Options are passed to every ww.Reflow call. Run installs its own
	// violation handler, which logs each violation.
	Options []ww.Option
}

// FileResult is the outcome for one file.
type FileResult struct {
	Name   string
	Output string
	Result ww.Result
	Err    error
}

// Failed reports whether the file could not be reflowed completely.
func (r FileResult) Failed() bool {
	return r.Err != nil && !errors.Is(r.Err, ww.ErrWidthViolation) && !errors.Is(r.Err, ErrSkipped)
}

// Summary collects the outcome of Run.
type Summary struct {
	Files   []FileResult
	Skipped []string
	// Failed counts files that stopped early on an I/O error.
	Failed int
	// Violations counts files that completed with width violations.
	Violations int
}

// Run reflows every eligible regular file directly inside Dir. A failing file
// is logged and does not stop the others. The returned error aggregates the
// error of every file that failed or completed with width violations.
func Run(ctx context.Context, req RunRequest) (Summary, error) {
	if req.Width < 1 {
		return Summary{}, fmt.Errorf("batch: %w", ww.ErrInvalidWidth)
	}
	filter := req.Filter
	if err := filter.Compile(); err != nil {
		return Summary{}, fmt.Errorf("batch: %w", err)
	}
	logger := req.Logger
	if logger == nil {
		logger = lager.NewLogger("ww")
	}
	logger = logger.Session("batch", lager.Data{"dir": req.Dir, "width": req.Width})

	names, skipped, err := listFiles(req.Dir, &filter, logger)
	if err != nil {
		return Summary{}, fmt.Errorf("batch: %w", err)
	}
	summary := Summary{
		Files:   make([]FileResult, len(names)),
		Skipped: skipped,
	}

	jobs := req.Jobs
	if jobs < 1 {
		jobs = 1
	}
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, name := range names {
		i, name := i, name
		if err := ctx.Err(); err != nil {
			summary.Files[i] = FileResult{Name: name, Err: err}
			continue
		}
		g.Go(func() error {
			summary.Files[i] = wrapOne(req, &filter, name, logger)
			return nil
		})
	}
	_ = g.Wait()

	var errs *multierror.Error
	kept := summary.Files[:0]
	for _, fr := range summary.Files {
		switch {
		case errors.Is(fr.Err, ErrSkipped):
			summary.Skipped = append(summary.Skipped, fr.Name)
			continue
		case errors.Is(fr.Err, ww.ErrWidthViolation):
			summary.Violations++
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", fr.Name, fr.Err))
		case fr.Err != nil:
			summary.Failed++
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", fr.Name, fr.Err))
		}
		kept = append(kept, fr)
	}
	summary.Files = kept
	sort.Strings(summary.Skipped)
	logger.Info("done", lager.Data{
		"files":      len(summary.Files),
		"skipped":    len(summary.Skipped),
		"failed":     summary.Failed,
		"violations": summary.Violations,
	})
	return summary, errs.ErrorOrNil()
}

func listFiles(dir string, filter *Filter, logger lager.Logger) ([]string, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	var names, skipped []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if reason, skip := filter.Skip(name); skip {
			logger.Debug("skip", lager.Data{"name": name, "reason": reason})
			skipped = append(skipped, name)
			continue
		}
		names = append(names, name)
	}
	return names, skipped, nil
}

func wrapOne(req RunRequest, filter *Filter, name string, logger lager.Logger) FileResult {
	log := logger.Session("file", lager.Data{"name": name})
	fr := FileResult{
		Name:   name,
		Output: filepath.Join(req.Dir, filter.OutputName(name)),
	}
	opts := make([]ww.Option, 0, len(req.Options)+1)
	opts = append(opts, req.Options...)
	opts = append(opts, ww.WithViolationHandler(func(v ww.Violation) {
		log.Info("width-violation", lager.Data{
			"word":  truncate.StringWithTail(v.Word, logWordWidth, "…"),
			"width": v.Width,
			"limit": v.Limit,
			"line":  v.Line,
		})
	}))
	fr.Result, fr.Err = WrapFile(FileRequest{
		Input:      filepath.Join(req.Dir, name),
		Output:     fr.Output,
		Width:      req.Width,
		SkipBinary: filter.SkipBinary,
		Options:    opts,
	})
	switch {
	case errors.Is(fr.Err, ErrSkipped):
		fr.Output = ""
		log.Info("skip", lager.Data{"reason": fr.Err.Error()})
	case errors.Is(fr.Err, ww.ErrWidthViolation):
		log.Info("wrapped-with-violations", lager.Data{"output": fr.Output, "violations": fr.Result.Violations})
	case fr.Err != nil:
		log.Error("failed", fr.Err)
	default:
		log.Debug("wrapped", lager.Data{"output": fr.Output, "words": fr.Result.Words, "lines": fr.Result.Lines})
	}
	return fr
}
