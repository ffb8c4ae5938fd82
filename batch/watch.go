package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"code.cloudfoundry.org/lager/v3"
	"github.com/fsnotify/fsnotify"
	"pkt.systems/ww"
)

const defaultDebounce = 200 * time.Millisecond

// WatchRequest configures Watch.
type WatchRequest struct {
	RunRequest
	// Debounce delays reflowing a file until it has not changed for this
	// long. Zero selects 200ms.
	Debounce time.Duration
	// OnResult, when set, is called after every file reflowed by Watch,
	// including those of the initial pass.
	OnResult func(FileResult)
}

// Watch reflows the directory once, then reflows eligible files again
// whenever they are created or written, until ctx is done. Failures are
// logged; Watch only returns an error if the directory cannot be watched.
func Watch(ctx context.Context, req WatchRequest) error {
	if req.Width < 1 {
		return fmt.Errorf("watch: %w", ww.ErrInvalidWidth)
	}
	filter := req.Filter
	if err := filter.Compile(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	logger := req.Logger
	if logger == nil {
		logger = lager.NewLogger("ww")
	}
	req.Logger = logger
	logger = logger.Session("watch", lager.Data{"dir": req.Dir})
	debounce := req.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(req.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", req.Dir, err)
	}

	summary, err := Run(ctx, req.RunRequest)
	if err != nil {
		logger.Error("initial-run", err)
	}
	if req.OnResult != nil {
		for _, fr := range summary.Files {
			req.OnResult(fr)
		}
	}

	pending := map[string]struct{}{}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(ev.Name)
			if reason, skip := filter.Skip(name); skip {
				logger.Debug("ignore", lager.Data{"name": name, "reason": reason})
				continue
			}
			pending[name] = struct{}{}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher", err)
		case <-timer.C:
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			clear(pending)
			sort.Strings(names)
			for _, name := range names {
				info, err := os.Stat(filepath.Join(req.Dir, name))
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				fr := wrapOne(req.RunRequest, &filter, name, logger)
				if req.OnResult != nil {
					req.OnResult(fr)
				}
			}
		}
	}
}
