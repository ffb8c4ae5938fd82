package check

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aryann/difflib"
	"github.com/mgutz/ansi"
	"pkt.systems/ww"
)

// Expected reflows original to width the way ww does. Width violations are
// not an error here: the expected text contains the overlong words as well.
func Expected(original io.Reader, width int) ([]byte, error) {
	var out bytes.Buffer
	_, err := ww.Reflow(ww.ReflowRequest{
		Reader: original,
		Writer: &out,
		Width:  width,
	})
	if err != nil && !errors.Is(err, ww.ErrWidthViolation) {
		return nil, fmt.Errorf("expected output: %w", err)
	}
	return out.Bytes(), nil
}

// DiffRequest configures Diff.
type DiffRequest struct {
	Writer io.Writer
	Want   []byte
	Got    []byte
	// Context is the number of unchanged lines shown around each change.
	Context int
	Color   bool
}

// Diff writes a line diff of Got against Want and reports whether they
// differ. Lines only in Want are prefixed with "-", lines only in Got with "+".
func Diff(req DiffRequest) (bool, error) {
	if req.Writer == nil {
		return false, fmt.Errorf("diff: writer is nil")
	}
	if bytes.Equal(req.Want, req.Got) {
		return false, nil
	}
	records := difflib.Diff(splitLines(req.Want), splitLines(req.Got))
	show := make([]bool, len(records))
	for i, rec := range records {
		if rec.Delta == difflib.Common {
			continue
		}
		lo, hi := i-req.Context, i+req.Context
		for j := max(lo, 0); j <= hi && j < len(records); j++ {
			show[j] = true
		}
	}
	gap := false
	for i, rec := range records {
		if !show[i] {
			gap = true
			continue
		}
		if gap {
			if _, err := fmt.Fprintln(req.Writer, colorize("…", "cyan", req.Color)); err != nil {
				return true, err
			}
			gap = false
		}
		var err error
		switch rec.Delta {
		case difflib.LeftOnly:
			_, err = fmt.Fprintln(req.Writer, colorize("- "+rec.Payload, "red", req.Color))
		case difflib.RightOnly:
			_, err = fmt.Fprintln(req.Writer, colorize("+ "+rec.Payload, "green", req.Color))
		default:
			_, err = fmt.Fprintln(req.Writer, "  "+rec.Payload)
		}
		if err != nil {
			return true, err
		}
	}
	return true, nil
}

func colorize(s, style string, enabled bool) string {
	if !enabled {
		return s
	}
	return ansi.Color(s, style)
}

func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}
