package check

import (
	"fmt"
	"hash"
	"hash/fnv"
	"io"

	"github.com/muesli/reflow/truncate"
	"pkt.systems/ww"
)

const (
	chunkSize     = 4096
	maxLineSample = 256
	detailWidth   = 40
)

// Request configures Check.
type Request struct {
	// Output is the reflowed text to verify.
	Output io.Reader
	// Original, when set, is the text Output was produced from.
	Original io.Reader
	Width    int
	// MaxIssues caps Report.Issues; further issues are only counted.
	// Zero keeps every issue.
	MaxIssues int
}

// Check scans Output and reports every rule it breaks. The error is only
// non-nil when a reader fails or the request is invalid; rule violations are
// returned in the Report.
func Check(req Request) (Report, error) {
	if req.Output == nil {
		return Report{}, fmt.Errorf("check: output reader is nil")
	}
	if req.Width < 1 {
		return Report{}, fmt.Errorf("check: %w", ww.ErrInvalidWidth)
	}
	var in *content
	if req.Original != nil {
		in = newContent()
		if err := in.readFrom(req.Original); err != nil {
			return Report{}, fmt.Errorf("check: read original: %w", err)
		}
	}
	c := newChecker(req.Width, req.MaxIssues)
	buf := make([]byte, chunkSize)
	for {
		n, err := req.Output.Read(buf)
		if n > 0 {
			c.feed(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return c.report, fmt.Errorf("check: read output: %w", err)
		}
	}
	c.finish()
	if in != nil {
		c.compare(in)
	}
	return c.report, nil
}

// content fingerprints the non-whitespace bytes of a text: a histogram for
// the multiset and a running hash for their order.
type content struct {
	counts  [256]int64
	total   int64
	order   hash.Hash64
	pending []byte
}

func newContent() *content {
	return &content{order: fnv.New64a(), pending: make([]byte, 0, chunkSize)}
}

func (c *content) add(b byte) {
	c.counts[b]++
	c.total++
	c.pending = append(c.pending, b)
	if len(c.pending) == cap(c.pending) {
		_, _ = c.order.Write(c.pending)
		c.pending = c.pending[:0]
	}
}

func (c *content) sum() uint64 {
	if len(c.pending) > 0 {
		_, _ = c.order.Write(c.pending)
		c.pending = c.pending[:0]
	}
	return c.order.Sum64()
}

func (c *content) readFrom(r io.Reader) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if !ww.IsSpace(b) {
				c.add(b)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

type checker struct {
	width     int
	maxIssues int
	report    Report
	out       *content

	started       bool
	last          byte
	line          int
	lineWidth     int
	lineWords     int
	lineSample    []byte
	wordLen       int
	prevLineWidth int
	spaces        int
	newlines      int
}

func newChecker(width, maxIssues int) *checker {
	return &checker{
		width:      width,
		maxIssues:  maxIssues,
		out:        newContent(),
		line:       1,
		lineSample: make([]byte, 0, maxLineSample),
	}
}

func (c *checker) add(kind Kind, line int, format string, args ...any) {
	if c.maxIssues > 0 && len(c.report.Issues) >= c.maxIssues {
		c.report.Dropped++
		return
	}
	c.report.Issues = append(c.report.Issues, Issue{
		Kind:   kind,
		Line:   line,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (c *checker) feed(p []byte) {
	for _, b := range p {
		if !c.started {
			c.started = true
			if ww.IsSpace(b) {
				c.add(KindLeadingWhitespace, c.line, "output begins with whitespace %q", b)
			}
		}
		c.last = b
		switch {
		case !ww.IsSpace(b):
			c.out.add(b)
			c.wordLen++
			c.lineWidth++
			if len(c.lineSample) < maxLineSample {
				c.lineSample = append(c.lineSample, b)
			}
			c.spaces = 0
			c.newlines = 0
		case b == '\n':
			if c.spaces > 0 {
				c.add(KindTrailingSpace, c.line, "line ends with a space")
			}
			c.newlines++
			if c.newlines == 3 {
				c.add(KindExcessNewlines, c.line, "more than 2 consecutive newlines")
			}
			c.endWord()
			c.endLine()
			c.line++
			c.spaces = 0
		default:
			if b == ' ' {
				c.spaces++
				if c.spaces == 2 {
					c.add(KindMultipleSpaces, c.line, "line has multiple consecutive spaces")
				}
			} else {
				c.add(KindDisallowedWhitespace, c.line, "line contains whitespace %q other than space and newline", b)
				c.spaces = 0
			}
			c.endWord()
			c.lineWidth++
			if len(c.lineSample) < maxLineSample {
				c.lineSample = append(c.lineSample, b)
			}
			c.newlines = 0
		}
	}
}

func (c *checker) endWord() {
	if c.wordLen == 0 {
		return
	}
	c.report.Words++
	c.lineWords++
	if c.lineWords == 1 && c.prevLineWidth > 0 && c.prevLineWidth+1+c.wordLen <= c.width {
		c.add(KindEarlyWrap, c.line-1, "line wrapped too soon: next word of width %d would have fit after %d bytes",
			c.wordLen, c.prevLineWidth)
	}
	c.wordLen = 0
}

func (c *checker) endLine() {
	if c.lineWidth > c.width {
		if c.lineWords == 1 {
			c.add(KindOverlongWord, c.line, "word %q has width %d, but column width is only %d",
				truncate.StringWithTail(string(c.lineSample), detailWidth, "…"), c.lineWidth, c.width)
		} else {
			c.add(KindOverrun, c.line, "line has width %d, column width is %d", c.lineWidth, c.width)
		}
	}
	c.report.Lines++
	c.prevLineWidth = c.lineWidth
	c.lineWidth = 0
	c.lineWords = 0
	c.lineSample = c.lineSample[:0]
}

func (c *checker) finish() {
	if !c.started || c.last == '\n' {
		return
	}
	c.endWord()
	c.endLine()
	c.add(KindMissingFinalNewline, c.line, "output does not end with a newline")
}

func (c *checker) compare(in *content) {
	if in.counts != c.out.counts {
		c.add(KindContentMismatch, 0, "%s", describeMismatch(in, c.out))
		return
	}
	if in.sum() != c.out.sum() {
		c.add(KindContentReordered, 0, "input and output hold the same non-whitespace bytes in a different order")
	}
}

func describeMismatch(in, out *content) string {
	if in.total != out.total {
		return fmt.Sprintf("input has %d non-whitespace bytes, output has %d", in.total, out.total)
	}
	for b := 0; b < len(in.counts); b++ {
		if in.counts[b] != out.counts[b] {
			return fmt.Sprintf("byte %q appears %d times in input, %d times in output", byte(b), in.counts[b], out.counts[b])
		}
	}
	return "input and output do not contain the same non-whitespace bytes"
}
