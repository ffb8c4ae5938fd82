package ww

import (
	"fmt"
	"io"
)

// maxPooledWord bounds the word capacity a Stream keeps across resets.
const maxPooledWord = 64 << 10

// Result summarizes the work done by a Stream.
type Result struct {
	BytesRead    int64
	BytesWritten int64
	// Words counts words handed to the output, including the one in flight
	// when a write failed.
	Words      int
	Lines      int
	Paragraphs int
	Wraps      int
	Violations int
}

// Stream reflows bytes written to it and writes the result to an underlying
// io.Writer. Close must be called to flush the last word.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	lw   lineWriter
	word wordBuffer
	cfg  config

	bof          bool
	pending      bool
	newlines     int
	prevNewlines int

	res            Result
	firstViolation *WidthError
	err            error
	closed         bool
	closeErr       error
}

// NewStream returns a Stream writing lines of at most width bytes to w.
func NewStream(w io.Writer, width int, opts ...Option) (*Stream, error) {
	if w == nil {
		return nil, fmt.Errorf("new stream: writer is nil")
	}
	if width < 1 {
		return nil, fmt.Errorf("new stream: %w", ErrInvalidWidth)
	}
	s := &Stream{}
	s.reset(w, width, buildConfig(opts))
	return s, nil
}

// Reset discards all state and prepares s for a new input written to w.
// Options given to NewStream are kept.
func (s *Stream) Reset(w io.Writer, width int) error {
	if w == nil {
		return fmt.Errorf("reset stream: writer is nil")
	}
	if width < 1 {
		return fmt.Errorf("reset stream: %w", ErrInvalidWidth)
	}
	s.reset(w, width, s.cfg)
	return nil
}

func (s *Stream) reset(w io.Writer, width int, cfg config) {
	s.lw.reset(w, width)
	if cap(s.word.buf) > maxPooledWord {
		s.word.buf = nil
	}
	s.word.clear()
	s.cfg = cfg
	s.bof = true
	s.pending = false
	s.newlines = 0
	s.prevNewlines = 0
	s.res = Result{}
	s.firstViolation = nil
	s.err = nil
	s.closed = false
	s.closeErr = nil
}

// Width returns the column width.
func (s *Stream) Width() int {
	return s.lw.width
}

// Write consumes p. Words are written to the underlying writer as soon as
// the whitespace run following them ends, so the last word of p stays
// buffered until more input arrives or Close is called.
//
// Write only fails when the underlying writer fails; the returned count is
// the number of bytes of p consumed before the failure. Once Write has failed
// every later call returns the same error.
func (s *Stream) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.closed {
		return 0, ErrStreamClosed
	}
	for i, b := range p {
		switch classify(b) {
		case classWord:
			s.bof = false
			if s.pending {
				if err := s.flushWord(); err != nil {
					s.res.BytesRead += int64(i)
					return i, err
				}
				// The run just ended precedes the word that starts here.
				s.prevNewlines = s.newlines
				s.newlines = 0
				s.pending = false
			}
			s.word.append(b)
		case classNewline:
			if !s.bof {
				s.pending = true
				s.newlines++
			}
		default:
			if !s.bof {
				s.pending = true
			}
		}
	}
	s.res.BytesRead += int64(len(p))
	return len(p), nil
}

// Close writes the buffered word and the final newline. Input that held no
// words produces no output at all.
//
// Close returns a *ViolationError when one or more words were wider than the
// column width, and the write error when the underlying writer failed.
// Calling Close again returns the same result.
func (s *Stream) Close() error {
	if s.closed {
		return s.closeErr
	}
	s.closed = true
	s.closeErr = s.close()
	return s.closeErr
}

func (s *Stream) close() error {
	if s.err != nil {
		return s.err
	}
	if !s.bof {
		if err := s.flushWord(); err != nil {
			return err
		}
		if err := s.lw.finish(); err != nil {
			s.err = err
			return err
		}
	}
	if s.res.Violations > 0 {
		return &ViolationError{Count: s.res.Violations, First: s.firstViolation}
	}
	return nil
}

// Result reports counters for the input consumed so far.
func (s *Stream) Result() Result {
	res := s.res
	res.BytesWritten = s.lw.written
	res.Lines = s.lw.line - 1
	return res
}

func (s *Stream) flushWord() error {
	word := s.word.take()
	boundary, err := s.lw.writeWord(word, s.prevNewlines)
	if len(word) > s.lw.width {
		s.recordViolation(word)
	}
	s.word.clear()
	if boundary != BoundaryNone {
		s.res.Words++
		switch {
		case boundary == BoundaryParagraph, s.res.Paragraphs == 0:
			s.res.Paragraphs++
		case boundary == BoundaryWrapped:
			s.res.Wraps++
		}
		if s.cfg.onBoundary != nil {
			s.cfg.onBoundary(boundary)
		}
	}
	if _, ok := err.(*WriteError); ok {
		s.err = err
		return err
	}
	return nil
}

func (s *Stream) recordViolation(word []byte) {
	s.res.Violations++
	v := Violation{
		Word:  string(word),
		Width: len(word),
		Limit: s.lw.width,
		Line:  s.lw.line,
	}
	if s.firstViolation == nil {
		s.firstViolation = &WidthError{Word: v.Word, Width: v.Width, Limit: v.Limit}
	}
	if s.cfg.onViolation != nil {
		s.cfg.onViolation(v)
	}
}
