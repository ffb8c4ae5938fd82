package ww

import (
	"io"
)

var (
	newlines2 = []byte{'\n', '\n'}
	space     = []byte{' '}
)

// lineWriter places words on output lines and tracks the width of the
// current line.
type lineWriter struct {
	w         io.Writer
	width     int
	lineWidth int
	line      int
	written   int64
}

func (lw *lineWriter) reset(w io.Writer, width int) {
	lw.w = w
	lw.width = width
	lw.lineWidth = 0
	lw.line = 1
	lw.written = 0
}

// writeWord writes word preceded by the separator implied by newlines, the
// count of newline bytes seen in the input before the word.
//
// A *WriteError is fatal. A *WidthError is not: the word has been written and
// the caller may continue with the next one.
func (lw *lineWriter) writeWord(word []byte, newlines int) (Boundary, error) {
	if len(word) == 0 {
		return BoundaryNone, nil
	}
	boundary := BoundaryContinued
	switch {
	case newlines >= 2:
		boundary = BoundaryParagraph
		if err := lw.write(newlines2); err != nil {
			return boundary, err
		}
		lw.newline(2)
	case lw.lineWidth > 0 && lw.lineWidth+1+len(word) > lw.width:
		boundary = BoundaryWrapped
		if err := lw.write(newlines2[:1]); err != nil {
			return boundary, err
		}
		lw.newline(1)
	}
	if lw.lineWidth > 0 {
		if err := lw.write(space); err != nil {
			return boundary, err
		}
		lw.lineWidth++
	}
	n, err := lw.w.Write(word)
	if n > 0 {
		lw.lineWidth += n
		lw.written += int64(n)
	}
	if err == nil && n < len(word) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return boundary, &WriteError{Requested: len(word), Written: n, Err: err}
	}
	if len(word) > lw.width {
		return boundary, &WidthError{Word: string(word), Width: len(word), Limit: lw.width}
	}
	return boundary, nil
}

// finish terminates the last output line.
func (lw *lineWriter) finish() error {
	if err := lw.write(newlines2[:1]); err != nil {
		return err
	}
	lw.newline(1)
	return nil
}

func (lw *lineWriter) write(p []byte) error {
	n, err := lw.w.Write(p)
	lw.written += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &WriteError{Requested: len(p), Written: n, Err: err}
	}
	return nil
}

func (lw *lineWriter) newline(count int) {
	lw.lineWidth = 0
	lw.line += count
}
