package ww

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWidth reports a column width below 1.
	ErrInvalidWidth = errors.New("column width must be a positive integer")
	// ErrWidthViolation reports a word longer than the column width.
	ErrWidthViolation = errors.New("word exceeds column width")
	// ErrSinkWrite reports a failed or short write to the output.
	ErrSinkWrite = errors.New("output write failed")
	// ErrSourceRead reports a failed read from the input.
	ErrSourceRead = errors.New("input read failed")
	// ErrStreamClosed reports use of a Stream after Close.
	ErrStreamClosed = errors.New("stream closed")
)

// WidthError describes a single word that did not fit the column width.
// The word is still written in full on a line of its own.
type WidthError struct {
	Word  string
	Width int
	Limit int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("word %q has width %d, but column width is only %d", e.Word, e.Width, e.Limit)
}

func (e *WidthError) Unwrap() error {
	return ErrWidthViolation
}

// WriteError is returned when the output accepts fewer bytes than were
// requested. It is fatal for the stream.
type WriteError struct {
	Requested int
	Written   int
	Err       error
}

func (e *WriteError) Error() string {
	if e.Written > 0 {
		return fmt.Sprintf("output write failed after %d of %d bytes: %v", e.Written, e.Requested, e.Err)
	}
	return fmt.Sprintf("output write failed: %v", e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrSinkWrite, e.Err}
}

// ReadError is returned when the input cannot be read. Output written before
// the failure is left in place.
type ReadError struct {
	Offset int64
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("input read failed at byte %d: %v", e.Offset, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrSourceRead, e.Err}
}

// ViolationError is returned once a stream has completed with one or more
// width violations. All input was processed.
type ViolationError struct {
	Count int
	First *WidthError
}

func (e *ViolationError) Error() string {
	if e.Count == 1 {
		return fmt.Sprintf("completed with 1 width violation: %v", e.First)
	}
	return fmt.Sprintf("completed with %d width violations, first: %v", e.Count, e.First)
}

func (e *ViolationError) Unwrap() error {
	return ErrWidthViolation
}
