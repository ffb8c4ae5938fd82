package ww

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestReflowScenarios(t *testing.T) {
	for _, tc := range reflowCases {
		if got := reflowString(t, []byte(tc.in), tc.width); got != tc.want {
			t.Fatalf("%s: unexpected output\nwant: %q\n got: %q", tc.name, tc.want, got)
		}
	}
}

func TestReflowChunkSizesAgree(t *testing.T) {
	src := readTestdata(t, "prose.txt")
	var want bytes.Buffer
	if _, err := Reflow(ReflowRequest{Reader: bytes.NewReader(src), Writer: &want, Width: 20}); err != nil {
		t.Fatalf("reflow: %v", err)
	}
	for _, size := range []int{1, 2, 3, 7, 64, 8192} {
		var got bytes.Buffer
		_, err := Reflow(ReflowRequest{
			Reader:  iotest.HalfReader(bytes.NewReader(src)),
			Writer:  &got,
			Width:   20,
			Options: []Option{WithChunkSize(size)},
		})
		if err != nil {
			t.Fatalf("chunk %d: %v", size, err)
		}
		if got.String() != want.String() {
			t.Fatalf("chunk %d: output differs\nwant: %q\n got: %q", size, want.String(), got.String())
		}
	}
}

func TestReflowOneByteReader(t *testing.T) {
	var out bytes.Buffer
	_, err := Reflow(ReflowRequest{
		Reader: iotest.OneByteReader(strings.NewReader("a b  c\n\nd")),
		Writer: &out,
		Width:  3,
	})
	if err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if out.String() != "a b\nc\n\nd\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestReflowWidthViolationCompletes(t *testing.T) {
	var out bytes.Buffer
	res, err := Reflow(ReflowRequest{
		Reader: strings.NewReader("alpha beta"),
		Writer: &out,
		Width:  4,
	})
	if !errors.Is(err, ErrWidthViolation) {
		t.Fatalf("expected ErrWidthViolation, got %v", err)
	}
	var vErr *ViolationError
	if !errors.As(err, &vErr) || vErr.Count != 1 || vErr.First.Word != "alpha" {
		t.Fatalf("unexpected violation error %v", err)
	}
	if out.String() != "alpha\nbeta\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if res.Violations != 1 || res.Words != 2 || res.Wraps != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestReflowEmptyInput(t *testing.T) {
	var out bytes.Buffer
	res, err := Reflow(ReflowRequest{Reader: strings.NewReader(""), Writer: &out, Width: 1})
	if err != nil {
		t.Fatalf("reflow: %v", err)
	}
	if out.Len() != 0 || res.Words != 0 || res.Lines != 0 {
		t.Fatalf("expected no output, got %q %+v", out.String(), res)
	}
}

func TestReflowReadErrorKeepsOutput(t *testing.T) {
	readErr := errors.New("device gone")
	src := io.MultiReader(strings.NewReader("one two three "), iotest.ErrReader(readErr))
	var out bytes.Buffer
	res, err := Reflow(ReflowRequest{Reader: src, Writer: &out, Width: 80})
	if !errors.Is(err, ErrSourceRead) || !errors.Is(err, readErr) {
		t.Fatalf("expected source read error, got %v", err)
	}
	var rErr *ReadError
	if !errors.As(err, &rErr) || rErr.Offset != 14 {
		t.Fatalf("unexpected read error %v", err)
	}
	// "three" is still buffered when the read fails, and is dropped.
	if out.String() != "one two" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if res.BytesRead != 14 {
		t.Fatalf("bytes read: %d", res.BytesRead)
	}
}

func TestReflowSinkErrorStops(t *testing.T) {
	w := &limitWriter{limit: 3, err: errors.New("closed pipe")}
	_, err := Reflow(ReflowRequest{
		Reader: strings.NewReader("abc def ghi"),
		Writer: w,
		Width:  80,
	})
	if !errors.Is(err, ErrSinkWrite) {
		t.Fatalf("expected ErrSinkWrite, got %v", err)
	}
	if w.buf.String() != "abc" {
		t.Fatalf("unexpected output %q", w.buf.String())
	}
}

func TestReflowValidatesRequest(t *testing.T) {
	if _, err := Reflow(ReflowRequest{Writer: io.Discard, Width: 1}); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if _, err := Reflow(ReflowRequest{Reader: strings.NewReader(""), Width: 1}); err == nil {
		t.Fatalf("expected error for nil writer")
	}
	_, err := Reflow(ReflowRequest{Reader: strings.NewReader("x"), Writer: io.Discard})
	if !errors.Is(err, ErrInvalidWidth) {
		t.Fatalf("expected ErrInvalidWidth, got %v", err)
	}
}

func TestReflowIsIdempotent(t *testing.T) {
	src := readTestdata(t, "prose.txt")
	for _, width := range []int{10, 20, 40} {
		var once, twice bytes.Buffer
		if _, err := Reflow(ReflowRequest{Reader: bytes.NewReader(src), Writer: &once, Width: width}); err != nil {
			t.Fatalf("first pass width %d: %v", width, err)
		}
		if _, err := Reflow(ReflowRequest{Reader: bytes.NewReader(once.Bytes()), Writer: &twice, Width: width}); err != nil {
			t.Fatalf("second pass width %d: %v", width, err)
		}
		if once.String() != twice.String() {
			t.Fatalf("width %d: second pass changed output\nfirst:  %q\nsecond: %q", width, once.String(), twice.String())
		}
	}
}
