package batch

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"pkt.systems/ww"
)

// ErrSkipped reports a file left alone by WrapFile, such as binary input.
var ErrSkipped = errors.New("skipped")

// FileRequest configures WrapFile.
type FileRequest struct {
	Input      string
	Output     string
	Width      int
	SkipBinary bool
	Options    []ww.Option
}

// WrapFile reflows Input into Output, creating or truncating Output. Output
// already written is kept when reflowing fails part way.
func WrapFile(req FileRequest) (ww.Result, error) {
	in, err := os.Open(req.Input)
	if err != nil {
		return ww.Result{}, err
	}
	defer in.Close()

	var src io.Reader = in
	if req.SkipBinary {
		sample := make([]byte, ww.SniffLen)
		n, err := io.ReadFull(in, sample)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return ww.Result{}, &ww.ReadError{Err: err}
		}
		sample = sample[:n]
		if err := ww.SniffBinary(sample); err != nil {
			return ww.Result{}, fmt.Errorf("%w: %w", ErrSkipped, err)
		}
		src = io.MultiReader(bytes.NewReader(sample), in)
	}

	out, err := os.Create(req.Output)
	if err != nil {
		return ww.Result{}, err
	}
	bw := bufio.NewWriter(out)
	res, err := ww.Reflow(ww.ReflowRequest{
		Reader:  src,
		Writer:  bw,
		Width:   req.Width,
		Options: req.Options,
	})
	if flushErr := bw.Flush(); flushErr != nil && (err == nil || errors.Is(err, ww.ErrWidthViolation)) {
		err = &ww.WriteError{Requested: bw.Buffered(), Err: flushErr}
	}
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return res, err
}
