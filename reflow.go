package ww

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

var streamPool = sync.Pool{
	New: func() any {
		return &Stream{}
	},
}

var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, defaultChunkSize)
	},
}

// ReflowRequest configures Reflow.
type ReflowRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Width   int
	Options []Option
}

// Reflow reads Reader to EOF and writes the reflowed text to Writer.
//
// The returned Result is valid even when err is non-nil. An error matching
// ErrWidthViolation means every byte was processed but some words did not
// fit; ErrSinkWrite and ErrSourceRead mean processing stopped early.
func Reflow(req ReflowRequest) (Result, error) {
	if req.Reader == nil {
		return Result{}, fmt.Errorf("reflow: reader is nil")
	}
	if req.Writer == nil {
		return Result{}, fmt.Errorf("reflow: writer is nil")
	}
	if req.Width < 1 {
		return Result{}, fmt.Errorf("reflow: %w", ErrInvalidWidth)
	}
	cfg := buildConfig(req.Options)
	stream := streamPool.Get().(*Stream)
	stream.reset(req.Writer, req.Width, cfg)
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(req.Reader)
	var chunkArr [defaultChunkSize]byte
	var buf []byte
	if cfg.chunkSize > len(chunkArr) {
		buf = make([]byte, cfg.chunkSize)
	} else {
		buf = chunkArr[:cfg.chunkSize]
	}
	var retErr error
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if _, werr := stream.Write(buf[:n]); werr != nil {
				retErr = fmt.Errorf("reflow: %w", werr)
				goto done
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			retErr = fmt.Errorf("reflow: %w", &ReadError{Offset: stream.res.BytesRead, Err: err})
			goto done
		}
	}
	if err := stream.Close(); err != nil {
		retErr = fmt.Errorf("reflow: %w", err)
	}
done:
	res := stream.Result()
	stream.reset(io.Discard, 1, config{})
	streamPool.Put(stream)
	reader.Reset(nil)
	readerPool.Put(reader)
	return res, retErr
}
