package ww

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
)

// StatusError reports a response that did not carry text to reflow.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// HTTPReflowRequest configures HTTPReflow.
type HTTPReflowRequest struct {
	URL    string
	Client *http.Client
	Writer io.Writer
	Width  int
	// SkipBinary rejects bodies that SniffBinary reports as binary before
	// anything is written.
	SkipBinary bool
	Options    []Option
}

// HTTPReflow fetches URL and reflows the response body into Writer.
//
// Failures to reach the server and non-2xx responses are source failures:
// the error matches ErrSourceRead, and for a bad status it also carries a
// *StatusError. Nothing is written in either case.
func HTTPReflow(ctx context.Context, req HTTPReflowRequest) (Result, error) {
	if req.URL == "" {
		return Result{}, fmt.Errorf("reflow http: URL is required")
	}
	if req.Writer == nil {
		return Result{}, fmt.Errorf("reflow http: writer is nil")
	}
	if req.Width < 1 {
		return Result{}, fmt.Errorf("reflow http: %w", ErrInvalidWidth)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("reflow http: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return Result{}, fmt.Errorf("reflow http: unsupported scheme %q", httpReq.URL.Scheme)
	}
	httpReq.Header.Set("Accept", "text/plain, text/*;q=0.9, */*;q=0.1")

	resp, err := client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("reflow http: %w", &ReadError{Err: err})
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("reflow http: %w", &ReadError{Err: &StatusError{
			URL:    req.URL,
			Status: resp.Status,
			Code:   resp.StatusCode,
		}})
	}

	var body io.Reader = resp.Body
	if req.SkipBinary {
		br := bufio.NewReaderSize(resp.Body, SniffLen)
		sample, err := br.Peek(SniffLen)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return Result{}, fmt.Errorf("reflow http: %w", &ReadError{Err: err})
		}
		if err := SniffBinary(sample); err != nil {
			return Result{}, fmt.Errorf("reflow http: %s: %w", req.URL, err)
		}
		body = br
	}
	return Reflow(ReflowRequest{
		Reader:  body,
		Writer:  req.Writer,
		Width:   req.Width,
		Options: req.Options,
	})
}
