package ww

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func reflowString(t *testing.T, src []byte, width int, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	_, err := Reflow(ReflowRequest{
		Reader:  bytes.NewReader(src),
		Writer:  &out,
		Width:   width,
		Options: opts,
	})
	if err != nil && !errors.Is(err, ErrWidthViolation) {
		t.Fatalf("reflow width %d: %v", width, err)
	}
	return out.String()
}

func readTestdata(t testing.TB, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}
