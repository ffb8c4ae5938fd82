// Package ww reflows plain text to a fixed column width.
//
// This package is built for streaming: it classifies input bytes as they
// arrive, keeps at most one word buffered, and writes greedily filled lines
// straight to an io.Writer. Inputs of any size can be processed without
// holding more than a read chunk and the current word in memory.
//
// Output rules:
//   - Words are separated by exactly one space
//   - A run of two or more newlines in the input becomes one blank line
//   - Every other whitespace run is a plain word separator
//   - Lines are filled greedily up to Width bytes
//   - A word wider than Width is written alone and unsplit
//
// Example:
//
//	res, err := ww.Reflow(ww.ReflowRequest{
//		Reader: strings.NewReader("one two  three\n\nfour"),
//		Writer: os.Stdout,
//		Width:  9,
//	})
//	if errors.Is(err, ww.ErrWidthViolation) {
//		log.Printf("%d words did not fit", res.Violations)
//	} else if err != nil {
//		log.Fatal(err)
//	}
//
// Widths are byte counts; no attempt is made to measure display width.
package ww
