package ww

import "errors"

// ErrBinaryInput reports input that appears to be binary.
var ErrBinaryInput = errors.New("binary input detected")

const (
	// SniffLen is the number of leading bytes SniffBinary needs to decide.
	SniffLen        = 512
	minBinarySample = 64
	maxControlPct   = 2
)

// SniffBinary returns ErrBinaryInput if sample, the first bytes of an input,
// holds a NUL byte or too many control bytes to be text.
func SniffBinary(sample []byte) error {
	if len(sample) > SniffLen {
		sample = sample[:SniffLen]
	}
	var control int
	for _, b := range sample {
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if len(sample) >= minBinarySample && control*100 >= len(sample)*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	return b == 0x7F
}
