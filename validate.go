package mdtokens

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput rejects documents that are not valid UTF-8 or look binary: any NUL byte,
// or at least maxControlPct percent control bytes in a sample of minBinarySample bytes or
// more. The error names the byte offset where the problem was found.
func ValidateInput(src []byte) error {
	control := 0
	for off := 0; off < len(src); {
		b := src[off]
		if b < utf8.RuneSelf {
			if b == 0x00 {
				return fmt.Errorf("%w: NUL at byte %d", ErrBinaryInput, off)
			}
			if isControlByte(b) {
				control++
			}
			off++
			continue
		}
		r, size := utf8.DecodeRune(src[off:])
		if r == utf8.RuneError && size <= 1 {
			return fmt.Errorf("%w at byte %d", ErrInvalidUTF8, off)
		}
		off += size
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return fmt.Errorf("%w: %d control bytes in %d", ErrBinaryInput, control, len(src))
	}
	return nil
}

// isControlByte reports C0 controls other than tab, newline, vertical tab, form feed and
// carriage return, plus DEL.
func isControlByte(b byte) bool {
	return b < 0x09 || (b > 0x0D && b < 0x20) || b == 0x7F
}
