package scan

import (
	"bytes"
	"iter"
)

const (
	// Terminator is the library suffix every candidate name ends with.
	Terminator = ".so"
	// Wildcard marks a printf-style placeholder inside a name (libfoo_%s.so).
	Wildcard = '%'
)

var terminator = []byte(Terminator)

// IsNameByte reports whether c can appear in a library file name next to
// the ".so" suffix. Anything else in front of ".so" is treated as noise.
func IsNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == Wildcard:
		return true
	}
	return false
}

// Occurrences yields the offset of every ".so" in buf whose preceding byte
// is a name byte (or which sits at the very start of buf), in ascending order.
func Occurrences(buf []byte) iter.Seq[int] {
	return func(yield func(int) bool) {
		pos := 0
		for pos < len(buf) {
			i := bytes.Index(buf[pos:], terminator)
			if i < 0 {
				return
			}
			off := pos + i
			if off == 0 || IsNameByte(buf[off-1]) {
				if !yield(off) {
					return
				}
			}
			pos = off + 1
		}
	}
}
