package model

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ByteContext is a printable window of bytes around an offset in a binary file
type ByteContext struct {
	Path     string // File the window was taken from
	Offset   int    // Requested offset
	Start    int    // Offset of the first byte in Before
	Before   string // Bytes preceding Offset (non-printables shown as '.')
	At       string // Bytes from Offset on
	ErrorMsg string // Error message if file couldn't be read
}

// GetByteContext reads up to radius bytes either side of offset.
func GetByteContext(filePath string, offset, radius int) ByteContext {
	result := ByteContext{
		Path:   filePath,
		Offset: offset,
	}

	file, err := os.Open(filePath)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not read file: %v", err)
		return result
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not stat file: %v", err)
		return result
	}

	if offset < 0 || int64(offset) >= info.Size() {
		result.ErrorMsg = fmt.Sprintf("Offset %d out of range (file has %d bytes)", offset, info.Size())
		return result
	}

	start := offset - radius
	if start < 0 {
		start = 0
	}
	end := int64(offset + radius)
	if end > info.Size() {
		end = info.Size()
	}

	buf := make([]byte, end-int64(start))
	if _, err := file.ReadAt(buf, int64(start)); err != nil && err != io.EOF {
		result.ErrorMsg = fmt.Sprintf("Error reading file: %v", err)
		return result
	}

	result.Start = start
	result.Before = printable(buf[:offset-start])
	result.At = printable(buf[offset-start:])
	return result
}

func printable(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}
