// Package scan finds shared-library names inside opaque binary files.
//
// Nothing here understands ELF or any other executable format. A file is a
// flat byte buffer; names are recovered by looking for the ".so" suffix and
// walking backwards to a plausible "lib"/"egl" start.
package scan

import (
	"fmt"
	"os"
)

// Buffer is a read-only view of a file's contents. The bytes are only valid
// until Close.
type Buffer struct {
	data   []byte
	unmap  func([]byte) error
	closed bool
}

// NewBuffer wraps bytes that are already in memory.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Open maps path into memory. Empty files yield an empty buffer.
func Open(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() == 0 {
		return NewBuffer(nil), nil
	}

	data, unmap, err := mapFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return &Buffer{data: data, unmap: unmap}, nil
}

// Bytes returns the buffer contents. Callers must not modify them.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len is the buffer size in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Close releases the mapping. It is safe to call more than once.
func (b *Buffer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	data := b.data
	b.data = nil
	if b.unmap != nil && data != nil {
		return b.unmap(data)
	}
	return nil
}
