//go:build !unix

package scan

import (
	"io"
	"os"
)

// No mmap on this platform: read the whole file instead.
func mapFile(f *os.File, size int64) ([]byte, func([]byte) error, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, err
	}
	return data, nil, nil
}
