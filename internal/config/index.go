package config

import (
	"errors"
	"fmt"
	"os"
)

// ErrIndexMissing means there is no baseline manifest for the SDK level.
var ErrIndexMissing = errors.New("baseline manifest not found")

// LoadIndex reads the baseline manifest for s.
func LoadIndex(s Settings) ([]byte, error) {
	path := s.IndexPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrIndexMissing, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
