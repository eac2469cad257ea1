package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blobdeps/internal/scan"
)

func TestDefaultsAreValid(t *testing.T) {
	s := Defaults()
	require.NoError(t, s.Validate())
	assert.Equal(t, scan.DefaultDirectories, s.Directories)
	assert.Equal(t, filepath.Join("emulator_systems", "sdk_19.txt"), s.IndexPath())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blobdeps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: /srv/dumps/hammerhead
sdk: 23
directories:
  - /vendor/lib/
  - /lib/
`), 0o644))

	s := Defaults()
	require.NoError(t, LoadFile(path, &s))

	assert.Equal(t, "/srv/dumps/hammerhead", s.Root)
	assert.Equal(t, 23, s.SDK)
	assert.Equal(t, []string{"/vendor/lib/", "/lib/"}, s.Directories)
	assert.Equal(t, "manufacturer", s.Vendor, "keys missing from the file keep their value")
	assert.Equal(t, scan.DefaultMaxBackward, s.MaxBackward)
}

func TestLoadFileErrors(t *testing.T) {
	s := Defaults()
	err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &s)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sdk: [not, a, number]\n"), 0o644))
	assert.Error(t, LoadFile(bad, &s))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		errMsg string
	}{
		{"empty root", func(s *Settings) { s.Root = "" }, "root is required"},
		{"zero sdk", func(s *Settings) { s.SDK = 0 }, "sdk must be positive"},
		{"no directories", func(s *Settings) { s.Directories = nil }, "at least one directory"},
		{"bad directory", func(s *Settings) { s.Directories = []string{"vendor/lib"} }, "must start and end with '/'"},
		{"bad backward", func(s *Settings) { s.MaxBackward = 0 }, "max_backward must be positive"},
		{"name shorter than window", func(s *Settings) { s.MaxNameLen = 10 }, "must exceed max_backward"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestResolverOptions(t *testing.T) {
	s := Defaults()
	s.Root = "/dump"
	s.Vendor = "lge"
	opts := s.ResolverOptions()
	assert.Equal(t, "/dump", opts.Root)
	assert.Equal(t, "lge", opts.Vendor)
	assert.Equal(t, "/system", opts.BaselinePrefix)
	assert.Equal(t, s.Directories, opts.Directories)
}

func TestLoadIndex(t *testing.T) {
	dir := t.TempDir()
	s := Defaults()
	s.IndexDir = dir

	_, err := LoadIndex(s)
	assert.ErrorIs(t, err, ErrIndexMissing)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sdk_19.txt"), []byte("/system/lib/libc.so\n"), 0o644))
	data, err := LoadIndex(s)
	require.NoError(t, err)
	assert.Equal(t, "/system/lib/libc.so\n", string(data))
}
