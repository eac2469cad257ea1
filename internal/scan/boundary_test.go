package scan

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func termOf(t *testing.T, buf string) int {
	t.Helper()
	i := strings.LastIndex(buf, Terminator)
	require.GreaterOrEqual(t, i, 0, "no terminator in %q", buf)
	return i
}

func TestNameAt(t *testing.T) {
	e := NewExtractor(Directories())

	tests := []struct {
		name string
		buf  string
		want string
		err  error
	}{
		{"plain", "\x00libcutils.so\x00", "libcutils.so", nil},
		{"egl prefix", "\x00eglsubAndroid.so\x00", "eglsubAndroid.so", nil},
		{"nested lib prefers earliest", "\x01...foo_lib_wavelet_lib.so", "lib_wavelet_lib.so", nil},
		{"nested lib full name", "\x00libmmcamera_wavelet_lib.so", "libmmcamera_wavelet_lib.so", nil},
		{"walk stops at non-name byte", "libother.libfoo.so", "libfoo.so", nil},
		{"path before name", "/system/vendor/lib/libqmi.so", "libqmi.so", nil},
		{"hw directory stripped", "/system/lib/hw/camera.msm8974.so", "camera.msm8974.so", nil},
		{"vendor hw directory stripped", "/vendor/lib64/hw/gralloc.default.so", "gralloc.default.so", nil},
		{"egl directory stripped", "/lib/egl/eglsubAndroid.so", "eglsubAndroid.so", nil},
		{"wildcard", "\x00libmmcamera_%s.so\x00", "libmmcamera_%s.so", nil},
		{"name at buffer start", "libc.so", "libc.so", nil},
		{"no prefix", "\x00something.so", "", ErrNoPrefix},
		{"prefix too far back", "lib" + strings.Repeat("x", 60) + ".so", "", ErrNoPrefix},
		{"binary between prefix and suffix", "libc\x00\x01\x02x.so", "", ErrNotText},
		{"parent directory segments", "\x00lib/../../../secret.so\x00", "", ErrNotFileName},
		{"unknown directory left in name", "/opt/lib/x/camera.so", "", ErrNotFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.NameAt([]byte(tt.buf), termOf(t, tt.buf))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNameAtBackwardLimit(t *testing.T) {
	e := NewExtractor(nil)

	// "lib" starting exactly MaxBackward bytes before ".so" is still found.
	within := "lib" + strings.Repeat("x", DefaultMaxBackward-3) + ".so"
	name, err := e.NameAt([]byte(within), termOf(t, within))
	require.NoError(t, err)
	assert.Equal(t, within, name)

	beyond := "lib" + strings.Repeat("x", DefaultMaxBackward-2) + ".so"
	_, err = e.NameAt([]byte(beyond), termOf(t, beyond))
	assert.ErrorIs(t, err, ErrNoPrefix)
}

func TestNameAtMaxNameLen(t *testing.T) {
	e := &Extractor{MaxBackward: 50, MaxNameLen: 8}
	buf := "libabcdefgh.so"
	_, err := e.NameAt([]byte(buf), termOf(t, buf))
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestNameAtNestedWalkIsBounded(t *testing.T) {
	e := &Extractor{MaxBackward: 50, MaxNameLen: 20}
	// The early "lib" is more than MaxNameLen bytes before the end, so the
	// nearest one wins.
	buf := "lib" + strings.Repeat("a", 30) + "_libz.so"
	name, err := e.NameAt([]byte(buf), termOf(t, buf))
	require.NoError(t, err)
	assert.Equal(t, "libz.so", name)
}

func TestCandidates(t *testing.T) {
	e := NewExtractor(Directories())
	var blob bytes.Buffer
	blob.WriteString("\x7fELF\x02\x01\x01\x00")
	blob.WriteString("libc.so\x00")
	blob.WriteString("&^%@.so\x00")             // filtered by the scanner
	blob.WriteString("\x00\x00\x00garbage.so\x00") // spans binary, rejected
	blob.WriteString("/system/lib/hw/camera.msm8974.so\x00")
	blob.WriteString("libmmcamera_%s.so\x00")

	var names []string
	var abstained int
	for c, err := range e.Candidates(blob.Bytes()) {
		if err != nil {
			abstained++
			continue
		}
		assert.Equal(t, Terminator, string(blob.Bytes()[c.Offset:c.Offset+3]))
		names = append(names, c.Name)
	}

	want := []string{"libc.so", "camera.msm8974.so", "libmmcamera_%s.so"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, abstained)
}
