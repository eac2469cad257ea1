package scan

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNameByte(t *testing.T) {
	for _, c := range []byte("azAZ09_-%") {
		assert.True(t, IsNameByte(c), "%q should be a name byte", c)
	}
	for _, c := range []byte{0, '.', '/', ' ', '#', '&', '^', 0xff, '\n', '+'} {
		assert.False(t, IsNameByte(c), "%q should not be a name byte", c)
	}
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		want []int
	}{
		{"empty", "", nil},
		{"no terminator", "libfoo.a libbar", nil},
		{"at buffer start", ".so", []int{0}},
		{"single", "libc.so", []int{4}},
		{"several", "libc.so\x00libm.so\x00", []int{4, 12}},
		{"noise before terminator", "&^%@.so libz.so", []int{12}},
		{"wildcard before terminator", "lib_%s.so", []int{6}},
		{"slash before terminator", "/.so", nil},
		{"nul before terminator", "\x00.so", nil},
		{"overlapping dots", "a.so.so", []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Occurrences([]byte(tt.buf)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOccurrencesStopsEarly(t *testing.T) {
	var got []int
	for off := range Occurrences([]byte("liba.so libb.so libc.so")) {
		got = append(got, off)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []int{4, 12}, got)
}
