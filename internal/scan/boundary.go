package scan

import (
	"bytes"
	"errors"
	"iter"
)

const (
	// DefaultMaxBackward is how far before ".so" a "lib"/"egl" start is searched for.
	DefaultMaxBackward = 50
	// DefaultMaxNameLen bounds a candidate name, suffix included.
	DefaultMaxNameLen = 256
)

var (
	libPrefix = []byte("lib")
	eglPrefix = []byte("egl")
)

// Reasons a ".so" occurrence does not produce a name.
var (
	ErrNoPrefix    = errors.New("no lib/egl prefix within range")
	ErrNameTooLong = errors.New("candidate name exceeds maximum length")
	ErrNotText     = errors.New("candidate name contains non-printable bytes")
	ErrNotFileName = errors.New("candidate name contains a path separator")
)

// Candidate is a library name recovered from a buffer.
type Candidate struct {
	Name   string
	Offset int // offset of the ".so" terminator
}

// Extractor recovers full library names around ".so" occurrences.
type Extractor struct {
	// Directories are stripped from the front of names written with their
	// path ("/lib/hw/camera.foo.so" -> "camera.foo.so"). Order matters.
	Directories []string
	MaxBackward int
	MaxNameLen  int
}

// NewExtractor returns an Extractor using the default limits.
func NewExtractor(dirs []string) *Extractor {
	return &Extractor{
		Directories: dirs,
		MaxBackward: DefaultMaxBackward,
		MaxNameLen:  DefaultMaxNameLen,
	}
}

// Candidates scans buf and yields one entry per plausible ".so" occurrence:
// either a name, or the reason none could be extracted.
func (e *Extractor) Candidates(buf []byte) iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		for off := range Occurrences(buf) {
			name, err := e.NameAt(buf, off)
			if !yield(Candidate{Name: name, Offset: off}, err) {
				return
			}
		}
	}
}

// NameAt extracts the name whose ".so" terminator starts at term.
//
// The nearest "lib" or "egl" within MaxBackward bytes marks the start. If a
// '/' precedes it and the bytes from there match a directory, the name begins
// after that directory instead. Otherwise the walk continues back through
// name bytes and the earliest "lib" seen wins, so "libfoo_lib.so" is not cut
// down to "lib.so".
func (e *Extractor) NameAt(buf []byte, term int) (string, error) {
	end := term + len(Terminator)
	if term < 0 || end > len(buf) || !bytes.Equal(buf[term:end], terminator) {
		return "", ErrNoPrefix
	}

	start := -1
	for n := 0; n <= e.maxBackward() && term-n >= 0; n++ {
		p := term - n
		if !bytes.HasPrefix(buf[p:], libPrefix) && !bytes.HasPrefix(buf[p:], eglPrefix) {
			continue
		}
		start = p
		if p > 0 && buf[p-1] == '/' {
			for _, dir := range e.Directories {
				if bytes.HasPrefix(buf[p-1:], []byte(dir)) {
					start = p - 1 + len(dir)
					break
				}
			}
		} else {
			start = e.earliestLib(buf, p, end)
		}
		break
	}

	if start < 0 || start >= term {
		return "", ErrNoPrefix
	}
	if end-start > e.maxNameLen() {
		return "", ErrNameTooLong
	}
	name := buf[start:end]
	for _, c := range name {
		if c <= ' ' || c > '~' {
			return "", ErrNotText
		}
	}
	// Directories that matched a template are already stripped; anything
	// left is not a plain file name and must not reach the filesystem.
	if bytes.IndexByte(name, '/') >= 0 {
		return "", ErrNotFileName
	}
	return string(name), nil
}

// earliestLib walks back from p over name bytes and returns the earliest
// "lib" start found, or p if there is none.
func (e *Extractor) earliestLib(buf []byte, p, end int) int {
	start := p
	floor := end - e.maxNameLen()
	for q := p - 1; q > 0 && q > floor && IsNameByte(buf[q]); q-- {
		if bytes.HasPrefix(buf[q-1:], libPrefix) {
			start = q - 1
		}
	}
	return start
}

func (e *Extractor) maxBackward() int {
	if e.MaxBackward <= 0 {
		return DefaultMaxBackward
	}
	return e.MaxBackward
}

func (e *Extractor) maxNameLen() int {
	if e.MaxNameLen <= 0 {
		return DefaultMaxNameLen
	}
	return e.MaxNameLen
}
