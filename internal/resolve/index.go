package resolve

import "strings"

// CommentMarker in front of an index entry means the library is deliberately
// absent from the baseline.
const CommentMarker = '#'

// Index is the baseline manifest: the text of an sdk_<N>.txt file listing
// every path present on the reference system, one per line.
type Index struct {
	text string
}

// NewIndex wraps the raw manifest text.
func NewIndex(text []byte) *Index {
	return &Index{text: string(text)}
}

// Contains reports whether path occurs in the manifest other than directly
// after a comment marker.
func (x *Index) Contains(path string) bool {
	if path == "" {
		return false
	}
	rest := x.text
	base := 0
	for {
		i := strings.Index(rest, path)
		if i < 0 {
			return false
		}
		at := base + i
		if at == 0 || x.text[at-1] != CommentMarker {
			return true
		}
		base = at + 1
		rest = x.text[base:]
	}
}

// Len is the size of the manifest in bytes.
func (x *Index) Len() int {
	return len(x.text)
}
