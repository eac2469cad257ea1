package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blobdeps/internal/model"
	"blobdeps/internal/scan"
)

// placeholderWidth is the length of a placeholder: '%' plus one verb byte.
const placeholderWidth = 2

// SplitWildcard splits "libmmcamera_%s.so" into "libmmcamera_" and ".so".
// If the suffix holds another placeholder it is cut back to the ".so" suffix.
func SplitWildcard(name string) (prefix, suffix string, ok bool) {
	i := strings.IndexByte(name, scan.Wildcard)
	if i < 0 {
		return "", "", false
	}
	prefix = name[:i]
	if i+placeholderWidth < len(name) {
		suffix = name[i+placeholderWidth:]
	}
	if strings.IndexByte(suffix, scan.Wildcard) >= 0 {
		if j := strings.Index(suffix, scan.Terminator); j >= 0 {
			suffix = suffix[j:]
		}
	}
	return prefix, suffix, true
}

// expandWildcard lists every candidate directory and queues each entry whose
// name contains both halves of the wildcard.
func (r *Resolver) expandWildcard(w work) {
	prefix, suffix, _ := SplitWildcard(w.name)

	var matches []work
	for _, dir := range r.opts.Directories {
		entries, err := os.ReadDir(filepath.Join(r.opts.Root, filepath.FromSlash(dir)))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.Contains(e.Name(), prefix) && strings.Contains(e.Name(), suffix) {
				matches = append(matches, work{
					name:     e.Name(),
					from:     w.from,
					offset:   w.offset,
					depth:    w.depth,
					expanded: true,
				})
			}
		}
	}

	r.result.Outcomes = append(r.result.Outcomes, model.Outcome{
		Name:         w.name,
		Kind:         model.OutcomeWildcard,
		Prefix:       prefix,
		Suffix:       suffix,
		Matches:      len(matches),
		ReferencedBy: w.from,
		Offset:       w.offset,
		Depth:        w.depth,
	})

	if len(matches) == 0 {
		r.warn(fmt.Sprintf("wildcard %s%%s%s missing or broken", prefix, suffix))
		return
	}
	r.log.Debug().Str("wildcard", w.name).Int("matches", len(matches)).Msg("expanded wildcard")
	r.push(matches)
}
