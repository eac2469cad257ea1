package resolve

// DefaultRegistryWarnBytes is the registry size after which a warning is
// logged. Real system dumps stay well below it; crossing it usually means
// the scanner is producing junk names.
const DefaultRegistryWarnBytes = 16384

// Registry remembers every name that has been handed to the tree lookup so
// that a library referenced by many files is only reported once. It only
// grows.
type Registry struct {
	names     []string
	index     map[string]struct{}
	size      int
	warnBytes int
	warned    bool
}

// NewRegistry creates an empty registry. warnBytes <= 0 selects the default.
func NewRegistry(warnBytes int) *Registry {
	if warnBytes <= 0 {
		warnBytes = DefaultRegistryWarnBytes
	}
	return &Registry{
		index:     make(map[string]struct{}),
		warnBytes: warnBytes,
	}
}

// Seen reports whether name was recorded before.
func (r *Registry) Seen(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Record adds name. Callers check Seen first; recording twice is harmless.
// The return value is true exactly once: on the call that takes the
// registry past its warning size.
func (r *Registry) Record(name string) bool {
	if r.Seen(name) {
		return false
	}
	r.index[name] = struct{}{}
	r.names = append(r.names, name)
	r.size += len(name) + 1
	if !r.warned && r.size > r.warnBytes {
		r.warned = true
		return true
	}
	return false
}

// Names returns the recorded names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len is the number of recorded names.
func (r *Registry) Len() int {
	return len(r.names)
}

// Size is the number of bytes the recorded names take, one separator each.
func (r *Registry) Size() int {
	return r.size
}
