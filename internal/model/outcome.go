package model

// OutcomeKind classifies how a discovered library name was resolved.
type OutcomeKind string

const (
	OutcomeBaseline   OutcomeKind = "baseline"   // present in the reference index, nothing to do
	OutcomeTree       OutcomeKind = "tree"       // proprietary blob found in the system dump
	OutcomeWildcard   OutcomeKind = "wildcard"   // placeholder name expanded by directory listing
	OutcomeUnresolved OutcomeKind = "unresolved" // in neither corpus (obsolete or broken)
)

// Outcome is the resolution of a single library name.
type Outcome struct {
	Name string      // e.g. libmmcamera_interface.so
	Kind OutcomeKind // see OutcomeKind

	// Tree hits
	Directory string // Candidate directory template that matched (e.g. /vendor/lib/)
	Source    string // Path inside the vendor tree (proprietary/...)
	Dest      string // Path on the target system (system/...)
	BlobLine  string // Line printed for the build file list
	Recursed  bool   // True if the blob itself was scanned for more names

	// Baseline hits
	BaselinePath string // The index entry that satisfied the name

	// Wildcard expansion
	Prefix  string
	Suffix  string
	Matches int

	// Discovery
	ReferencedBy string // File whose bytes mentioned the name ("" for user targets)
	Offset       int    // Offset of the ".so" terminator in ReferencedBy
	Depth        int    // 0 for user targets, +1 per hop
}

// Result is everything a run produced, in the order it was produced.
type Result struct {
	Targets     []string
	Outcomes    []Outcome
	Diagnostics []string
}

// Blobs returns the blob lines in output order.
func (r Result) Blobs() []string {
	var lines []string
	for _, o := range r.Outcomes {
		if o.Kind == OutcomeTree {
			lines = append(lines, o.BlobLine)
		}
	}
	return lines
}

// Count returns how many outcomes have the given kind.
func (r Result) Count(kind OutcomeKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			n++
		}
	}
	return n
}
