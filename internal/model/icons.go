package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconBaseline   = " " // Space (satisfied - no icon to reduce noise)
	IconBlob       = "◆" // Proprietary blob
	IconRecursed   = "→" // Blob was scanned for further names
	IconWildcard   = "≈" // Wildcard expansion
	IconUnresolved = "✗" // Missing everywhere
)

// IconFor picks the list icon for an outcome.
func IconFor(o Outcome) string {
	switch o.Kind {
	case OutcomeTree:
		if o.Recursed {
			return IconRecursed
		}
		return IconBlob
	case OutcomeWildcard:
		return IconWildcard
	case OutcomeUnresolved:
		return IconUnresolved
	}
	return IconBaseline
}
