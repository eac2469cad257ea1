package resolve

import (
	"fmt"
	"strings"

	"blobdeps/internal/model"
)

// GenerateReport renders a Result as a plain-text diagnostic report.
// Verbose adds the discovery trail (which file mentioned each name, and where).
func GenerateReport(res model.Result, verbose bool) string {
	var sb strings.Builder

	sb.WriteString("=== blobdeps report ===\n")
	fmt.Fprintf(&sb, "Version: %s\n", model.Version)
	if len(res.Targets) > 0 {
		fmt.Fprintf(&sb, "Targets: %s\n", strings.Join(res.Targets, ", "))
	}
	fmt.Fprintf(&sb, "Proprietary blobs: %d  Baseline: %d  Wildcards: %d  Unresolved: %d\n\n",
		res.Count(model.OutcomeTree), res.Count(model.OutcomeBaseline),
		res.Count(model.OutcomeWildcard), res.Count(model.OutcomeUnresolved))

	sb.WriteString("--- Proprietary blobs ---\n")
	blobs := res.Blobs()
	if len(blobs) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, line := range blobs {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if n := res.Count(model.OutcomeWildcard); n > 0 {
		sb.WriteString("\n--- Wildcards ---\n")
		for _, o := range res.Outcomes {
			if o.Kind != model.OutcomeWildcard {
				continue
			}
			fmt.Fprintf(&sb, "%s %-40s prefix=%q suffix=%q matches=%d\n",
				model.IconFor(o), o.Name, o.Prefix, o.Suffix, o.Matches)
		}
	}

	if n := res.Count(model.OutcomeUnresolved); n > 0 {
		sb.WriteString("\n--- Missing from both baseline and dump ---\n")
		for _, o := range res.Outcomes {
			if o.Kind != model.OutcomeUnresolved {
				continue
			}
			fmt.Fprintf(&sb, "%s %s", model.IconFor(o), o.Name)
			if o.ReferencedBy != "" {
				fmt.Fprintf(&sb, " (referenced by %s)", o.ReferencedBy)
			}
			sb.WriteByte('\n')
		}
	}

	if verbose {
		sb.WriteString("\n--- Discovery trail ---\n")
		for _, o := range res.Outcomes {
			indent := strings.Repeat("  ", o.Depth)
			from := "(target)"
			if o.ReferencedBy != "" {
				from = fmt.Sprintf("%s@0x%x", o.ReferencedBy, o.Offset)
			}
			fmt.Fprintf(&sb, "%s%s %s [%s] %s\n", indent, model.IconFor(o), o.Name, o.Kind, from)
		}
	}

	if len(res.Diagnostics) > 0 {
		sb.WriteString("\n--- Diagnostics ---\n")
		for _, d := range res.Diagnostics {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
	}

	return sb.String()
}
