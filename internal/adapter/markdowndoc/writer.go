// Package markdowndoc renders compliance report models as markdown
// documents. Layout concerns (sections, date formatting) live here, not in
// the report model.
package markdowndoc

import (
	"fmt"
	"strings"
	"time"

	"github.com/Strob0t/SecTrack/internal/domain/report"
)

// dateLayout is the human-readable date format used in rendered documents.
const dateLayout = "January 2, 2006"

// Writer implements the document writer port with markdown output.
type Writer struct{}

// New creates a markdown document writer.
func New() *Writer {
	return &Writer{}
}

// ContentType returns the MIME type of rendered documents.
func (w *Writer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

// Write renders the report model under the given title and date stamp.
func (w *Writer) Write(m *report.Model, title string, stamp time.Time) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Project: %s\n\n", m.ProjectName)
	fmt.Fprintf(&b, "Generated: %s\n\n", stamp.Format(dateLayout))
	fmt.Fprintf(&b, "Security Score: %d%% (%s)\n", m.OverallScore, statusLabel(string(m.OverallStatus)))

	b.WriteString("\n## Phase Progress\n\n")
	for _, ps := range m.Phases {
		fmt.Fprintf(&b, "- %s: %d/%d tasks (%d%%) - %s\n",
			phaseTitle(ps.Phase.String()), ps.CompletedCount, ps.Total, ps.Percentage, statusLabel(string(ps.Status)))
	}

	b.WriteString("\n## Completed Tasks\n\n")
	if len(m.CompletedTasks) == 0 {
		b.WriteString("None.\n")
	}
	for _, t := range m.CompletedTasks {
		fmt.Fprintf(&b, "- [x] %s (%s)", t.Title, phaseTitle(t.Phase.String()))
		if t.CompletedAt != nil {
			fmt.Fprintf(&b, " - completed %s", t.CompletedAt.Format(dateLayout))
		}
		if t.EvidenceCount > 0 {
			fmt.Fprintf(&b, ", %d evidence file(s)", t.EvidenceCount)
		}
		b.WriteString("\n")
		if t.Notes != "" {
			fmt.Fprintf(&b, "  - Notes: %s\n", t.Notes)
		}
	}

	b.WriteString("\n## Outstanding Tasks\n\n")
	if len(m.OutstandingTasks) == 0 {
		b.WriteString("None.\n")
	}
	for _, t := range m.OutstandingTasks {
		fmt.Fprintf(&b, "- [ ] %s (%s)\n", t.Title, phaseTitle(t.Phase.String()))
	}

	return []byte(b.String()), nil
}

// statusLabel converts a snake_case status value to a display label.
func statusLabel(s string) string {
	switch s {
	case "in_progress":
		return "In Progress"
	case "completed", "complete":
		return "Complete"
	case "not_started":
		return "Not Started"
	default:
		return s
	}
}

// phaseTitle capitalizes a phase name for display.
func phaseTitle(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
