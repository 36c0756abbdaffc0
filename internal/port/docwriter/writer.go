// Package docwriter defines the document writer port. A writer turns a
// report model into an opaque rendered document; pagination, line wrapping,
// and date formatting are the writer's concern, not the core's.
package docwriter

import (
	"time"

	"github.com/Strob0t/SecTrack/internal/domain/report"
)

// Writer renders a report model into a document.
type Writer interface {
	// Write renders the model under the given title and date stamp.
	Write(m *report.Model, title string, stamp time.Time) ([]byte, error)

	// ContentType returns the MIME type of the rendered document.
	ContentType() string
}
