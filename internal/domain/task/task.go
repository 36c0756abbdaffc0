// Package task defines the security Task domain entity and the default
// task catalog.
package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/SecTrack/internal/domain/phase"
)

// Task is a single checkable security activity belonging to exactly one
// phase of a project. Completion is carried solely by CompletedAt: a nil
// timestamp means incomplete, so a "completed without date" state cannot
// be represented.
type Task struct {
	ID            string      `json:"id"`
	ProjectID     string      `json:"project_id"`
	Phase         phase.Phase `json:"phase"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	Notes         string      `json:"notes"`
	EvidenceFiles []string    `json:"evidence_files"`
}

// New creates a task with a fresh id, incomplete, with empty notes and no
// evidence.
func New(projectID string, ph phase.Phase, title, description string) Task {
	return Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Phase:       ph,
		Title:       title,
		Description: description,
	}
}

// Completed reports whether the task has been marked done.
func (t *Task) Completed() bool {
	return t.CompletedAt != nil
}

// SetCompletion marks the task done or not done. Every call with
// completed=true stamps the current time, so re-completing refreshes the
// timestamp; completed=false clears it.
func (t *Task) SetCompletion(completed bool) {
	if !completed {
		t.CompletedAt = nil
		return
	}
	now := time.Now().UTC()
	t.CompletedAt = &now
}

// SetNotes replaces the task notes verbatim.
func (t *Task) SetNotes(notes string) {
	t.Notes = notes
}

// AddEvidence appends ref to the evidence list unless it is already
// present. First-seen order is preserved. Returns false on a duplicate.
func (t *Task) AddEvidence(ref string) bool {
	for _, existing := range t.EvidenceFiles {
		if existing == ref {
			return false
		}
	}
	t.EvidenceFiles = append(t.EvidenceFiles, ref)
	return true
}
