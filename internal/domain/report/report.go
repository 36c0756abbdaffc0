// Package report computes the renderer-agnostic compliance report model
// from a project and its task set.
package report

import (
	"time"

	"github.com/Strob0t/SecTrack/internal/domain/phase"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/domain/task"
)

// notesLimit is the maximum number of characters of task notes carried
// into a report entry before truncation.
const notesLimit = 80

// PhaseState is the report-level status marker for a phase.
type PhaseState string

const (
	PhaseComplete   PhaseState = "complete"
	PhaseInProgress PhaseState = "in_progress"
	PhaseNotStarted PhaseState = "not_started"
)

// PhaseSummary holds the computed statistics for one phase.
type PhaseSummary struct {
	Phase          phase.Phase `json:"phase"`
	Total          int         `json:"total"`
	CompletedCount int         `json:"completed_count"`
	Percentage     int         `json:"percentage"`
	Status         PhaseState  `json:"status"`
}

// TaskEntry is a phase-tagged task line in the report. Completed entries
// carry the completion date, truncated notes, and the evidence file count;
// outstanding entries carry only phase and title.
type TaskEntry struct {
	Phase         phase.Phase `json:"phase"`
	Title         string      `json:"title"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	EvidenceCount int         `json:"evidence_count,omitempty"`
}

// Model is the structured report consumed by a document writer. It carries
// only computed numbers, statuses, and text fragments; layout is the
// writer's concern.
type Model struct {
	ProjectID        string                `json:"project_id"`
	ProjectName      string                `json:"project_name"`
	OverallStatus    project.OverallStatus `json:"overall_status"`
	OverallScore     int                   `json:"overall_score"`
	GeneratedAt      time.Time             `json:"generated_at"`
	Phases           []PhaseSummary        `json:"phases"`
	CompletedTasks   []TaskEntry           `json:"completed_tasks"`
	OutstandingTasks []TaskEntry           `json:"outstanding_tasks"`
}

// Build computes the report model. It is a pure function of its inputs:
// phases appear in their fixed order, tasks within a phase in their
// original order.
func Build(p *project.Project, tasks map[phase.Phase][]task.Task) *Model {
	m := &Model{
		ProjectID:     p.ID,
		ProjectName:   p.Name,
		OverallStatus: p.OverallStatus,
		GeneratedAt:   time.Now().UTC(),
		Phases:        make([]PhaseSummary, 0, phase.Count),
	}

	grandTotal, grandDone := 0, 0
	for _, ph := range phase.All() {
		list := tasks[ph]
		done := 0
		for i := range list {
			t := &list[i]
			if t.Completed() {
				done++
				m.CompletedTasks = append(m.CompletedTasks, TaskEntry{
					Phase:         ph,
					Title:         t.Title,
					CompletedAt:   t.CompletedAt,
					Notes:         truncateNotes(t.Notes),
					EvidenceCount: len(t.EvidenceFiles),
				})
			} else {
				m.OutstandingTasks = append(m.OutstandingTasks, TaskEntry{
					Phase: ph,
					Title: t.Title,
				})
			}
		}

		m.Phases = append(m.Phases, PhaseSummary{
			Phase:          ph,
			Total:          len(list),
			CompletedCount: done,
			Percentage:     percentage(done, len(list)),
			Status:         phaseState(p.Phases.Get(ph), done),
		})
		grandTotal += len(list)
		grandDone += done
	}

	m.OverallScore = percentage(grandDone, grandTotal)
	return m
}

// percentage returns round-half-up(done/total*100), or 0 when total is 0.
func percentage(done, total int) int {
	if total == 0 {
		return 0
	}
	return (done*100*2 + total) / (total * 2)
}

// phaseState maps a phase status plus completed count to a report marker.
func phaseState(status project.PhaseStatus, completedCount int) PhaseState {
	switch {
	case status.Completed():
		return PhaseComplete
	case completedCount > 0:
		return PhaseInProgress
	default:
		return PhaseNotStarted
	}
}

// truncateNotes caps notes at notesLimit characters, appending an ellipsis
// marker when the original is longer.
func truncateNotes(notes string) string {
	runes := []rune(notes)
	if len(runes) <= notesLimit {
		return notes
	}
	return string(runes[:notesLimit]) + "..."
}
