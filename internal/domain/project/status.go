package project

import (
	"fmt"
	"time"

	"github.com/Strob0t/SecTrack/internal/domain"
	"github.com/Strob0t/SecTrack/internal/domain/phase"
	"github.com/Strob0t/SecTrack/internal/domain/task"
)

// Engine recomputes phase and overall completion from task state.
//
// EmptyPhaseCompletes controls whether a phase with no tasks counts as
// complete. A bare every()-style check would be vacuously true for an
// empty list; the default here is false so a phase cannot complete without
// at least one finished task.
type Engine struct {
	EmptyPhaseCompletes bool
}

// UpdatePhaseStatus recomputes completion for the given phase from its
// task list and then recomputes the project's overall status. Only the
// affected phase is touched; the project is mutated in place and not
// persisted.
func (e Engine) UpdatePhaseStatus(p *Project, ph phase.Phase, tasks []task.Task) error {
	if !ph.Valid() {
		return fmt.Errorf("update phase status: phase %d: %w", int(ph), domain.ErrInvalidPhase)
	}

	done := e.phaseDone(tasks)
	switch {
	case done && !p.Phases[ph].Completed():
		now := time.Now().UTC()
		p.Phases[ph].CompletedAt = &now
	case !done:
		p.Phases[ph].CompletedAt = nil
	}

	p.OverallStatus = StatusInProgress
	if e.allPhasesDone(p) {
		p.OverallStatus = StatusCompleted
	}
	return nil
}

func (e Engine) phaseDone(tasks []task.Task) bool {
	if len(tasks) == 0 {
		return e.EmptyPhaseCompletes
	}
	for i := range tasks {
		if !tasks[i].Completed() {
			return false
		}
	}
	return true
}

func (e Engine) allPhasesDone(p *Project) bool {
	for _, ph := range phase.All() {
		if !p.Phases[ph].Completed() {
			return false
		}
	}
	return true
}
