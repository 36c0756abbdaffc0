// Package project defines the Project domain entity and the phase
// completion engine.
package project

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/SecTrack/internal/domain/phase"
)

// OverallStatus is the derived project-level status. It is recomputed from
// the phase statuses and never set directly.
type OverallStatus string

const (
	StatusInProgress OverallStatus = "in_progress"
	StatusCompleted  OverallStatus = "completed"
)

// PhaseStatus tracks completion of a single phase. Like tasks, completion
// is carried solely by the timestamp: nil means incomplete.
type PhaseStatus struct {
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether the phase is done.
func (s PhaseStatus) Completed() bool {
	return s.CompletedAt != nil
}

// PhaseSet holds one PhaseStatus per phase, indexed by the phase enum. It
// serializes as a JSON object keyed by phase name.
type PhaseSet [phase.Count]PhaseStatus

// Get returns the status for the given phase.
func (ps PhaseSet) Get(p phase.Phase) PhaseStatus {
	return ps[p]
}

// MarshalJSON renders the set as {"planning": {...}, ...}.
func (ps PhaseSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]PhaseStatus, phase.Count)
	for _, p := range phase.All() {
		m[p.String()] = ps[p]
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads a JSON object keyed by phase name. Missing phases
// stay incomplete; unknown keys are rejected.
func (ps *PhaseSet) UnmarshalJSON(data []byte) error {
	var m map[string]PhaseStatus
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out PhaseSet
	for name, status := range m {
		p, err := phase.Parse(name)
		if err != nil {
			return fmt.Errorf("phase set: %w", err)
		}
		out[p] = status
	}
	*ps = out
	return nil
}

// Project is a tracked software project with one security checklist
// partitioned across the five phases.
type Project struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Phases        PhaseSet      `json:"phases"`
	OverallStatus OverallStatus `json:"overall_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// New creates a project with a fresh id, all phases incomplete, and overall
// status in_progress. The name is validated and trimmed.
func New(name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Project{
		ID:            uuid.NewString(),
		Name:          name,
		OverallStatus: StatusInProgress,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
