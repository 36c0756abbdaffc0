package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Strob0t/SecTrack/internal/domain/phase"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/domain/task"
)

func makeTask(ph phase.Phase, title string, done bool) task.Task {
	tk := task.New("p1", ph, title, "")
	tk.SetCompletion(done)
	return tk
}

func testProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.New("Acme Webshop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func defaultTaskMap(done int) map[phase.Phase][]task.Task {
	tasks := make(map[phase.Phase][]task.Task, phase.Count)
	n := 0
	for _, ph := range phase.All() {
		for i := 0; i < 2; i++ {
			tasks[ph] = append(tasks[ph], makeTask(ph, ph.String(), n < done))
			n++
		}
	}
	return tasks
}

func TestBuildScore(t *testing.T) {
	tests := []struct {
		name string
		done int
		want int
	}{
		{"none done", 0, 0},
		{"half done", 5, 50},
		{"all done", 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(testProject(t), defaultTaskMap(tt.done))
			if m.OverallScore != tt.want {
				t.Fatalf("expected score %d, got %d", tt.want, m.OverallScore)
			}
		})
	}
}

func TestBuildScoreNoTasks(t *testing.T) {
	m := Build(testProject(t), map[phase.Phase][]task.Task{})
	if m.OverallScore != 0 {
		t.Fatalf("expected score 0 with no tasks, got %d", m.OverallScore)
	}
	if len(m.Phases) != phase.Count {
		t.Fatalf("expected %d phase summaries, got %d", phase.Count, len(m.Phases))
	}
}

func TestBuildPercentageRounding(t *testing.T) {
	// 1/8 = 12.5%, rounds half up to 13.
	tasks := map[phase.Phase][]task.Task{
		phase.Planning: {
			makeTask(phase.Planning, "a", true),
			makeTask(phase.Planning, "b", false),
			makeTask(phase.Planning, "c", false),
			makeTask(phase.Planning, "d", false),
			makeTask(phase.Planning, "e", false),
			makeTask(phase.Planning, "f", false),
			makeTask(phase.Planning, "g", false),
			makeTask(phase.Planning, "h", false),
		},
	}
	m := Build(testProject(t), tasks)
	if got := m.Phases[0].Percentage; got != 13 {
		t.Fatalf("expected 13%%, got %d%%", got)
	}
	// 1/3 = 33.3%, rounds down to 33.
	m = Build(testProject(t), map[phase.Phase][]task.Task{
		phase.Planning: {
			makeTask(phase.Planning, "a", true),
			makeTask(phase.Planning, "b", false),
			makeTask(phase.Planning, "c", false),
		},
	})
	if got := m.Phases[0].Percentage; got != 33 {
		t.Fatalf("expected 33%%, got %d%%", got)
	}
}

func TestBuildPhaseStates(t *testing.T) {
	p := testProject(t)
	stamp := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	p.Phases[phase.Planning].CompletedAt = &stamp

	tasks := map[phase.Phase][]task.Task{
		phase.Planning: {makeTask(phase.Planning, "a", true), makeTask(phase.Planning, "b", true)},
		phase.Design:   {makeTask(phase.Design, "c", true), makeTask(phase.Design, "d", false)},
		phase.Testing:  {makeTask(phase.Testing, "e", false)},
	}

	m := Build(p, tasks)

	byPhase := make(map[phase.Phase]PhaseSummary, len(m.Phases))
	for _, ps := range m.Phases {
		byPhase[ps.Phase] = ps
	}

	if byPhase[phase.Planning].Status != PhaseComplete {
		t.Fatalf("expected planning complete, got %s", byPhase[phase.Planning].Status)
	}
	if byPhase[phase.Design].Status != PhaseInProgress {
		t.Fatalf("expected design in_progress, got %s", byPhase[phase.Design].Status)
	}
	if byPhase[phase.Testing].Status != PhaseNotStarted {
		t.Fatalf("expected testing not_started, got %s", byPhase[phase.Testing].Status)
	}
}

func TestBuildPartitionsAndOrdersTasks(t *testing.T) {
	tasks := map[phase.Phase][]task.Task{
		phase.Planning:   {makeTask(phase.Planning, "first", true), makeTask(phase.Planning, "second", false)},
		phase.Deployment: {makeTask(phase.Deployment, "third", true)},
	}

	m := Build(testProject(t), tasks)

	if len(m.CompletedTasks) != 2 || len(m.OutstandingTasks) != 1 {
		t.Fatalf("expected 2 completed and 1 outstanding, got %d and %d",
			len(m.CompletedTasks), len(m.OutstandingTasks))
	}
	if m.CompletedTasks[0].Title != "first" || m.CompletedTasks[1].Title != "third" {
		t.Fatalf("completed tasks out of phase order: %q, %q",
			m.CompletedTasks[0].Title, m.CompletedTasks[1].Title)
	}
	if m.CompletedTasks[0].CompletedAt == nil {
		t.Fatal("completed entry must carry its completion date")
	}
	if m.OutstandingTasks[0].Title != "second" {
		t.Fatalf("unexpected outstanding task: %q", m.OutstandingTasks[0].Title)
	}
}

func TestBuildTruncatesNotes(t *testing.T) {
	long := strings.Repeat("x", 100)
	tk := makeTask(phase.Planning, "a", true)
	tk.SetNotes(long)

	m := Build(testProject(t), map[phase.Phase][]task.Task{phase.Planning: {tk}})

	got := m.CompletedTasks[0].Notes
	want := strings.Repeat("x", 80) + "..."
	if got != want {
		t.Fatalf("expected %d-char truncated notes, got %d chars", len(want), len(got))
	}

	// Exactly at the limit stays untouched.
	tk.SetNotes(strings.Repeat("y", 80))
	m = Build(testProject(t), map[phase.Phase][]task.Task{phase.Planning: {tk}})
	if m.CompletedTasks[0].Notes != strings.Repeat("y", 80) {
		t.Fatal("notes at the limit must not be truncated")
	}
}

func TestBuildEvidenceCount(t *testing.T) {
	tk := makeTask(phase.Testing, "pentest", true)
	tk.AddEvidence("report.pdf")
	tk.AddEvidence("scan.log")

	m := Build(testProject(t), map[phase.Phase][]task.Task{phase.Testing: {tk}})

	if got := m.CompletedTasks[0].EvidenceCount; got != 2 {
		t.Fatalf("expected evidence count 2, got %d", got)
	}
}
