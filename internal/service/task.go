package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Strob0t/SecTrack/internal/adapter/otel"
	"github.com/Strob0t/SecTrack/internal/adapter/ws"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/domain/task"
	"github.com/Strob0t/SecTrack/internal/port/cache"
	"github.com/Strob0t/SecTrack/internal/port/database"
	"github.com/Strob0t/SecTrack/internal/port/messagequeue"
)

// TaskService handles task mutations and drives phase recomputation.
type TaskService struct {
	store   database.Store
	queue   messagequeue.Queue
	hub     *ws.Hub
	cache   cache.Cache
	engine  project.Engine
	metrics *otel.Metrics
}

// NewTaskService creates a new TaskService.
func NewTaskService(store database.Store, queue messagequeue.Queue, hub *ws.Hub, cache cache.Cache, engine project.Engine, metrics *otel.Metrics) *TaskService {
	return &TaskService{store: store, queue: queue, hub: hub, cache: cache, engine: engine, metrics: metrics}
}

// UpdateRequest holds the mutable task fields. Nil fields are left
// untouched; a non-nil Notes always replaces the stored notes verbatim.
type UpdateRequest struct {
	Completed *bool   `json:"completed"`
	Notes     *string `json:"notes"`
}

// Get returns a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*task.Task, error) {
	return s.store.GetTask(ctx, id)
}

// Update applies a completion/notes change to a task, recomputes the
// affected phase and the project's overall status, persists both, and
// publishes the resulting events.
func (s *TaskService) Update(ctx context.Context, id string, req UpdateRequest) (*task.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Completed != nil {
		t.SetCompletion(*req.Completed)
	}
	if req.Notes != nil {
		t.SetNotes(*req.Notes)
	}

	// The task and its project are saved in two writes. A failure between
	// them leaves the phase status stale until the next update recomputes
	// it; all checklist writes are last-write-wins.
	if err := s.store.SaveTask(ctx, t); err != nil {
		return nil, err
	}

	if err := s.recompute(ctx, t); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.TasksUpdated.Add(ctx, 1)
	}
	return t, nil
}

// AddEvidence attaches an evidence reference to a task. Duplicate
// references are a no-op; the task is only persisted when the list changed.
func (s *TaskService) AddEvidence(ctx context.Context, id, ref string) (*task.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if !t.AddEvidence(ref) {
		return t, nil
	}

	if err := s.store.SaveTask(ctx, t); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, reportCacheKey(t.ProjectID))

	s.publish(ctx, messagequeue.SubjectEvidenceAdded, map[string]string{
		"task_id":    t.ID,
		"project_id": t.ProjectID,
		"ref":        ref,
	})
	if s.metrics != nil {
		s.metrics.EvidenceAdded.Add(ctx, 1)
	}
	return t, nil
}

// recompute reruns the completion engine for the task's phase, saves the
// project, invalidates the cached report, and emits events for any phase
// or project completion transitions.
func (s *TaskService) recompute(ctx context.Context, t *task.Task) error {
	p, err := s.store.GetProject(ctx, t.ProjectID)
	if err != nil {
		return err
	}
	phaseWasDone := p.Phases.Get(t.Phase).Completed()
	projectWasDone := p.OverallStatus == project.StatusCompleted

	tasks, err := s.store.GetTasks(ctx, t.ProjectID)
	if err != nil {
		return err
	}
	if err := s.engine.UpdatePhaseStatus(p, t.Phase, tasks[t.Phase]); err != nil {
		return err
	}
	if err := s.store.SaveProject(ctx, p); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, reportCacheKey(p.ID))

	s.publish(ctx, messagequeue.SubjectTaskUpdated, t)
	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventTaskUpdated, ws.TaskUpdatedEvent{
			TaskID:    t.ID,
			ProjectID: t.ProjectID,
			Phase:     t.Phase.String(),
			Completed: t.Completed(),
		})
	}

	phaseDone := p.Phases.Get(t.Phase).Completed()
	if phaseDone && !phaseWasDone {
		s.publish(ctx, messagequeue.SubjectPhaseCompleted, map[string]string{
			"project_id": p.ID,
			"phase":      t.Phase.String(),
		})
		if s.hub != nil {
			s.hub.BroadcastEvent(ctx, ws.EventPhaseCompleted, ws.PhaseCompletedEvent{
				ProjectID: p.ID,
				Phase:     t.Phase.String(),
			})
		}
		if s.metrics != nil {
			s.metrics.PhasesCompleted.Add(ctx, 1)
		}
	}

	if p.OverallStatus == project.StatusCompleted && !projectWasDone {
		s.publish(ctx, messagequeue.SubjectProjectCompleted, map[string]string{
			"project_id": p.ID,
			"name":       p.Name,
		})
		if s.hub != nil {
			s.hub.BroadcastEvent(ctx, ws.EventProjectCompleted, ws.ProjectCompletedEvent{
				ProjectID: p.ID,
				Name:      p.Name,
			})
		}
		if s.metrics != nil {
			s.metrics.ProjectsCompleted.Add(ctx, 1)
		}
	}
	return nil
}

// publish marshals the payload and sends it to the queue. Publish failures
// are logged, not propagated: the state change is already persisted and
// the event can be regenerated from it.
func (s *TaskService) publish(ctx context.Context, subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal queue payload", "subject", subject, "error", err)
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		slog.Error("failed to publish event", "subject", subject, "error", err)
	}
}

// reportCacheKey builds the cache key for a project's report model. Dots,
// not colons: the distributed cache level stores keys in a NATS KV bucket,
// whose key charset excludes ':'.
func reportCacheKey(projectID string) string {
	return fmt.Sprintf("report.%s", projectID)
}
