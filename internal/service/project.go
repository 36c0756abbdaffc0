// Package service implements business logic on top of ports.
package service

import (
	"context"

	"github.com/Strob0t/SecTrack/internal/domain/phase"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/domain/task"
	"github.com/Strob0t/SecTrack/internal/port/cache"
	"github.com/Strob0t/SecTrack/internal/port/database"
)

// ProjectService handles project lifecycle logic.
type ProjectService struct {
	store database.Store
	cache cache.Cache
}

// NewProjectService creates a new ProjectService.
func NewProjectService(store database.Store, cache cache.Cache) *ProjectService {
	return &ProjectService{store: store, cache: cache}
}

// List returns all projects.
func (s *ProjectService) List(ctx context.Context) ([]project.Project, error) {
	return s.store.ListProjects(ctx)
}

// Get returns a project by ID.
func (s *ProjectService) Get(ctx context.Context, id string) (*project.Project, error) {
	return s.store.GetProject(ctx, id)
}

// Create validates the name, builds a new project with the default task
// catalog (two tasks per phase), and persists both in one operation.
func (s *ProjectService) Create(ctx context.Context, name string) (*project.Project, error) {
	p, err := project.New(name)
	if err != nil {
		return nil, err
	}

	tasks := task.DefaultTasks(p.ID)
	if err := s.store.CreateProject(ctx, p, tasks); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project together with its tasks and drops any cached
// report for it.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, reportCacheKey(id))
	return nil
}

// Tasks returns the full task map for a project, keyed by phase. The
// project is resolved first so a missing id surfaces as not found rather
// than an empty map.
func (s *ProjectService) Tasks(ctx context.Context, id string) (map[phase.Phase][]task.Task, error) {
	if _, err := s.store.GetProject(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetTasks(ctx, id)
}
