// Package memory implements the database store port with an in-process
// map. It backs the "memory" store driver used for development and tests;
// state is owned by the Store value and passed explicitly, never held in
// package-level variables.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Strob0t/SecTrack/internal/domain"
	"github.com/Strob0t/SecTrack/internal/domain/phase"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/domain/task"
)

// Store is an in-memory database.Store implementation. Safe for concurrent
// use; writes are last-write-wins like the SQL adapter.
type Store struct {
	mu       sync.RWMutex
	projects map[string]project.Project
	tasks    map[string]map[phase.Phase][]task.Task // projectID -> phase -> ordered tasks
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		projects: make(map[string]project.Project),
		tasks:    make(map[string]map[phase.Phase][]task.Task),
	}
}

func (s *Store) ListProjects(_ context.Context) ([]project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]project.Project, 0, len(s.projects))
	for _, p := range s.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (s *Store) GetProject(_ context.Context, id string) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("get project %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) CreateProject(_ context.Context, p *project.Project, tasks map[phase.Phase][]task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects[p.ID] = *p
	byPhase := make(map[phase.Phase][]task.Task, phase.Count)
	for _, ph := range phase.All() {
		byPhase[ph] = append([]task.Task(nil), tasks[ph]...)
	}
	s.tasks[p.ID] = byPhase
	return nil
}

func (s *Store) SaveProject(_ context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[p.ID]; !ok {
		return fmt.Errorf("save project %s: %w", p.ID, domain.ErrNotFound)
	}
	s.projects[p.ID] = *p
	return nil
}

func (s *Store) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return fmt.Errorf("delete project %s: %w", id, domain.ErrNotFound)
	}
	delete(s.projects, id)
	delete(s.tasks, id)
	return nil
}

func (s *Store) GetTasks(_ context.Context, projectID string) (map[phase.Phase][]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byPhase, ok := s.tasks[projectID]
	if !ok {
		return nil, fmt.Errorf("get tasks for %s: %w", projectID, domain.ErrNotFound)
	}
	out := make(map[phase.Phase][]task.Task, phase.Count)
	for _, ph := range phase.All() {
		out[ph] = append([]task.Task(nil), byPhase[ph]...)
	}
	return out, nil
}

func (s *Store) GetTask(_ context.Context, id string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, byPhase := range s.tasks {
		for _, list := range byPhase {
			for i := range list {
				if list[i].ID == id {
					t := list[i]
					return &t, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
}

func (s *Store) SaveTask(_ context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byPhase, ok := s.tasks[t.ProjectID]
	if !ok {
		return fmt.Errorf("save task %s: %w", t.ID, domain.ErrNotFound)
	}
	list := byPhase[t.Phase]
	for i := range list {
		if list[i].ID == t.ID {
			list[i] = *t
			return nil
		}
	}
	return fmt.Errorf("save task %s: %w", t.ID, domain.ErrNotFound)
}
