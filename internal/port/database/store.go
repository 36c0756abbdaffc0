// Package database defines the persistence port (interface).
package database

import (
	"context"

	"github.com/Strob0t/SecTrack/internal/domain/phase"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/domain/task"
)

// Store is the port interface for project and task persistence. Writes are
// last-write-wins; the store offers no conflict detection.
type Store interface {
	// Projects
	ListProjects(ctx context.Context) ([]project.Project, error)
	GetProject(ctx context.Context, id string) (*project.Project, error)
	// CreateProject persists a new project together with its initial task
	// set in one operation.
	CreateProject(ctx context.Context, p *project.Project, tasks map[phase.Phase][]task.Task) error
	SaveProject(ctx context.Context, p *project.Project) error
	// DeleteProject removes the project and all of its tasks.
	DeleteProject(ctx context.Context, id string) error

	// Tasks
	GetTasks(ctx context.Context, projectID string) (map[phase.Phase][]task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	SaveTask(ctx context.Context, t *task.Task) error
}
