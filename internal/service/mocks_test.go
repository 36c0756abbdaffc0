package service

import (
	"context"
	"sync"
	"time"

	"github.com/Strob0t/SecTrack/internal/domain"
	"github.com/Strob0t/SecTrack/internal/domain/phase"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/domain/task"
	"github.com/Strob0t/SecTrack/internal/port/cache"
	"github.com/Strob0t/SecTrack/internal/port/database"
	"github.com/Strob0t/SecTrack/internal/port/messagequeue"
)

// Compile-time interface checks.
var (
	_ database.Store     = (*mockStore)(nil)
	_ messagequeue.Queue = (*mockQueue)(nil)
	_ cache.Cache        = (*mockCache)(nil)
)

// mockStore is a minimal in-memory implementation of database.Store for
// testing.
type mockStore struct {
	projects map[string]project.Project
	tasks    map[string]map[phase.Phase][]task.Task

	// Error hooks, set these to inject failures.
	getProjectErr    error
	createProjectErr error
	saveProjectErr   error
	saveTaskErr      error
}

func newMockStore() *mockStore {
	return &mockStore{
		projects: make(map[string]project.Project),
		tasks:    make(map[string]map[phase.Phase][]task.Task),
	}
}

// seed registers a project together with its tasks.
func (m *mockStore) seed(p *project.Project, tasks map[phase.Phase][]task.Task) {
	m.projects[p.ID] = *p
	m.tasks[p.ID] = tasks
}

func (m *mockStore) ListProjects(_ context.Context) ([]project.Project, error) {
	out := make([]project.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockStore) GetProject(_ context.Context, id string) (*project.Project, error) {
	if m.getProjectErr != nil {
		return nil, m.getProjectErr
	}
	p, ok := m.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *mockStore) CreateProject(_ context.Context, p *project.Project, tasks map[phase.Phase][]task.Task) error {
	if m.createProjectErr != nil {
		return m.createProjectErr
	}
	m.seed(p, tasks)
	return nil
}

func (m *mockStore) SaveProject(_ context.Context, p *project.Project) error {
	if m.saveProjectErr != nil {
		return m.saveProjectErr
	}
	if _, ok := m.projects[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.projects[p.ID] = *p
	return nil
}

func (m *mockStore) DeleteProject(_ context.Context, id string) error {
	if _, ok := m.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.projects, id)
	delete(m.tasks, id)
	return nil
}

func (m *mockStore) GetTasks(_ context.Context, projectID string) (map[phase.Phase][]task.Task, error) {
	byPhase, ok := m.tasks[projectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return byPhase, nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	for _, byPhase := range m.tasks {
		for _, list := range byPhase {
			for i := range list {
				if list[i].ID == id {
					t := list[i]
					return &t, nil
				}
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) SaveTask(_ context.Context, t *task.Task) error {
	if m.saveTaskErr != nil {
		return m.saveTaskErr
	}
	list := m.tasks[t.ProjectID][t.Phase]
	for i := range list {
		if list[i].ID == t.ID {
			list[i] = *t
			return nil
		}
	}
	return domain.ErrNotFound
}

// mockQueue records published messages and active subscriptions.
type mockQueue struct {
	mu         sync.Mutex
	published  []string // subjects in publish order
	publishErr error
	handlers   map[string]messagequeue.Handler
}

func (q *mockQueue) Publish(_ context.Context, subject string, _ []byte) error {
	if q.publishErr != nil {
		return q.publishErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, subject)
	return nil
}

func (q *mockQueue) Subscribe(_ context.Context, subject string, h messagequeue.Handler) (func(), error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.handlers == nil {
		q.handlers = make(map[string]messagequeue.Handler)
	}
	q.handlers[subject] = h
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.handlers, subject)
	}, nil
}

// handler returns the registered handler for subject, if any.
func (q *mockQueue) handler(subject string) messagequeue.Handler {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.handlers[subject]
}

func (q *mockQueue) Drain() error      { return nil }
func (q *mockQueue) Close() error      { return nil }
func (q *mockQueue) IsConnected() bool { return true }

// count returns how many times subject was published.
func (q *mockQueue) count(subject string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, s := range q.published {
		if s == subject {
			n++
		}
	}
	return n
}

// mockCache is a map-backed cache that records deletes.
type mockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (c *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *mockCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deleted = append(c.deleted, key)
	return nil
}
