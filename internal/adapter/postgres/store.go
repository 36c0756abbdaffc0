package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/SecTrack/internal/domain"
	"github.com/Strob0t/SecTrack/internal/domain/phase"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/domain/task"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// --- Projects ---

func (s *Store) ListProjects(ctx context.Context) ([]project.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, phases, overall_status, created_at
		 FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, id string) (*project.Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, phases, overall_status, created_at
		 FROM projects WHERE id = $1`, id)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, p *project.Project, tasks map[phase.Phase][]task.Task) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create project: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	phasesJSON, err := json.Marshal(p.Phases)
	if err != nil {
		return fmt.Errorf("marshal phases: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO projects (id, name, phases, overall_status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, phasesJSON, string(p.OverallStatus), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	for _, ph := range phase.All() {
		for i := range tasks[ph] {
			if err := insertTask(ctx, tx, &tasks[ph][i], i); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("create project: commit: %w", err)
	}
	return nil
}

func (s *Store) SaveProject(ctx context.Context, p *project.Project) error {
	phasesJSON, err := json.Marshal(p.Phases)
	if err != nil {
		return fmt.Errorf("marshal phases: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE projects SET name = $2, phases = $3, overall_status = $4 WHERE id = $1`,
		p.ID, p.Name, phasesJSON, string(p.OverallStatus))
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save project %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete project %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// --- Tasks ---

func (s *Store) GetTasks(ctx context.Context, projectID string) (map[phase.Phase][]task.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_id, phase, title, description, completed_at, notes, evidence_files
		 FROM tasks WHERE project_id = $1 ORDER BY phase, position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("get tasks: %w", err)
	}
	defer rows.Close()

	tasks := make(map[phase.Phase][]task.Task, phase.Count)
	for _, ph := range phase.All() {
		tasks[ph] = []task.Task{}
	}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks[t.Phase] = append(tasks[t.Phase], t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, project_id, phase, title, description, completed_at, notes, evidence_files
		 FROM tasks WHERE id = $1`, id)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

func (s *Store) SaveTask(ctx context.Context, t *task.Task) error {
	evidenceJSON, err := json.Marshal(t.EvidenceFiles)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET completed_at = $2, notes = $3, evidence_files = $4 WHERE id = $1`,
		t.ID, t.CompletedAt, t.Notes, evidenceJSON)
	if err != nil {
		return fmt.Errorf("save task %s: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save task %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// --- Scan helpers ---

func insertTask(ctx context.Context, tx pgx.Tx, t *task.Task, position int) error {
	evidenceJSON, err := json.Marshal(t.EvidenceFiles)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO tasks (id, project_id, phase, title, description, completed_at, notes, evidence_files, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.ProjectID, t.Phase.String(), t.Title, t.Description, t.CompletedAt, t.Notes, evidenceJSON, position)
	if err != nil {
		return fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return nil
}

func scanProject(row pgx.Row) (project.Project, error) {
	var (
		p          project.Project
		phasesJSON []byte
		status     string
	)
	if err := row.Scan(&p.ID, &p.Name, &phasesJSON, &status, &p.CreatedAt); err != nil {
		return project.Project{}, err
	}
	if err := json.Unmarshal(phasesJSON, &p.Phases); err != nil {
		return project.Project{}, fmt.Errorf("unmarshal phases: %w", err)
	}
	p.OverallStatus = project.OverallStatus(status)
	return p, nil
}

func scanTask(row pgx.Row) (task.Task, error) {
	var (
		t            task.Task
		phaseName    string
		evidenceJSON []byte
	)
	if err := row.Scan(&t.ID, &t.ProjectID, &phaseName, &t.Title, &t.Description, &t.CompletedAt, &t.Notes, &evidenceJSON); err != nil {
		return task.Task{}, err
	}
	ph, err := phase.Parse(phaseName)
	if err != nil {
		return task.Task{}, fmt.Errorf("scan task %s: %w", t.ID, err)
	}
	t.Phase = ph
	if err := json.Unmarshal(evidenceJSON, &t.EvidenceFiles); err != nil {
		return task.Task{}, fmt.Errorf("unmarshal evidence: %w", err)
	}
	return t, nil
}
