package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/SecTrack/internal/adapter/markdowndoc"
	"github.com/Strob0t/SecTrack/internal/adapter/memory"
	"github.com/Strob0t/SecTrack/internal/domain/phase"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/domain/report"
	"github.com/Strob0t/SecTrack/internal/domain/task"
	"github.com/Strob0t/SecTrack/internal/port/messagequeue"
	"github.com/Strob0t/SecTrack/internal/service"
)

// nullQueue drops all published messages.
type nullQueue struct{}

func (nullQueue) Publish(context.Context, string, []byte) error { return nil }
func (nullQueue) Subscribe(context.Context, string, messagequeue.Handler) (func(), error) {
	return func() {}, nil
}
func (nullQueue) Drain() error      { return nil }
func (nullQueue) Close() error      { return nil }
func (nullQueue) IsConnected() bool { return true }

// mapCache is a minimal cache for handler tests.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{entries: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func testRouter() chi.Router {
	store := memory.NewStore()
	c := newMapCache()
	queue := nullQueue{}

	h := &Handlers{
		Projects: service.NewProjectService(store, c),
		Tasks:    service.NewTaskService(store, queue, nil, c, project.Engine{}, nil),
		Reports:  service.NewReportService(store, c, markdowndoc.New(), queue, time.Minute, nil),
	}

	r := chi.NewRouter()
	MountRoutes(r, h)
	return r
}

func doRequest(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return v
}

func createProject(t *testing.T, r chi.Router, name string) project.Project {
	t.Helper()
	rec := doRequest(t, r, http.MethodPost, "/api/v1/projects", `{"name":"`+name+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodeJSON[project.Project](t, rec)
}

func TestCreateProject(t *testing.T) {
	r := testRouter()
	p := createProject(t, r, "Acme Webshop")

	if p.ID == "" || p.Name != "Acme Webshop" {
		t.Fatalf("unexpected project: %+v", p)
	}
	if p.OverallStatus != project.StatusInProgress {
		t.Fatalf("expected in_progress, got %q", p.OverallStatus)
	}
}

func TestCreateProjectBadRequest(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name string
		body string
	}{
		{"empty name", `{"name":""}`},
		{"whitespace name", `{"name":"   "}`},
		{"invalid json", `{"name":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, r, http.MethodPost, "/api/v1/projects", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestListProjects(t *testing.T) {
	r := testRouter()

	rec := doRequest(t, r, http.MethodGet, "/api/v1/projects", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeJSON[[]project.Project](t, rec); len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}

	createProject(t, r, "Alpha")
	createProject(t, r, "Beta")

	rec = doRequest(t, r, http.MethodGet, "/api/v1/projects", "")
	if got := decodeJSON[[]project.Project](t, rec); len(got) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(got))
	}
}

func TestGetProjectNotFound(t *testing.T) {
	r := testRouter()

	rec := doRequest(t, r, http.MethodGet, "/api/v1/projects/nonexistent", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteProject(t *testing.T) {
	r := testRouter()
	p := createProject(t, r, "Acme Webshop")

	rec := doRequest(t, r, http.MethodDelete, "/api/v1/projects/"+p.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doRequest(t, r, http.MethodGet, "/api/v1/projects/"+p.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestListTasks(t *testing.T) {
	r := testRouter()
	p := createProject(t, r, "Acme Webshop")

	rec := doRequest(t, r, http.MethodGet, "/api/v1/projects/"+p.ID+"/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	tasks := decodeJSON[map[string][]task.Task](t, rec)
	if len(tasks) != phase.Count {
		t.Fatalf("expected %d phase keys, got %d", phase.Count, len(tasks))
	}
	for _, ph := range phase.All() {
		if len(tasks[ph.String()]) != 2 {
			t.Fatalf("expected 2 tasks for %s, got %d", ph, len(tasks[ph.String()]))
		}
	}
}

func TestUpdateTask(t *testing.T) {
	r := testRouter()
	p := createProject(t, r, "Acme Webshop")

	rec := doRequest(t, r, http.MethodGet, "/api/v1/projects/"+p.ID+"/tasks", "")
	tasks := decodeJSON[map[string][]task.Task](t, rec)
	tk := tasks["planning"][0]

	rec = doRequest(t, r, http.MethodPut, "/api/v1/tasks/"+tk.ID, `{"completed":true,"notes":"done in sprint 3"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decodeJSON[task.Task](t, rec)
	if !got.Completed() {
		t.Fatal("expected completed task")
	}
	if got.Notes != "done in sprint 3" {
		t.Fatalf("unexpected notes: %q", got.Notes)
	}
}

func TestUpdateTaskEmptyBody(t *testing.T) {
	r := testRouter()
	p := createProject(t, r, "Acme Webshop")

	rec := doRequest(t, r, http.MethodGet, "/api/v1/projects/"+p.ID+"/tasks", "")
	tasks := decodeJSON[map[string][]task.Task](t, rec)
	tk := tasks["planning"][0]

	rec = doRequest(t, r, http.MethodPut, "/api/v1/tasks/"+tk.ID, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a no-op update, got %d", rec.Code)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	r := testRouter()

	rec := doRequest(t, r, http.MethodPut, "/api/v1/tasks/nonexistent", `{"completed":true}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAddEvidence(t *testing.T) {
	r := testRouter()
	p := createProject(t, r, "Acme Webshop")

	rec := doRequest(t, r, http.MethodGet, "/api/v1/projects/"+p.ID+"/tasks", "")
	tasks := decodeJSON[map[string][]task.Task](t, rec)
	tk := tasks["testing"][0]

	rec = doRequest(t, r, http.MethodPost, "/api/v1/tasks/"+tk.ID+"/evidence", `{"ref":"pentest-report.pdf"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeJSON[task.Task](t, rec)
	if len(got.EvidenceFiles) != 1 || got.EvidenceFiles[0] != "pentest-report.pdf" {
		t.Fatalf("unexpected evidence: %v", got.EvidenceFiles)
	}

	rec = doRequest(t, r, http.MethodPost, "/api/v1/tasks/"+tk.ID+"/evidence", `{"ref":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty ref, got %d", rec.Code)
	}
}

func TestGetReport(t *testing.T) {
	r := testRouter()
	p := createProject(t, r, "Acme Webshop")

	rec := doRequest(t, r, http.MethodGet, "/api/v1/projects/"+p.ID+"/tasks", "")
	tasks := decodeJSON[map[string][]task.Task](t, rec)
	for _, tk := range tasks["planning"] {
		doRequest(t, r, http.MethodPut, "/api/v1/tasks/"+tk.ID, `{"completed":true}`)
	}

	rec = doRequest(t, r, http.MethodGet, "/api/v1/projects/"+p.ID+"/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	m := decodeJSON[report.Model](t, rec)
	if m.OverallScore != 20 {
		t.Fatalf("expected score 20 with 2 of 10 done, got %d", m.OverallScore)
	}
	if len(m.CompletedTasks) != 2 || len(m.OutstandingTasks) != 8 {
		t.Fatalf("unexpected task split: %d completed, %d outstanding",
			len(m.CompletedTasks), len(m.OutstandingTasks))
	}
}

func TestGetReportDocument(t *testing.T) {
	r := testRouter()
	p := createProject(t, r, "Acme Webshop")

	rec := doRequest(t, r, http.MethodGet, "/api/v1/projects/"+p.ID+"/report/document", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/markdown; charset=utf-8" {
		t.Fatalf("unexpected content type: %q", got)
	}
	if !strings.Contains(rec.Body.String(), "# Security Compliance Report: Acme Webshop") {
		t.Fatalf("missing title in document:\n%s", rec.Body.String())
	}
}

func TestGetReportNotFound(t *testing.T) {
	r := testRouter()

	rec := doRequest(t, r, http.MethodGet, "/api/v1/projects/nonexistent/report", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
