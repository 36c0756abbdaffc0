package http

import (
	"net/http"
	"time"

	"github.com/Strob0t/SecTrack/internal/domain/phase"
	"github.com/Strob0t/SecTrack/internal/domain/project"
	"github.com/Strob0t/SecTrack/internal/domain/task"
	"github.com/Strob0t/SecTrack/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Projects *service.ProjectService
	Tasks    *service.TaskService
	Reports  *service.ReportService
}

// ListProjects handles GET /api/v1/projects
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Projects.List(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []project.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProject handles GET /api/v1/projects/{id}
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	p, err := h.Projects.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProject handles POST /api/v1/projects
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[struct {
		Name string `json:"name"`
	}](w, r)
	if !ok {
		return
	}

	p, err := h.Projects.Create(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, err, "project creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// DeleteProject handles DELETE /api/v1/projects/{id}
func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	if err := h.Projects.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTasks handles GET /api/v1/projects/{id}/tasks
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	tasks, err := h.Projects.Tasks(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, tasksByPhaseName(tasks))
}

// UpdateTask handles PUT /api/v1/tasks/{id}
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	req, ok := readJSON[service.UpdateRequest](w, r)
	if !ok {
		return
	}
	if req.Completed == nil && req.Notes == nil {
		writeError(w, http.StatusBadRequest, "completed or notes is required")
		return
	}

	t, err := h.Tasks.Update(r.Context(), id, req)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// AddEvidence handles POST /api/v1/tasks/{id}/evidence
func (h *Handlers) AddEvidence(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	req, ok := readJSON[struct {
		Ref string `json:"ref"`
	}](w, r)
	if !ok {
		return
	}
	if req.Ref == "" {
		writeError(w, http.StatusBadRequest, "ref is required")
		return
	}

	t, err := h.Tasks.AddEvidence(r.Context(), id, req.Ref)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// GetReport handles GET /api/v1/projects/{id}/report
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	m, err := h.Reports.Model(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetReportDocument handles GET /api/v1/projects/{id}/report/document
func (h *Handlers) GetReportDocument(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	data, contentType, err := h.Reports.Document(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// tasksByPhaseName converts the phase-keyed task map into a name-keyed map
// for the JSON response, preserving per-phase order.
func tasksByPhaseName(tasks map[phase.Phase][]task.Task) map[string][]task.Task {
	out := make(map[string][]task.Task, phase.Count)
	for _, ph := range phase.All() {
		list := tasks[ph]
		if list == nil {
			list = []task.Task{}
		}
		out[ph.String()] = list
	}
	return out
}
