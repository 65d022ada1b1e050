package projects

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	projectsdomain "planner-go/internal/domain/projects"
	commonhandler "planner-go/internal/transport/httpserver/handler/common"
)

type createProjectRequest struct {
	Name      string `json:"name"`
	StateID   string `json:"state_id"`
	ManagerID string `json:"manager_id"`
}

type updateProjectRequest struct {
	Name      *string `json:"name"`
	StateID   *string `json:"state_id"`
	ManagerID *string `json:"manager_id"`
}

type projectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	StateID     string    `json:"state_id"`
	StateName   string    `json:"state_name"`
	ManagerID   string    `json:"manager_id"`
	ManagerName string    `json:"manager_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := projectsdomain.ListFilter{
		StateID:   strings.TrimSpace(query.Get("state")),
		ManagerID: strings.TrimSpace(query.Get("manager")),
		Search:    strings.TrimSpace(query.Get("q")),
	}

	items, err := h.Projects.ListProjects(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, "projects.list_projects", err)
		return
	}

	response := make([]projectResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toProjectResponse(item))
	}
	writeJSON(w, http.StatusOK, commonhandler.NewList(response))
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	project, err := h.Projects.GetProject(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "projects.get_project", err, "project_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(*project))
}

func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	project, err := h.Projects.CreateProject(r.Context(), projectsdomain.CreateProjectInput{
		Name:      req.Name,
		StateID:   req.StateID,
		ManagerID: req.ManagerID,
	})
	if err != nil {
		h.writeServiceError(w, "projects.create_project", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(*project))
}

// UpdateProject applies a partial update; omitted fields keep their values.
func (h *Handlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	current, err := h.Projects.GetProject(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "projects.update_project", err, "project_id", id)
		return
	}

	input := projectsdomain.UpdateProjectInput{
		ID:        id,
		Name:      current.Name,
		StateID:   current.StateID,
		ManagerID: current.ManagerID,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.StateID != nil {
		input.StateID = *req.StateID
	}
	if req.ManagerID != nil {
		input.ManagerID = *req.ManagerID
	}

	project, err := h.Projects.UpdateProject(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, "projects.update_project", err, "project_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(*project))
}

func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Projects.DeleteProject(r.Context(), id); err != nil {
		h.writeServiceError(w, "projects.delete_project", err, "project_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toProjectResponse(project projectsdomain.ProjectDetails) projectResponse {
	return projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		StateID:     project.StateID,
		StateName:   project.StateName,
		ManagerID:   project.ManagerID,
		ManagerName: project.ManagerName,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}
