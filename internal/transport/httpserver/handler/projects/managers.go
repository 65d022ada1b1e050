package projects

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	projectsdomain "planner-go/internal/domain/projects"
	commonhandler "planner-go/internal/transport/httpserver/handler/common"
)

type managerRequest struct {
	FullName string `json:"fullname"`
}

type managerResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullname"`
	Projects  *int64    `json:"projects,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *Handlers) ListManagers(w http.ResponseWriter, r *http.Request) {
	items, err := h.Projects.ListManagers(r.Context())
	if err != nil {
		h.writeServiceError(w, "projects.list_managers", err)
		return
	}

	response := make([]managerResponse, 0, len(items))
	for _, item := range items {
		projects := item.Projects
		resp := toManagerResponse(item.Manager)
		resp.Projects = &projects
		response = append(response, resp)
	}
	writeJSON(w, http.StatusOK, commonhandler.NewList(response))
}

func (h *Handlers) CreateManager(w http.ResponseWriter, r *http.Request) {
	var req managerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	manager, err := h.Projects.CreateManager(r.Context(), req.FullName)
	if err != nil {
		h.writeServiceError(w, "projects.create_manager", err)
		return
	}
	writeJSON(w, http.StatusCreated, toManagerResponse(*manager))
}

func (h *Handlers) UpdateManager(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req managerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	manager, err := h.Projects.UpdateManager(r.Context(), id, req.FullName)
	if err != nil {
		h.writeServiceError(w, "projects.update_manager", err, "manager_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toManagerResponse(*manager))
}

func (h *Handlers) DeleteManager(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Projects.DeleteManager(r.Context(), id); err != nil {
		h.writeServiceError(w, "projects.delete_manager", err, "manager_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toManagerResponse(manager projectsdomain.Manager) managerResponse {
	return managerResponse{
		ID:        manager.ID,
		FullName:  manager.FullName,
		CreatedAt: manager.CreatedAt,
		UpdatedAt: manager.UpdatedAt,
	}
}
