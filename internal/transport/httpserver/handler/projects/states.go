package projects

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	projectsdomain "planner-go/internal/domain/projects"
	commonhandler "planner-go/internal/transport/httpserver/handler/common"
)

type stateRequest struct {
	Name string `json:"name"`
}

type stateResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Projects  *int64    `json:"projects,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *Handlers) ListStates(w http.ResponseWriter, r *http.Request) {
	items, err := h.Projects.ListStates(r.Context())
	if err != nil {
		h.writeServiceError(w, "projects.list_states", err)
		return
	}

	response := make([]stateResponse, 0, len(items))
	for _, item := range items {
		projects := item.Projects
		resp := toStateResponse(item.State)
		resp.Projects = &projects
		response = append(response, resp)
	}
	writeJSON(w, http.StatusOK, commonhandler.NewList(response))
}

func (h *Handlers) CreateState(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	state, err := h.Projects.CreateState(r.Context(), req.Name)
	if err != nil {
		h.writeServiceError(w, "projects.create_state", err)
		return
	}
	writeJSON(w, http.StatusCreated, toStateResponse(*state))
}

func (h *Handlers) UpdateState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req stateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	state, err := h.Projects.UpdateState(r.Context(), id, req.Name)
	if err != nil {
		h.writeServiceError(w, "projects.update_state", err, "state_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(*state))
}

func (h *Handlers) DeleteState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Projects.DeleteState(r.Context(), id); err != nil {
		h.writeServiceError(w, "projects.delete_state", err, "state_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toStateResponse(state projectsdomain.State) stateResponse {
	return stateResponse{
		ID:        state.ID,
		Name:      state.Name,
		CreatedAt: state.CreatedAt,
		UpdatedAt: state.UpdatedAt,
	}
}
