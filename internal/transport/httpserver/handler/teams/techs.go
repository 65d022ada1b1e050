package teams

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	teamsdomain "planner-go/internal/domain/teams"
	commonhandler "planner-go/internal/transport/httpserver/handler/common"
)

type techRequest struct {
	Name string `json:"name"`
}

type techResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Teams     *int64    `json:"teams,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *Handlers) ListTechs(w http.ResponseWriter, r *http.Request) {
	items, err := h.Teams.ListTechs(r.Context())
	if err != nil {
		h.writeServiceError(w, "teams.list_techs", err)
		return
	}

	response := make([]techResponse, 0, len(items))
	for _, item := range items {
		teams := item.Teams
		resp := toTechResponse(item.Tech)
		resp.Teams = &teams
		response = append(response, resp)
	}
	writeJSON(w, http.StatusOK, commonhandler.NewList(response))
}

func (h *Handlers) CreateTech(w http.ResponseWriter, r *http.Request) {
	var req techRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	tech, err := h.Teams.CreateTech(r.Context(), req.Name)
	if err != nil {
		h.writeServiceError(w, "teams.create_tech", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTechResponse(*tech))
}

func (h *Handlers) UpdateTech(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req techRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	tech, err := h.Teams.UpdateTech(r.Context(), id, req.Name)
	if err != nil {
		h.writeServiceError(w, "teams.update_tech", err, "tech_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toTechResponse(*tech))
}

func (h *Handlers) DeleteTech(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Teams.DeleteTech(r.Context(), id); err != nil {
		h.writeServiceError(w, "teams.delete_tech", err, "tech_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toTechResponse(tech teamsdomain.Tech) techResponse {
	return techResponse{
		ID:        tech.ID,
		Name:      tech.Name,
		CreatedAt: tech.CreatedAt,
		UpdatedAt: tech.UpdatedAt,
	}
}
