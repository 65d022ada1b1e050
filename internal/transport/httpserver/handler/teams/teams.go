package teams

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	teamsdomain "planner-go/internal/domain/teams"
	commonhandler "planner-go/internal/transport/httpserver/handler/common"
)

type createTeamRequest struct {
	Name   string `json:"name"`
	TechID string `json:"tech_id"`
}

type updateTeamRequest struct {
	Name   *string `json:"name"`
	TechID *string `json:"tech_id"`
}

type teamResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	TechID     string            `json:"tech_id"`
	TechName   string            `json:"tech_name"`
	Members    int64             `json:"members"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	MemberList *[]memberResponse `json:"member_list,omitempty"`
}

func (h *Handlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := h.Teams.ListTeams(r.Context(), teamsdomain.TeamFilter{
		TechID: strings.TrimSpace(query.Get("tech")),
		Search: query.Get("q"),
	})
	if err != nil {
		h.writeServiceError(w, "teams.list_teams", err)
		return
	}

	response := make([]teamResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toTeamResponse(item))
	}
	writeJSON(w, http.StatusOK, commonhandler.NewList(response))
}

// GetTeam returns the team with its members.
func (h *Handlers) GetTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	team, err := h.Teams.GetTeam(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "teams.get_team", err, "team_id", id)
		return
	}

	members := make([]memberResponse, 0, len(team.MemberList))
	for _, member := range team.MemberList {
		members = append(members, toMemberResponse(member))
	}

	response := toTeamResponse(team.TeamDetails)
	response.MemberList = &members
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	team, err := h.Teams.CreateTeam(r.Context(), req.Name, req.TechID)
	if err != nil {
		h.writeServiceError(w, "teams.create_team", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTeamResponse(*team))
}

func (h *Handlers) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	current, err := h.Teams.GetTeam(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "teams.update_team", err, "team_id", id)
		return
	}

	name, techID := current.Name, current.TechID
	if req.Name != nil {
		name = *req.Name
	}
	if req.TechID != nil {
		techID = *req.TechID
	}

	team, err := h.Teams.UpdateTeam(r.Context(), id, name, techID)
	if err != nil {
		h.writeServiceError(w, "teams.update_team", err, "team_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toTeamResponse(*team))
}

// DeleteTeam also removes the team's members and their time logs.
func (h *Handlers) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Teams.DeleteTeam(r.Context(), id); err != nil {
		h.writeServiceError(w, "teams.delete_team", err, "team_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toTeamResponse(team teamsdomain.TeamDetails) teamResponse {
	return teamResponse{
		ID:        team.ID,
		Name:      team.Name,
		TechID:    team.TechID,
		TechName:  team.TechName,
		Members:   team.Members,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	}
}
