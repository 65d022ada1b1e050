package teams

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	teamsdomain "planner-go/internal/domain/teams"
	commonhandler "planner-go/internal/transport/httpserver/handler/common"
)

type createMemberRequest struct {
	FullName string `json:"fullname"`
	TeamID   string `json:"team_id"`
}

type updateMemberRequest struct {
	FullName *string `json:"fullname"`
	TeamID   *string `json:"team_id"`
}

type memberResponse struct {
	ID                string    `json:"id"`
	FullName          string    `json:"fullname"`
	TeamID            string    `json:"team_id"`
	TeamName          string    `json:"team_name"`
	CurrentWeekLogged *float64  `json:"current_week_logged"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := h.Teams.ListMembers(r.Context(), teamsdomain.MemberFilter{
		TeamID: strings.TrimSpace(query.Get("team")),
		Search: query.Get("q"),
	})
	if err != nil {
		h.writeServiceError(w, "teams.list_members", err)
		return
	}

	response := make([]memberResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toMemberResponse(item))
	}
	writeJSON(w, http.StatusOK, commonhandler.NewList(response))
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	member, err := h.Teams.GetMember(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "teams.get_member", err, "member_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	member, err := h.Teams.CreateMember(r.Context(), req.FullName, req.TeamID)
	if err != nil {
		h.writeServiceError(w, "teams.create_member", err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberResponse(*member))
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	current, err := h.Teams.GetMember(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "teams.update_member", err, "member_id", id)
		return
	}

	fullName, teamID := current.FullName, current.TeamID
	if req.FullName != nil {
		fullName = *req.FullName
	}
	if req.TeamID != nil {
		teamID = *req.TeamID
	}

	member, err := h.Teams.UpdateMember(r.Context(), id, fullName, teamID)
	if err != nil {
		h.writeServiceError(w, "teams.update_member", err, "member_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Teams.DeleteMember(r.Context(), id); err != nil {
		h.writeServiceError(w, "teams.delete_member", err, "member_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toMemberResponse(member teamsdomain.MemberDetails) memberResponse {
	return memberResponse{
		ID:                member.ID,
		FullName:          member.FullName,
		TeamID:            member.TeamID,
		TeamName:          member.TeamName,
		CurrentWeekLogged: member.CurrentWeekLogged,
		CreatedAt:         member.CreatedAt,
		UpdatedAt:         member.UpdatedAt,
	}
}
