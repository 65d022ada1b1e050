package timesheets

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	timesheetsdomain "planner-go/internal/domain/timesheets"
	"planner-go/internal/domain/week"
	commonhandler "planner-go/internal/transport/httpserver/handler/common"
)

type logRequest struct {
	ProjectID string   `json:"project_id"`
	MemberID  string   `json:"member_id"`
	Week      string   `json:"week"`
	Time      *float64 `json:"time"`
	Fact      *float64 `json:"fact"`
}

type logResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	MemberID    string    `json:"member_id"`
	MemberName  string    `json:"member_name"`
	TeamName    string    `json:"team_name"`
	Week        string    `json:"week"`
	Time        float64   `json:"time"`
	Fact        float64   `json:"fact"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Handlers) ListLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to, ok := parseRange(w, query.Get("from"), query.Get("to"))
	if !ok {
		return
	}

	h.writeLogs(w, r, "timesheets.list_logs", timesheetsdomain.LogFilter{
		From:      from,
		To:        to,
		ProjectID: strings.TrimSpace(query.Get("project")),
		TeamID:    strings.TrimSpace(query.Get("team")),
		MemberID:  strings.TrimSpace(query.Get("member")),
	})
}

func (h *Handlers) ListMemberLogs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Teams.GetMember(r.Context(), id); err != nil {
		h.writeServiceError(w, "timesheets.list_member_logs", err, "member_id", id)
		return
	}

	h.writeLogs(w, r, "timesheets.list_member_logs", timesheetsdomain.LogFilter{MemberID: id})
}

func (h *Handlers) CreateLog(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeLog(w, r)
	if !ok {
		return
	}

	entry, err := h.Timesheets.CreateLog(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, "timesheets.create_log", err, "project_id", input.ProjectID, "member_id", input.MemberID)
		return
	}
	writeJSON(w, http.StatusCreated, toLogResponse(*entry))
}

func (h *Handlers) UpdateLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	input, ok := decodeLog(w, r)
	if !ok {
		return
	}

	entry, err := h.Timesheets.UpdateLog(r.Context(), id, input)
	if err != nil {
		h.writeServiceError(w, "timesheets.update_log", err, "log_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toLogResponse(*entry))
}

func (h *Handlers) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Timesheets.DeleteLog(r.Context(), id); err != nil {
		h.writeServiceError(w, "timesheets.delete_log", err, "log_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeLogs(w http.ResponseWriter, r *http.Request, op string, filter timesheetsdomain.LogFilter) {
	items, err := h.Timesheets.ListLogs(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, op, err)
		return
	}

	response := make([]logResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toLogResponse(item))
	}
	writeJSON(w, http.StatusOK, commonhandler.NewList(response))
}

func decodeLog(w http.ResponseWriter, r *http.Request) (timesheetsdomain.LogInput, bool) {
	var req logRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return timesheetsdomain.LogInput{}, false
	}

	monday, ok := parseWeekField(w, req.Week)
	if !ok {
		return timesheetsdomain.LogInput{}, false
	}
	if req.Time == nil {
		writeFieldError(w, http.StatusBadRequest, "invalid_request", "time is required", "time")
		return timesheetsdomain.LogInput{}, false
	}

	return timesheetsdomain.LogInput{
		ProjectID: req.ProjectID,
		MemberID:  req.MemberID,
		Week:      monday,
		Time:      *req.Time,
		Fact:      req.Fact,
	}, true
}

func toLogResponse(entry timesheetsdomain.LogDetails) logResponse {
	return logResponse{
		ID:          entry.ID,
		ProjectID:   entry.ProjectID,
		ProjectName: entry.ProjectName,
		MemberID:    entry.MemberID,
		MemberName:  entry.MemberName,
		TeamName:    entry.TeamName,
		Week:        week.Format(entry.Week),
		Time:        entry.Time,
		Fact:        entry.Fact,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}
