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

type planRequest struct {
	ProjectID string   `json:"project_id"`
	TechID    string   `json:"tech_id"`
	Week      string   `json:"week"`
	Time      *float64 `json:"time"`
}

type planResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	TechID      string    `json:"tech_id"`
	TechName    string    `json:"tech_name"`
	Week        string    `json:"week"`
	Time        float64   `json:"time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Handlers) ListPlans(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to, ok := parseRange(w, query.Get("from"), query.Get("to"))
	if !ok {
		return
	}

	h.writePlans(w, r, "timesheets.list_plans", timesheetsdomain.PlanFilter{
		From:      from,
		To:        to,
		ProjectID: strings.TrimSpace(query.Get("project")),
		TechID:    strings.TrimSpace(query.Get("tech")),
	})
}

// ListProjectPlans returns every plan of one project ordered by week.
func (h *Handlers) ListProjectPlans(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Projects.GetProject(r.Context(), id); err != nil {
		h.writeServiceError(w, "timesheets.list_project_plans", err, "project_id", id)
		return
	}

	h.writePlans(w, r, "timesheets.list_project_plans", timesheetsdomain.PlanFilter{ProjectID: id})
}

func (h *Handlers) CreatePlan(w http.ResponseWriter, r *http.Request) {
	input, ok := decodePlan(w, r)
	if !ok {
		return
	}

	plan, err := h.Timesheets.CreatePlan(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, "timesheets.create_plan", err, "project_id", input.ProjectID, "tech_id", input.TechID)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanResponse(*plan))
}

func (h *Handlers) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	input, ok := decodePlan(w, r)
	if !ok {
		return
	}

	plan, err := h.Timesheets.UpdatePlan(r.Context(), id, input)
	if err != nil {
		h.writeServiceError(w, "timesheets.update_plan", err, "plan_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(*plan))
}

func (h *Handlers) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Timesheets.DeletePlan(r.Context(), id); err != nil {
		h.writeServiceError(w, "timesheets.delete_plan", err, "plan_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writePlans(w http.ResponseWriter, r *http.Request, op string, filter timesheetsdomain.PlanFilter) {
	items, err := h.Timesheets.ListPlans(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, op, err)
		return
	}

	response := make([]planResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toPlanResponse(item))
	}
	writeJSON(w, http.StatusOK, commonhandler.NewList(response))
}

func decodePlan(w http.ResponseWriter, r *http.Request) (timesheetsdomain.PlanInput, bool) {
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return timesheetsdomain.PlanInput{}, false
	}

	monday, ok := parseWeekField(w, req.Week)
	if !ok {
		return timesheetsdomain.PlanInput{}, false
	}
	if req.Time == nil {
		writeFieldError(w, http.StatusBadRequest, "invalid_request", "time is required", "time")
		return timesheetsdomain.PlanInput{}, false
	}

	return timesheetsdomain.PlanInput{
		ProjectID: req.ProjectID,
		TechID:    req.TechID,
		Week:      monday,
		Time:      *req.Time,
	}, true
}

func toPlanResponse(plan timesheetsdomain.PlanDetails) planResponse {
	return planResponse{
		ID:          plan.ID,
		ProjectID:   plan.ProjectID,
		ProjectName: plan.ProjectName,
		TechID:      plan.TechID,
		TechName:    plan.TechName,
		Week:        week.Format(plan.Week),
		Time:        plan.Time,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
}

func parseWeekField(w http.ResponseWriter, value string) (time.Time, bool) {
	monday, err := commonhandler.ParseWeek(value)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "invalid_request", "week must be a YYYY-MM-DD date", "week")
		return time.Time{}, false
	}
	return monday, true
}

func parseRange(w http.ResponseWriter, fromValue, toValue string) (*time.Time, *time.Time, bool) {
	from, err := commonhandler.ParseDateParam(fromValue)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "invalid_request", "invalid from", "from")
		return nil, nil, false
	}
	to, err := commonhandler.ParseDateParam(toValue)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "invalid_request", "invalid to", "to")
		return nil, nil, false
	}
	return from, to, true
}
