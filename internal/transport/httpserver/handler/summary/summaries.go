package summary

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	summarydomain "planner-go/internal/domain/summary"
	"planner-go/internal/domain/week"
	commonhandler "planner-go/internal/transport/httpserver/handler/common"
)

type projectSummaryResponse struct {
	ProjectID    string   `json:"project_id"`
	Project      string   `json:"project"`
	Manager      string   `json:"manager"`
	State        string   `json:"state"`
	Week         string   `json:"week"`
	BackEnd      *float64 `json:"back_end"`
	FrontEnd     *float64 `json:"front_end"`
	Mobile       *float64 `json:"mobile"`
	Analysis     *float64 `json:"analysis"`
	TotalPlanned *float64 `json:"total_planned"`
	TotalLogged  *float64 `json:"total_logged"`
	TotalFact    *float64 `json:"total_fact"`
	Difference   float64  `json:"difference"`
}

type memberEntryResponse struct {
	MemberID  string  `json:"member_id"`
	Member    string  `json:"member"`
	ProjectID string  `json:"project_id"`
	Project   string  `json:"project"`
	Hours     float64 `json:"hours"`
	Line      string  `json:"line"`
}

type projectRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type teamSummaryResponse struct {
	TeamID       string                `json:"team_id"`
	Team         string                `json:"team"`
	Tech         string                `json:"tech"`
	Week         string                `json:"week"`
	Members      []memberEntryResponse `json:"members"`
	Projects     []projectRefResponse  `json:"projects"`
	TotalPlanned *float64              `json:"total_planned"`
	TotalLogged  *float64              `json:"total_logged"`
	TotalFact    *float64              `json:"total_fact"`
	Difference   float64               `json:"difference"`
	SharedTech   bool                  `json:"shared_tech"`
}

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to, ok := parseRange(w, query.Get("from"), query.Get("to"))
	if !ok {
		return
	}
	allWeeks, err := commonhandler.ParseWeeksMode(query.Get("weeks"), h.defaultWeeks)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "invalid_request", err.Error(), "weeks")
		return
	}

	rows, err := h.Summary.ListProjects(r.Context(), summarydomain.ProjectFilter{
		From:     from,
		To:       to,
		State:    query.Get("state"),
		Manager:  query.Get("manager"),
		Project:  query.Get("project"),
		AllWeeks: allWeeks,
	})
	if err != nil {
		h.writeServiceError(w, "summary.list_projects", err)
		return
	}

	response := make([]projectSummaryResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, toProjectSummaryResponse(row))
	}
	writeJSON(w, http.StatusOK, commonhandler.NewList(response))
}

func (h *Handlers) ProjectSummary(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "project_id")
	monday, ok := parseWeekParam(w, chi.URLParam(r, "week"))
	if !ok {
		return
	}

	row, err := h.Summary.ProjectSummary(r.Context(), projectID, monday)
	if err != nil {
		h.writeServiceError(w, "summary.project", err, "project_id", projectID)
		return
	}
	writeJSON(w, http.StatusOK, toProjectSummaryResponse(*row))
}

func (h *Handlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, to, ok := parseRange(w, query.Get("from"), query.Get("to"))
	if !ok {
		return
	}
	allWeeks, err := commonhandler.ParseWeeksMode(query.Get("weeks"), h.defaultWeeks)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "invalid_request", err.Error(), "weeks")
		return
	}

	rows, err := h.Summary.ListTeams(r.Context(), summarydomain.TeamFilter{
		From:     from,
		To:       to,
		Team:     query.Get("team"),
		AllWeeks: allWeeks,
	})
	if err != nil {
		h.writeServiceError(w, "summary.list_teams", err)
		return
	}

	response := make([]teamSummaryResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, toTeamSummaryResponse(row))
	}
	writeJSON(w, http.StatusOK, commonhandler.NewList(response))
}

func (h *Handlers) TeamSummary(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "team_id")
	monday, ok := parseWeekParam(w, chi.URLParam(r, "week"))
	if !ok {
		return
	}

	row, err := h.Summary.TeamSummary(r.Context(), teamID, monday)
	if err != nil {
		h.writeServiceError(w, "summary.team", err, "team_id", teamID)
		return
	}
	writeJSON(w, http.StatusOK, toTeamSummaryResponse(*row))
}

func toProjectSummaryResponse(row summarydomain.ProjectSummary) projectSummaryResponse {
	return projectSummaryResponse{
		ProjectID:    row.ProjectID,
		Project:      row.ProjectName,
		Manager:      row.ManagerName,
		State:        row.StateName,
		Week:         week.Format(row.Week),
		BackEnd:      row.BackEnd,
		FrontEnd:     row.FrontEnd,
		Mobile:       row.Mobile,
		Analysis:     row.Analysis,
		TotalPlanned: row.TotalPlanned,
		TotalLogged:  row.TotalLogged,
		TotalFact:    row.TotalFact,
		Difference:   row.Difference,
	}
}

func toTeamSummaryResponse(row summarydomain.TeamSummary) teamSummaryResponse {
	members := make([]memberEntryResponse, 0, len(row.Members))
	for _, entry := range row.Members {
		members = append(members, memberEntryResponse{
			MemberID:  entry.MemberID,
			Member:    entry.MemberName,
			ProjectID: entry.ProjectID,
			Project:   entry.ProjectName,
			Hours:     entry.Hours,
			Line:      entry.Line(),
		})
	}

	projects := make([]projectRefResponse, 0, len(row.Projects))
	for _, project := range row.Projects {
		projects = append(projects, projectRefResponse{ID: project.ID, Name: project.Name})
	}

	return teamSummaryResponse{
		TeamID:       row.TeamID,
		Team:         row.TeamName,
		Tech:         row.TechName,
		Week:         week.Format(row.Week),
		Members:      members,
		Projects:     projects,
		TotalPlanned: row.TotalPlanned,
		TotalLogged:  row.TotalLogged,
		TotalFact:    row.TotalFact,
		Difference:   row.Difference,
		SharedTech:   row.SharedTech,
	}
}

func parseWeekParam(w http.ResponseWriter, value string) (time.Time, bool) {
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
