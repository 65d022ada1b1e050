package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"planner-go/internal/config"
	"planner-go/internal/db"
	"planner-go/internal/metrics"
	"planner-go/pkg/logger"
)

var dbCounter atomic.Int64

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupApp(t *testing.T, tune func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.SQLitePath = fmt.Sprintf("file:app_%s_%d?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"), dbCounter.Add(1))
	if tune != nil {
		tune(&cfg)
	}

	log := logger.Discard()
	dbConn, err := Open(cfg, log)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(dbConn) })

	m := metrics.New()
	services, err := NewServices(dbConn, cfg, m)
	if err != nil {
		t.Fatalf("services: %v", err)
	}

	server := httptest.NewServer(NewHandler(cfg, services, m, log, true))
	t.Cleanup(server.Close)

	return &testEnv{server: server, token: cfg.HTTP.AdminToken}
}

func (e *testEnv) do(t *testing.T, method, path string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, data
}

// create posts payload and returns the id of the new record.
func (e *testEnv) create(t *testing.T, path string, payload any) string {
	t.Helper()

	status, body := e.do(t, http.MethodPost, path, payload)
	if status != http.StatusCreated {
		t.Fatalf("POST %s: expected 201, got %d: %s", path, status, body)
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, body, &created)
	if created.ID == "" {
		t.Fatalf("POST %s: expected id in %s", path, body)
	}
	return created.ID
}

func decode(t *testing.T, body []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

type errorResponse struct {
	Error struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

func expectError(t *testing.T, status int, body []byte, wantStatus int, wantCode, wantField string) {
	t.Helper()

	if status != wantStatus {
		t.Fatalf("expected %d, got %d: %s", wantStatus, status, body)
	}
	var resp errorResponse
	decode(t, body, &resp)
	if resp.Error.Code != wantCode {
		t.Fatalf("expected code %q, got %q", wantCode, resp.Error.Code)
	}
	if resp.Error.Field != wantField {
		t.Fatalf("expected field %q, got %q", wantField, resp.Error.Field)
	}
}

type fixture struct {
	projectID string
	techID    string
	teamID    string
	memberID  string
}

func seed(t *testing.T, env *testEnv) fixture {
	t.Helper()

	managerID := env.create(t, "/api/project-managers", map[string]string{"fullname": "Anna Smith"})
	stateID := env.create(t, "/api/project-states", map[string]string{"name": "Active"})
	projectID := env.create(t, "/api/projects", map[string]string{
		"name":       "Apollo",
		"state_id":   stateID,
		"manager_id": managerID,
	})
	techID := env.create(t, "/api/techs", map[string]string{"name": "Back-end"})
	teamID := env.create(t, "/api/teams", map[string]string{"name": "Borealis", "tech_id": techID})
	memberID := env.create(t, "/api/team-members", map[string]string{"fullname": "Lea", "team_id": teamID})

	return fixture{projectID: projectID, techID: techID, teamID: teamID, memberID: memberID}
}

func TestHealthIsPublic(t *testing.T) {
	env := setupApp(t, func(cfg *config.Config) { cfg.HTTP.AdminToken = "secret" })
	env.token = ""

	status, body := env.do(t, http.MethodGet, "/api/health", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Fatalf("expected ok status, got %s", body)
	}

	status, body = env.do(t, http.MethodGet, "/api/projects", nil)
	expectError(t, status, body, http.StatusUnauthorized, "invalid_token", "")

	env.token = "secret"
	status, body = env.do(t, http.MethodGet, "/api/projects", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", status, body)
	}
}

func TestCatalogFlow(t *testing.T) {
	env := setupApp(t, nil)
	ids := seed(t, env)

	status, body := env.do(t, http.MethodGet, "/api/projects", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var projects struct {
		Items []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			StateName   string `json:"state_name"`
			ManagerName string `json:"manager_name"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	decode(t, body, &projects)
	if projects.Total != 1 || projects.Items[0].ID != ids.projectID {
		t.Fatalf("expected the seeded project, got %s", body)
	}
	if projects.Items[0].StateName != "Active" || projects.Items[0].ManagerName != "Anna Smith" {
		t.Fatalf("expected joined names, got %+v", projects.Items[0])
	}

	status, body = env.do(t, http.MethodPatch, "/api/projects/"+ids.projectID, map[string]string{"name": "Apollo 2"})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), `"name":"Apollo 2"`) || !strings.Contains(string(body), `"state_name":"Active"`) {
		t.Fatalf("expected partial update to keep the state, got %s", body)
	}

	status, body = env.do(t, http.MethodGet, "/api/teams/"+ids.teamID, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), `"member_list"`) || !strings.Contains(string(body), `"fullname":"Lea"`) {
		t.Fatalf("expected team with members, got %s", body)
	}

	status, body = env.do(t, http.MethodDelete, "/api/team-members/"+ids.memberID, nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", status, body)
	}
	status, body = env.do(t, http.MethodGet, "/api/team-members/"+ids.memberID, nil)
	expectError(t, status, body, http.StatusNotFound, "member_not_found", "")
}

func TestErrorMapping(t *testing.T) {
	env := setupApp(t, nil)
	ids := seed(t, env)

	plan := map[string]any{"project_id": ids.projectID, "tech_id": ids.techID, "week": "2026-10-19", "time": 10}
	env.create(t, "/api/time-plans", plan)

	status, body := env.do(t, http.MethodPost, "/api/time-plans", plan)
	expectError(t, status, body, http.StatusConflict, "duplicate_entry", "")

	status, body = env.do(t, http.MethodPost, "/api/time-plans", map[string]any{
		"project_id": ids.projectID, "tech_id": ids.techID, "week": "2026-10-20", "time": 10,
	})
	expectError(t, status, body, http.StatusBadRequest, "invalid_weekday", "week")

	status, body = env.do(t, http.MethodPost, "/api/time-logs", map[string]any{
		"project_id": ids.projectID, "member_id": ids.memberID, "week": "2026-10-19", "time": -1,
	})
	expectError(t, status, body, http.StatusBadRequest, "negative_value", "time")

	status, body = env.do(t, http.MethodPost, "/api/time-plans", map[string]any{
		"project_id": "missing", "tech_id": ids.techID, "week": "2026-10-26", "time": 1,
	})
	expectError(t, status, body, http.StatusBadRequest, "invalid_reference", "project_id")

	status, body = env.do(t, http.MethodDelete, "/api/techs/"+ids.techID, nil)
	expectError(t, status, body, http.StatusConflict, "reference_in_use", "")

	status, body = env.do(t, http.MethodPost, "/api/project-states", map[string]string{"name": "Active"})
	expectError(t, status, body, http.StatusConflict, "duplicate_entry", "name")

	status, body = env.do(t, http.MethodGet, "/api/projects/missing", nil)
	expectError(t, status, body, http.StatusNotFound, "project_not_found", "")

	status, body = env.do(t, http.MethodGet, "/api/summaries/projects/"+ids.projectID+"/2026-10-21", nil)
	expectError(t, status, body, http.StatusBadRequest, "invalid_weekday", "week")
}

func TestMalformedIDs(t *testing.T) {
	env := setupApp(t, nil)
	ids := seed(t, env)

	status, body := env.do(t, http.MethodGet, "/api/projects/abc", nil)
	expectError(t, status, body, http.StatusNotFound, "project_not_found", "")

	status, body = env.do(t, http.MethodDelete, "/api/techs/abc", nil)
	expectError(t, status, body, http.StatusNotFound, "tech_not_found", "")

	status, body = env.do(t, http.MethodPut, "/api/time-logs/abc", map[string]any{
		"project_id": ids.projectID, "member_id": ids.memberID, "week": "2026-10-19", "time": 1,
	})
	expectError(t, status, body, http.StatusNotFound, "time_log_not_found", "")

	status, body = env.do(t, http.MethodPost, "/api/time-plans", map[string]any{
		"project_id": "abc", "tech_id": ids.techID, "week": "2026-10-19", "time": 1,
	})
	expectError(t, status, body, http.StatusBadRequest, "invalid_reference", "project_id")

	status, body = env.do(t, http.MethodPost, "/api/team-members", map[string]string{"fullname": "Ken", "team_id": "abc"})
	expectError(t, status, body, http.StatusBadRequest, "invalid_reference", "team_id")

	status, body = env.do(t, http.MethodGet, "/api/summaries/teams/abc/2026-10-19", nil)
	expectError(t, status, body, http.StatusNotFound, "team_not_found", "")

	status, body = env.do(t, http.MethodGet, "/api/time-plans?project=abc", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), `"total":0`) {
		t.Fatalf("expected no plans, got %s", body)
	}
}

type projectSummary struct {
	Project      string   `json:"project"`
	Week         string   `json:"week"`
	BackEnd      *float64 `json:"back_end"`
	FrontEnd     *float64 `json:"front_end"`
	TotalPlanned *float64 `json:"total_planned"`
	TotalLogged  *float64 `json:"total_logged"`
	TotalFact    *float64 `json:"total_fact"`
	Difference   float64  `json:"difference"`
}

func TestSummaries(t *testing.T) {
	env := setupApp(t, nil)
	ids := seed(t, env)

	env.create(t, "/api/time-plans", map[string]any{
		"project_id": ids.projectID, "tech_id": ids.techID, "week": "2026-10-12", "time": 4,
	})
	env.create(t, "/api/time-plans", map[string]any{
		"project_id": ids.projectID, "tech_id": ids.techID, "week": "2026-10-19", "time": 10,
	})
	env.create(t, "/api/time-logs", map[string]any{
		"project_id": ids.projectID, "member_id": ids.memberID, "week": "2026-10-19", "time": 7, "fact": 6,
	})

	status, body := env.do(t, http.MethodGet, "/api/summaries/projects", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var latest struct {
		Items []projectSummary `json:"items"`
		Total int64            `json:"total"`
	}
	decode(t, body, &latest)
	if latest.Total != 1 {
		t.Fatalf("expected latest week only, got %s", body)
	}
	row := latest.Items[0]
	if row.Week != "2026-10-19" || row.Project != "Apollo" {
		t.Fatalf("unexpected row %+v", row)
	}
	if row.BackEnd == nil || *row.BackEnd != 10 || row.FrontEnd != nil {
		t.Fatalf("unexpected tech columns %s", body)
	}
	if row.TotalLogged == nil || *row.TotalLogged != 7 || row.TotalFact == nil || *row.TotalFact != 6 {
		t.Fatalf("unexpected logged totals %s", body)
	}
	if row.Difference != 3 {
		t.Fatalf("expected difference 3, got %v", row.Difference)
	}

	status, body = env.do(t, http.MethodGet, "/api/summaries/projects?weeks=all", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var all struct {
		Total int64 `json:"total"`
	}
	decode(t, body, &all)
	if all.Total != 2 {
		t.Fatalf("expected 2 weeks, got %s", body)
	}

	status, body = env.do(t, http.MethodGet, "/api/summaries/projects/"+ids.projectID+"/2026-11-02", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var empty projectSummary
	decode(t, body, &empty)
	if empty.TotalPlanned != nil || empty.TotalLogged != nil || empty.Difference != 0 {
		t.Fatalf("expected an empty week, got %s", body)
	}

	status, body = env.do(t, http.MethodGet, "/api/summaries/teams/"+ids.teamID+"/2026-10-19", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var team struct {
		Members []struct {
			Line string `json:"line"`
		} `json:"members"`
		TotalPlanned *float64 `json:"total_planned"`
		Difference   float64  `json:"difference"`
	}
	decode(t, body, &team)
	if len(team.Members) != 1 || team.Members[0].Line != "Lea(Apollo) - 7h" {
		t.Fatalf("unexpected member lines %s", body)
	}
	if team.TotalPlanned == nil || *team.TotalPlanned != 10 || team.Difference != 3 {
		t.Fatalf("unexpected team totals %s", body)
	}

	status, body = env.do(t, http.MethodGet, "/api/summaries/teams/missing/2026-10-19", nil)
	expectError(t, status, body, http.StatusNotFound, "team_not_found", "")
}

func TestSummaryCacheRefreshedAfterWrite(t *testing.T) {
	env := setupApp(t, func(cfg *config.Config) { cfg.Summary.CacheTTL = time.Hour })
	ids := seed(t, env)

	planID := env.create(t, "/api/time-plans", map[string]any{
		"project_id": ids.projectID, "tech_id": ids.techID, "week": "2026-10-19", "time": 10,
	})

	read := func() float64 {
		t.Helper()
		status, body := env.do(t, http.MethodGet, "/api/summaries/projects", nil)
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", status, body)
		}
		var resp struct {
			Items []projectSummary `json:"items"`
		}
		decode(t, body, &resp)
		if len(resp.Items) != 1 || resp.Items[0].TotalPlanned == nil {
			t.Fatalf("expected one planned row, got %s", body)
		}
		return *resp.Items[0].TotalPlanned
	}

	if got := read(); got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}

	status, body := env.do(t, http.MethodPut, "/api/time-plans/"+planID, map[string]any{
		"project_id": ids.projectID, "tech_id": ids.techID, "week": "2026-10-19", "time": 12,
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	if got := read(); got != 12 {
		t.Fatalf("expected refreshed total 12, got %v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupApp(t, nil)

	if status, body := env.do(t, http.MethodGet, "/api/projects", nil); status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if status, body := env.do(t, http.MethodGet, "/api/summaries/projects", nil); status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	status, body := env.do(t, http.MethodGet, "/metrics", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	text := string(body)
	if !strings.Contains(text, `planner_http_requests_total{method="GET",route="/api/projects",status="200"} 1`) {
		t.Fatalf("expected request counter, got:\n%s", text)
	}
	if !strings.Contains(text, `planner_summary_rows_total{kind="projects"} 0`) {
		t.Fatalf("expected summary counter, got:\n%s", text)
	}
}
