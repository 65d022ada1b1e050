//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"planner-go/internal/app"
	"planner-go/internal/config"
	"planner-go/internal/db"
	"planner-go/internal/metrics"
	"planner-go/pkg/logger"
)

const adminToken = "e2e-token"

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	cfg := config.Default()
	cfg.DB.DSN = dsn
	cfg.HTTP.AdminToken = adminToken
	cfg.Summary.CacheTTL = time.Minute

	log := logger.Discard()
	dbConn, err := app.Open(cfg, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	m := metrics.New()
	services, err := app.NewServices(dbConn, cfg, m)
	if err != nil {
		t.Fatalf("services: %v", err)
	}

	server := httptest.NewServer(app.NewHandler(cfg, services, m, log, true))
	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	_ = db.Close(e.db)
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE time_logs, time_plans, team_members, teams, techs, projects, project_states, project_managers CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func createID(t *testing.T, client *http.Client, url string, payload interface{}) string {
	t.Helper()

	resp, body := requestJSON(t, client, http.MethodPost, url, adminToken, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 from %s, got %d: %s", url, resp.StatusCode, string(body))
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	return created.ID
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

type projectSummaryResponse struct {
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

type teamSummaryResponse struct {
	Team    string `json:"team"`
	Week    string `json:"week"`
	Members []struct {
		Line string `json:"line"`
	} `json:"members"`
	TotalPlanned *float64 `json:"total_planned"`
	TotalLogged  *float64 `json:"total_logged"`
	Difference   float64  `json:"difference"`
	SharedTech   bool     `json:"shared_tech"`
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/projects", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", errResp.Error.Code)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/projects", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EProjectSummaryFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	managerID := createID(t, client, base+"/project-managers", map[string]string{"fullname": "Anna Smith"})
	stateID := createID(t, client, base+"/project-states", map[string]string{"name": "Active"})
	projectID := createID(t, client, base+"/projects", map[string]string{
		"name": "Apollo", "state_id": stateID, "manager_id": managerID,
	})
	backEnd := createID(t, client, base+"/techs", map[string]string{"name": "Back-end"})
	frontEnd := createID(t, client, base+"/techs", map[string]string{"name": "Front-end"})
	teamBE := createID(t, client, base+"/teams", map[string]string{"name": "Borealis", "tech_id": backEnd})
	teamFE := createID(t, client, base+"/teams", map[string]string{"name": "Cirrus", "tech_id": frontEnd})
	lea := createID(t, client, base+"/team-members", map[string]string{"fullname": "Lea", "team_id": teamBE})
	ken := createID(t, client, base+"/team-members", map[string]string{"fullname": "Ken", "team_id": teamFE})

	for _, plan := range []map[string]interface{}{
		{"project_id": projectID, "tech_id": backEnd, "week": "2026-10-19", "time": 10},
		{"project_id": projectID, "tech_id": frontEnd, "week": "2026-10-19", "time": 5},
	} {
		createID(t, client, base+"/time-plans", plan)
	}
	for _, entry := range []map[string]interface{}{
		{"project_id": projectID, "member_id": lea, "week": "2026-10-19", "time": 8, "fact": 8},
		{"project_id": projectID, "member_id": ken, "week": "2026-10-19", "time": 7},
	} {
		createID(t, client, base+"/time-logs", entry)
	}

	resp, body := requestJSON(t, client, http.MethodGet, base+"/summaries/projects", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var projects struct {
		Items []projectSummaryResponse `json:"items"`
	}
	if err := json.Unmarshal(body, &projects); err != nil {
		t.Fatalf("decode summaries: %v", err)
	}
	if len(projects.Items) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(projects.Items))
	}
	row := projects.Items[0]
	if row.BackEnd == nil || *row.BackEnd != 10 || row.FrontEnd == nil || *row.FrontEnd != 5 {
		t.Fatalf("unexpected tech columns: %s", string(body))
	}
	if row.Mobile != nil || row.Analysis != nil {
		t.Fatalf("expected empty mobile and analysis: %s", string(body))
	}
	if row.TotalPlanned == nil || *row.TotalPlanned != 15 {
		t.Fatalf("expected planned 15: %s", string(body))
	}
	if row.TotalLogged == nil || *row.TotalLogged != 15 || row.TotalFact == nil || *row.TotalFact != 8 {
		t.Fatalf("expected logged 15 and fact 8: %s", string(body))
	}
	if row.Difference != 0 {
		t.Fatalf("expected difference 0, got %v", row.Difference)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/summaries/teams/"+teamBE+"/2026-10-19", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var team teamSummaryResponse
	if err := json.Unmarshal(body, &team); err != nil {
		t.Fatalf("decode team summary: %v", err)
	}
	if len(team.Members) != 1 || team.Members[0].Line != "Lea(Apollo) - 8h" {
		t.Fatalf("unexpected member lines: %s", string(body))
	}
	if team.TotalPlanned == nil || *team.TotalPlanned != 10 || team.Difference != 2 {
		t.Fatalf("unexpected team totals: %s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, base+"/projects/"+projectID, adminToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/summaries/projects", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if !strings.Contains(string(body), `"total":0`) {
		t.Fatalf("expected cascade to clear summaries, got %s", string(body))
	}
}

func TestE2EConstraintErrors(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	managerID := createID(t, client, base+"/project-managers", map[string]string{"fullname": "Anna Smith"})
	stateID := createID(t, client, base+"/project-states", map[string]string{"name": "Active"})
	projectID := createID(t, client, base+"/projects", map[string]string{
		"name": "Apollo", "state_id": stateID, "manager_id": managerID,
	})
	techID := createID(t, client, base+"/techs", map[string]string{"name": "Mobile"})
	createID(t, client, base+"/time-plans", map[string]interface{}{
		"project_id": projectID, "tech_id": techID, "week": "2026-10-19", "time": 3,
	})

	cases := []struct {
		name   string
		method string
		url    string
		body   interface{}
		status int
		code   string
	}{
		{"duplicate plan", http.MethodPost, base + "/time-plans", map[string]interface{}{
			"project_id": projectID, "tech_id": techID, "week": "2026-10-19", "time": 1,
		}, http.StatusConflict, "duplicate_entry"},
		{"tuesday", http.MethodPost, base + "/time-plans", map[string]interface{}{
			"project_id": projectID, "tech_id": techID, "week": "2026-10-20", "time": 1,
		}, http.StatusBadRequest, "invalid_weekday"},
		{"negative", http.MethodPost, base + "/time-plans", map[string]interface{}{
			"project_id": projectID, "tech_id": techID, "week": "2026-10-26", "time": -2,
		}, http.StatusBadRequest, "negative_value"},
		{"tech in use", http.MethodDelete, base + "/techs/" + techID, nil, http.StatusConflict, "reference_in_use"},
		{"state in use", http.MethodDelete, base + "/project-states/" + stateID, nil, http.StatusConflict, "reference_in_use"},
		{"malformed project id", http.MethodGet, base + "/projects/abc", nil, http.StatusNotFound, "project_not_found"},
		{"malformed reference", http.MethodPost, base + "/time-plans", map[string]interface{}{
			"project_id": "abc", "tech_id": techID, "week": "2026-10-26", "time": 1,
		}, http.StatusBadRequest, "invalid_reference"},
		{"malformed team summary", http.MethodGet, base + "/summaries/teams/abc/2026-10-19", nil, http.StatusNotFound, "team_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := requestJSON(t, client, tc.method, tc.url, adminToken, tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, resp.StatusCode, string(body))
			}
			var errResp errorEnvelope
			if err := json.Unmarshal(body, &errResp); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if errResp.Error.Code != tc.code {
				t.Fatalf("expected %s, got %q", tc.code, errResp.Error.Code)
			}
		})
	}
}
