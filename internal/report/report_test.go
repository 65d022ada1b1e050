package report

import (
	"strings"
	"testing"
	"time"

	"planner-go/internal/domain/summary"
	"planner-go/internal/domain/week"
)

func hours(value float64) *float64 {
	return &value
}

func TestProjectsPrintsMissingSums(t *testing.T) {
	out := Projects([]summary.ProjectSummary{{
		ProjectName:  "Apollo",
		ManagerName:  "Ann Smith",
		StateName:    "Active",
		Week:         time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
		BackEnd:      hours(10),
		FrontEnd:     hours(5),
		TotalPlanned: hours(15),
		Difference:   15,
	}})

	for _, want := range []string{"Apollo", "Ann Smith", "2026-10-19", "10", "15", Missing} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestTeamsListsMembersAndSharedTech(t *testing.T) {
	out := Teams([]summary.TeamSummary{{
		TeamName: "Core",
		TechName: summary.TechBackEnd,
		Week:     time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
		Members: []summary.MemberEntry{
			{MemberName: "Ken", ProjectName: "Apollo", Hours: 7.5},
		},
		Projects:     []summary.ProjectRef{{ID: "p1", Name: "Apollo"}},
		TotalPlanned: hours(25),
		TotalLogged:  hours(7.5),
		Difference:   17.5,
		SharedTech:   true,
	}})

	for _, want := range []string{"Ken(Apollo) - 7.5h", "Back-end (shared)", "17.5"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWeeksUsesLabels(t *testing.T) {
	now := time.Date(2026, time.October, 21, 12, 0, 0, 0, time.UTC)
	out := Weeks(week.Choices(now, time.UTC))

	if !strings.Contains(out, "2026-10-19  #42 (this)") {
		t.Fatalf("expected current week label, got:\n%s", out)
	}
}
