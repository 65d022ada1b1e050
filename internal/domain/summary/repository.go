package summary

import (
	"context"
	"time"
)

type Repository interface {
	// ProjectWeeks lists the project weeks that have plans, newest first.
	ProjectWeeks(ctx context.Context, filter ProjectFilter) ([]ProjectRow, error)
	ProjectInfo(ctx context.Context, projectID string) (*ProjectRow, error)
	PlanTotals(ctx context.Context, projectID string, week time.Time) ([]TechTotal, error)
	ProjectLogTotals(ctx context.Context, projectID string, week time.Time) (Totals, error)

	// TeamWeeks lists the team weeks that have logs, newest first.
	TeamWeeks(ctx context.Context, filter TeamFilter) ([]TeamRow, error)
	TeamInfo(ctx context.Context, teamID string) (*TeamRow, error)
	TeamEntries(ctx context.Context, teamID string, week time.Time) ([]MemberEntry, error)
	TeamLogTotals(ctx context.Context, teamID string, week time.Time) (Totals, error)
	PlannedForTech(ctx context.Context, techID string, week time.Time) (*float64, error)
}
