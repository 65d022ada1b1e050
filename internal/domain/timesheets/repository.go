package timesheets

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListPlans(ctx context.Context, filter PlanFilter) ([]PlanDetails, error)
	GetPlan(ctx context.Context, id string) (*PlanDetails, error)
	CountPlans(ctx context.Context, projectID, techID string, week time.Time, excludeID string) (int64, error)
	CreatePlan(ctx context.Context, plan *TimePlan) error
	UpdatePlan(ctx context.Context, plan *TimePlan) error
	DeletePlan(ctx context.Context, id string) (bool, error)

	ListLogs(ctx context.Context, filter LogFilter) ([]LogDetails, error)
	GetLog(ctx context.Context, id string) (*LogDetails, error)
	CountLogs(ctx context.Context, projectID, memberID string, week time.Time, excludeID string) (int64, error)
	CreateLog(ctx context.Context, log *TimeLog) error
	UpdateLog(ctx context.Context, log *TimeLog) error
	DeleteLog(ctx context.Context, id string) (bool, error)

	ProjectExists(ctx context.Context, id string) (bool, error)
	TechExists(ctx context.Context, id string) (bool, error)
	MemberExists(ctx context.Context, id string) (bool, error)
}
