package teams

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListTechs(ctx context.Context) ([]TechWithCount, error)
	GetTech(ctx context.Context, id string) (*Tech, error)
	CountTechsByName(ctx context.Context, name, excludeID string) (int64, error)
	CountTeamsByTech(ctx context.Context, techID string) (int64, error)
	CountPlansByTech(ctx context.Context, techID string) (int64, error)
	CreateTech(ctx context.Context, tech *Tech) error
	UpdateTech(ctx context.Context, tech *Tech) error
	DeleteTech(ctx context.Context, id string) (bool, error)

	ListTeams(ctx context.Context, filter TeamFilter) ([]TeamDetails, error)
	GetTeam(ctx context.Context, id string) (*TeamDetails, error)
	CountTeamsByName(ctx context.Context, name, excludeID string) (int64, error)
	CreateTeam(ctx context.Context, team *Team) error
	UpdateTeam(ctx context.Context, team *Team) error
	DeleteTeam(ctx context.Context, id string) (bool, error)

	ListMembers(ctx context.Context, filter MemberFilter) ([]MemberDetails, error)
	GetMember(ctx context.Context, id string) (*MemberDetails, error)
	CountMembersByName(ctx context.Context, fullName, excludeID string) (int64, error)
	CreateMember(ctx context.Context, member *Member) error
	UpdateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, id string) (bool, error)

	// LoggedForWeek sums logged hours per member for one week. Members with
	// no logs are absent from the result.
	LoggedForWeek(ctx context.Context, memberIDs []string, week time.Time) (map[string]float64, error)
}
