package summary

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"planner-go/internal/domain/week"
)

type Options struct {
	Cache    Cache
	CacheTTL time.Duration
	Observer Observer
}

// Service computes weekly summaries on read. Nothing it returns is stored.
type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	observer Observer
}

func NewService(repo Repository) *Service {
	return NewServiceWithOptions(repo, Options{})
}

func NewServiceWithOptions(repo Repository, opts Options) *Service {
	if opts.Cache == nil || opts.CacheTTL <= 0 {
		opts.Cache = noopCache{}
		opts.CacheTTL = 0
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}

	return &Service{
		repo:     repo,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		observer: opts.Observer,
	}
}

// Invalidate drops cached listings after the underlying data changed.
func (s *Service) Invalidate() {
	s.cache.Purge()
}

// ListProjects returns one summary per project week. Unless AllWeeks is set
// only the latest week of each project is included.
func (s *Service) ListProjects(ctx context.Context, filter ProjectFilter) ([]ProjectSummary, error) {
	filter.From, filter.To = weekRange(filter.From, filter.To)
	filter.State = strings.TrimSpace(filter.State)
	filter.Manager = strings.TrimSpace(filter.Manager)
	filter.Project = strings.TrimSpace(filter.Project)

	key := projectsKey(filter)
	if rows, ok := s.cache.GetProjects(key); ok {
		return rows, nil
	}
	generation := s.cache.Generation()

	rows, err := s.repo.ProjectWeeks(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]ProjectSummary, 0, len(rows))
	for _, row := range rows {
		summary, err := s.projectSummary(ctx, row)
		if err != nil {
			return nil, err
		}
		result = append(result, summary)
	}

	s.observer.SummariesComputed(KindProjects, len(result))
	s.cache.SetProjects(key, result, s.cacheTTL, generation)
	return result, nil
}

// ProjectSummary computes the row for one project and week, even when the
// week has no plans.
func (s *Service) ProjectSummary(ctx context.Context, projectID string, monday time.Time) (*ProjectSummary, error) {
	if err := week.Validate(monday); err != nil {
		return nil, err
	}

	row, err := s.repo.ProjectInfo(ctx, projectID)
	if err != nil {
		return nil, err
	}
	row.Week = week.Date(monday)

	summary, err := s.projectSummary(ctx, *row)
	if err != nil {
		return nil, err
	}
	s.observer.SummariesComputed(KindProjects, 1)
	return &summary, nil
}

func (s *Service) ListTeams(ctx context.Context, filter TeamFilter) ([]TeamSummary, error) {
	filter.From, filter.To = weekRange(filter.From, filter.To)
	filter.Team = strings.TrimSpace(filter.Team)

	key := teamsKey(filter)
	if rows, ok := s.cache.GetTeams(key); ok {
		return rows, nil
	}
	generation := s.cache.Generation()

	rows, err := s.repo.TeamWeeks(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]TeamSummary, 0, len(rows))
	for _, row := range rows {
		summary, err := s.teamSummary(ctx, row)
		if err != nil {
			return nil, err
		}
		result = append(result, summary)
	}

	s.observer.SummariesComputed(KindTeams, len(result))
	s.cache.SetTeams(key, result, s.cacheTTL, generation)
	return result, nil
}

func (s *Service) TeamSummary(ctx context.Context, teamID string, monday time.Time) (*TeamSummary, error) {
	if err := week.Validate(monday); err != nil {
		return nil, err
	}

	row, err := s.repo.TeamInfo(ctx, teamID)
	if err != nil {
		return nil, err
	}
	row.Week = week.Date(monday)

	summary, err := s.teamSummary(ctx, *row)
	if err != nil {
		return nil, err
	}
	s.observer.SummariesComputed(KindTeams, 1)
	return &summary, nil
}

func (s *Service) projectSummary(ctx context.Context, row ProjectRow) (ProjectSummary, error) {
	techs, err := s.repo.PlanTotals(ctx, row.ProjectID, row.Week)
	if err != nil {
		return ProjectSummary{}, err
	}
	logged, err := s.repo.ProjectLogTotals(ctx, row.ProjectID, row.Week)
	if err != nil {
		return ProjectSummary{}, err
	}

	summary := ProjectSummary{
		ProjectID:   row.ProjectID,
		ProjectName: row.ProjectName,
		ManagerName: row.ManagerName,
		StateName:   row.StateName,
		Week:        row.Week,
		TotalLogged: logged.Time,
		TotalFact:   logged.Fact,
	}

	for _, tech := range techs {
		summary.TotalPlanned = addHours(summary.TotalPlanned, tech.Hours)
		switch tech.TechName {
		case TechBackEnd:
			summary.BackEnd = addHours(summary.BackEnd, tech.Hours)
		case TechFrontEnd:
			summary.FrontEnd = addHours(summary.FrontEnd, tech.Hours)
		case TechMobile:
			summary.Mobile = addHours(summary.Mobile, tech.Hours)
		case TechAnalysis:
			summary.Analysis = addHours(summary.Analysis, tech.Hours)
		}
	}

	summary.Difference = OrZero(summary.TotalPlanned) - OrZero(summary.TotalLogged)
	return summary, nil
}

func (s *Service) teamSummary(ctx context.Context, row TeamRow) (TeamSummary, error) {
	entries, err := s.repo.TeamEntries(ctx, row.TeamID, row.Week)
	if err != nil {
		return TeamSummary{}, err
	}
	logged, err := s.repo.TeamLogTotals(ctx, row.TeamID, row.Week)
	if err != nil {
		return TeamSummary{}, err
	}
	planned, err := s.repo.PlannedForTech(ctx, row.TechID, row.Week)
	if err != nil {
		return TeamSummary{}, err
	}

	if entries == nil {
		entries = []MemberEntry{}
	}

	return TeamSummary{
		TeamID:       row.TeamID,
		TeamName:     row.TeamName,
		TechName:     row.TechName,
		Week:         row.Week,
		Members:      entries,
		Projects:     distinctProjects(entries),
		TotalPlanned: planned,
		TotalLogged:  logged.Time,
		TotalFact:    logged.Fact,
		Difference:   OrZero(planned) - OrZero(logged.Time),
		SharedTech:   row.TechTeams > 1,
	}, nil
}

// distinctProjects returns each logged project once, ordered by name.
func distinctProjects(entries []MemberEntry) []ProjectRef {
	seen := make(map[string]bool, len(entries))
	projects := make([]ProjectRef, 0, len(entries))
	for _, entry := range entries {
		if seen[entry.ProjectID] {
			continue
		}
		seen[entry.ProjectID] = true
		projects = append(projects, ProjectRef{ID: entry.ProjectID, Name: entry.ProjectName})
	}

	sort.Slice(projects, func(i, j int) bool {
		if projects[i].Name != projects[j].Name {
			return projects[i].Name < projects[j].Name
		}
		return projects[i].ID < projects[j].ID
	})
	return projects
}

func addHours(total *float64, hours float64) *float64 {
	sum := hours
	if total != nil {
		sum += *total
	}
	return &sum
}

func weekRange(from, to *time.Time) (*time.Time, *time.Time) {
	if from != nil {
		start := week.Start(*from)
		from = &start
	}
	if to != nil {
		end := week.Date(*to)
		to = &end
	}
	return from, to
}

func projectsKey(filter ProjectFilter) string {
	return strings.Join([]string{
		formatOptional(filter.From),
		formatOptional(filter.To),
		filter.State,
		filter.Manager,
		filter.Project,
		strconv.FormatBool(filter.AllWeeks),
	}, "|")
}

func teamsKey(filter TeamFilter) string {
	return strings.Join([]string{
		formatOptional(filter.From),
		formatOptional(filter.To),
		filter.Team,
		strconv.FormatBool(filter.AllWeeks),
	}, "|")
}

func formatOptional(value *time.Time) string {
	if value == nil {
		return ""
	}
	return week.Format(*value)
}
