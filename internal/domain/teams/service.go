package teams

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"planner-go/internal/domain/constraint"
	"planner-go/internal/domain/week"
)

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService builds the team catalog service. loc decides which Monday is
// the current week for member totals.
func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

func (s *Service) ListTechs(ctx context.Context) ([]TechWithCount, error) {
	return s.repo.ListTechs(ctx)
}

func (s *Service) CreateTech(ctx context.Context, name string) (*Tech, error) {
	name, err := constraint.Name("name", name)
	if err != nil {
		return nil, err
	}

	tech := Tech{ID: uuid.NewString(), Name: name}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := ensureUnique(tx.CountTechsByName(ctx, name, "")); err != nil {
			return constraint.Field("name", err)
		}
		return tx.CreateTech(ctx, &tech)
	})
	if err != nil {
		return nil, err
	}

	return &tech, nil
}

func (s *Service) UpdateTech(ctx context.Context, id, name string) (*Tech, error) {
	name, err := constraint.Name("name", name)
	if err != nil {
		return nil, err
	}

	var updated Tech
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		tech, err := tx.GetTech(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureUnique(tx.CountTechsByName(ctx, name, id)); err != nil {
			return constraint.Field("name", err)
		}

		tech.Name = name
		if err := tx.UpdateTech(ctx, tech); err != nil {
			return err
		}
		updated = *tech
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteTech refuses while any team or time plan points at the tech.
func (s *Service) DeleteTech(ctx context.Context, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetTech(ctx, id); err != nil {
			return err
		}

		teams, err := tx.CountTeamsByTech(ctx, id)
		if err != nil {
			return err
		}
		if teams > 0 {
			return fmt.Errorf("tech has %d teams: %w", teams, constraint.ErrReferenceInUse)
		}

		plans, err := tx.CountPlansByTech(ctx, id)
		if err != nil {
			return err
		}
		if plans > 0 {
			return fmt.Errorf("tech has %d time plans: %w", plans, constraint.ErrReferenceInUse)
		}

		deleted, err := tx.DeleteTech(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrTechNotFound
		}
		return nil
	})
}

func (s *Service) ListTeams(ctx context.Context, filter TeamFilter) ([]TeamDetails, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.ListTeams(ctx, filter)
}

// GetTeam returns the team with its members and their current-week totals.
func (s *Service) GetTeam(ctx context.Context, id string) (*TeamWithMembers, error) {
	team, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.ListMembers(ctx, MemberFilter{TeamID: id})
	if err != nil {
		return nil, err
	}

	return &TeamWithMembers{TeamDetails: *team, MemberList: members}, nil
}

func (s *Service) CreateTeam(ctx context.Context, name, techID string) (*TeamDetails, error) {
	name, err := constraint.Name("name", name)
	if err != nil {
		return nil, err
	}

	team := Team{ID: uuid.NewString(), Name: name, TechID: strings.TrimSpace(techID)}
	var result TeamDetails
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		tech, err := loadTech(ctx, tx, team.TechID)
		if err != nil {
			return err
		}
		if err := ensureUnique(tx.CountTeamsByName(ctx, name, "")); err != nil {
			return constraint.Field("name", err)
		}
		if err := tx.CreateTeam(ctx, &team); err != nil {
			return err
		}

		result = TeamDetails{Team: team, TechName: tech.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) UpdateTeam(ctx context.Context, id, name, techID string) (*TeamDetails, error) {
	name, err := constraint.Name("name", name)
	if err != nil {
		return nil, err
	}

	var result TeamDetails
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetTeam(ctx, id)
		if err != nil {
			return err
		}

		team := current.Team
		team.Name = name
		team.TechID = strings.TrimSpace(techID)

		tech, err := loadTech(ctx, tx, team.TechID)
		if err != nil {
			return err
		}
		if err := ensureUnique(tx.CountTeamsByName(ctx, name, id)); err != nil {
			return constraint.Field("name", err)
		}
		if err := tx.UpdateTeam(ctx, &team); err != nil {
			return err
		}

		result = TeamDetails{Team: team, TechName: tech.Name, Members: current.Members}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteTeam removes the team, its members and their time logs.
func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteTeam(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTeamNotFound
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, filter MemberFilter) ([]MemberDetails, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	members, err := s.repo.ListMembers(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []MemberDetails{}, nil
	}

	if err := s.attachCurrentWeek(ctx, members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Service) GetMember(ctx context.Context, id string) (*MemberDetails, error) {
	member, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	members := []MemberDetails{*member}
	if err := s.attachCurrentWeek(ctx, members); err != nil {
		return nil, err
	}
	return &members[0], nil
}

func (s *Service) CreateMember(ctx context.Context, fullName, teamID string) (*MemberDetails, error) {
	fullName, err := constraint.Name("fullname", fullName)
	if err != nil {
		return nil, err
	}

	member := Member{ID: uuid.NewString(), FullName: fullName, TeamID: strings.TrimSpace(teamID)}
	var result MemberDetails
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		team, err := loadTeam(ctx, tx, member.TeamID)
		if err != nil {
			return err
		}
		if err := ensureUnique(tx.CountMembersByName(ctx, fullName, "")); err != nil {
			return constraint.Field("fullname", err)
		}
		if err := tx.CreateMember(ctx, &member); err != nil {
			return err
		}

		result = MemberDetails{Member: member, TeamName: team.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) UpdateMember(ctx context.Context, id, fullName, teamID string) (*MemberDetails, error) {
	fullName, err := constraint.Name("fullname", fullName)
	if err != nil {
		return nil, err
	}

	var result MemberDetails
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetMember(ctx, id)
		if err != nil {
			return err
		}

		member := current.Member
		member.FullName = fullName
		member.TeamID = strings.TrimSpace(teamID)

		team, err := loadTeam(ctx, tx, member.TeamID)
		if err != nil {
			return err
		}
		if err := ensureUnique(tx.CountMembersByName(ctx, fullName, id)); err != nil {
			return constraint.Field("fullname", err)
		}
		if err := tx.UpdateMember(ctx, &member); err != nil {
			return err
		}

		result = MemberDetails{Member: member, TeamName: team.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetMember(ctx, result.ID)
}

// DeleteMember removes the member together with their time logs.
func (s *Service) DeleteMember(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteMember(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	return nil
}

// CurrentWeek is the Monday that member totals are computed for.
func (s *Service) CurrentWeek() time.Time {
	return week.Current(s.now(), s.loc)
}

func (s *Service) attachCurrentWeek(ctx context.Context, members []MemberDetails) error {
	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.ID)
	}

	logged, err := s.repo.LoggedForWeek(ctx, ids, s.CurrentWeek())
	if err != nil {
		return err
	}

	for i := range members {
		if hours, ok := logged[members[i].ID]; ok {
			value := hours
			members[i].CurrentWeekLogged = &value
		}
	}
	return nil
}

func loadTech(ctx context.Context, repo Repository, id string) (*Tech, error) {
	if id == "" {
		return nil, constraint.Field("tech_id", ErrTechNotFound)
	}
	tech, err := repo.GetTech(ctx, id)
	if err != nil {
		return nil, constraint.Field("tech_id", err)
	}
	return tech, nil
}

func loadTeam(ctx context.Context, repo Repository, id string) (*TeamDetails, error) {
	if id == "" {
		return nil, constraint.Field("team_id", ErrTeamNotFound)
	}
	team, err := repo.GetTeam(ctx, id)
	if err != nil {
		return nil, constraint.Field("team_id", err)
	}
	return team, nil
}

func ensureUnique(count int64, err error) error {
	if err != nil {
		return err
	}
	if count > 0 {
		return constraint.ErrDuplicateEntry
	}
	return nil
}
