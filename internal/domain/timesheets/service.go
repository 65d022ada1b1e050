package timesheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"planner-go/internal/domain/constraint"
	"planner-go/internal/domain/projects"
	"planner-go/internal/domain/teams"
	"planner-go/internal/domain/week"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListPlans(ctx context.Context, filter PlanFilter) ([]PlanDetails, error) {
	filter.From, filter.To = weekRange(filter.From, filter.To)
	return s.repo.ListPlans(ctx, filter)
}

func (s *Service) GetPlan(ctx context.Context, id string) (*PlanDetails, error) {
	return s.repo.GetPlan(ctx, id)
}

func (s *Service) CreatePlan(ctx context.Context, input PlanInput) (*PlanDetails, error) {
	plan, err := newPlan(input)
	if err != nil {
		return nil, err
	}
	plan.ID = uuid.NewString()

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := checkPlanReferences(ctx, tx, plan); err != nil {
			return err
		}
		if err := ensureUnique(tx.CountPlans(ctx, plan.ProjectID, plan.TechID, plan.Week, "")); err != nil {
			return fmt.Errorf("time plan for this project, tech and week: %w", err)
		}
		return tx.CreatePlan(ctx, &plan)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetPlan(ctx, plan.ID)
}

func (s *Service) UpdatePlan(ctx context.Context, id string, input PlanInput) (*PlanDetails, error) {
	plan, err := newPlan(input)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetPlan(ctx, id)
		if err != nil {
			return err
		}
		plan.ID = current.ID
		plan.CreatedAt = current.CreatedAt

		if err := checkPlanReferences(ctx, tx, plan); err != nil {
			return err
		}
		if err := ensureUnique(tx.CountPlans(ctx, plan.ProjectID, plan.TechID, plan.Week, plan.ID)); err != nil {
			return fmt.Errorf("time plan for this project, tech and week: %w", err)
		}
		return tx.UpdatePlan(ctx, &plan)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetPlan(ctx, id)
}

func (s *Service) DeletePlan(ctx context.Context, id string) error {
	deleted, err := s.repo.DeletePlan(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPlanNotFound
	}
	return nil
}

func (s *Service) ListLogs(ctx context.Context, filter LogFilter) ([]LogDetails, error) {
	filter.From, filter.To = weekRange(filter.From, filter.To)
	return s.repo.ListLogs(ctx, filter)
}

func (s *Service) GetLog(ctx context.Context, id string) (*LogDetails, error) {
	return s.repo.GetLog(ctx, id)
}

func (s *Service) CreateLog(ctx context.Context, input LogInput) (*LogDetails, error) {
	entry, err := newLog(input)
	if err != nil {
		return nil, err
	}
	entry.ID = uuid.NewString()

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := checkLogReferences(ctx, tx, entry); err != nil {
			return err
		}
		if err := ensureUnique(tx.CountLogs(ctx, entry.ProjectID, entry.MemberID, entry.Week, "")); err != nil {
			return fmt.Errorf("time log for this project, member and week: %w", err)
		}
		return tx.CreateLog(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetLog(ctx, entry.ID)
}

func (s *Service) UpdateLog(ctx context.Context, id string, input LogInput) (*LogDetails, error) {
	entry, err := newLog(input)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetLog(ctx, id)
		if err != nil {
			return err
		}
		entry.ID = current.ID
		entry.CreatedAt = current.CreatedAt

		if err := checkLogReferences(ctx, tx, entry); err != nil {
			return err
		}
		if err := ensureUnique(tx.CountLogs(ctx, entry.ProjectID, entry.MemberID, entry.Week, entry.ID)); err != nil {
			return fmt.Errorf("time log for this project, member and week: %w", err)
		}
		return tx.UpdateLog(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetLog(ctx, id)
}

func (s *Service) DeleteLog(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteLog(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLogNotFound
	}
	return nil
}

func newPlan(input PlanInput) (TimePlan, error) {
	if err := week.Validate(input.Week); err != nil {
		return TimePlan{}, err
	}
	if err := constraint.Hours("time", input.Time); err != nil {
		return TimePlan{}, err
	}

	return TimePlan{
		ProjectID: strings.TrimSpace(input.ProjectID),
		TechID:    strings.TrimSpace(input.TechID),
		Week:      week.Date(input.Week),
		Time:      input.Time,
	}, nil
}

func newLog(input LogInput) (TimeLog, error) {
	if err := week.Validate(input.Week); err != nil {
		return TimeLog{}, err
	}
	if err := constraint.Hours("time", input.Time); err != nil {
		return TimeLog{}, err
	}

	var fact float64
	if input.Fact != nil {
		fact = *input.Fact
		if err := constraint.Hours("fact", fact); err != nil {
			return TimeLog{}, err
		}
	}

	return TimeLog{
		ProjectID: strings.TrimSpace(input.ProjectID),
		MemberID:  strings.TrimSpace(input.MemberID),
		Week:      week.Date(input.Week),
		Time:      input.Time,
		Fact:      fact,
	}, nil
}

func checkPlanReferences(ctx context.Context, repo Repository, plan TimePlan) error {
	if err := requireExists(ctx, "project_id", plan.ProjectID, repo.ProjectExists, projects.ErrProjectNotFound); err != nil {
		return err
	}
	return requireExists(ctx, "tech_id", plan.TechID, repo.TechExists, teams.ErrTechNotFound)
}

func checkLogReferences(ctx context.Context, repo Repository, entry TimeLog) error {
	if err := requireExists(ctx, "project_id", entry.ProjectID, repo.ProjectExists, projects.ErrProjectNotFound); err != nil {
		return err
	}
	return requireExists(ctx, "member_id", entry.MemberID, repo.MemberExists, teams.ErrMemberNotFound)
}

func requireExists(ctx context.Context, field, id string, exists func(context.Context, string) (bool, error), notFound error) error {
	if id == "" {
		return constraint.Field(field, notFound)
	}
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return constraint.Field(field, notFound)
	}
	return nil
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

// weekRange narrows a filter to whole weeks.
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
