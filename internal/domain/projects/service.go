package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"planner-go/internal/domain/constraint"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListManagers(ctx context.Context) ([]ManagerWithCount, error) {
	return s.repo.ListManagers(ctx)
}

func (s *Service) CreateManager(ctx context.Context, fullName string) (*Manager, error) {
	fullName, err := constraint.Name("fullname", fullName)
	if err != nil {
		return nil, err
	}

	manager := Manager{ID: uuid.NewString(), FullName: fullName}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := ensureUnique(tx.CountManagersByName(ctx, fullName, "")); err != nil {
			return constraint.Field("fullname", err)
		}
		return tx.CreateManager(ctx, &manager)
	})
	if err != nil {
		return nil, err
	}

	return &manager, nil
}

func (s *Service) UpdateManager(ctx context.Context, id, fullName string) (*Manager, error) {
	fullName, err := constraint.Name("fullname", fullName)
	if err != nil {
		return nil, err
	}

	var updated Manager
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		manager, err := tx.GetManager(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureUnique(tx.CountManagersByName(ctx, fullName, id)); err != nil {
			return constraint.Field("fullname", err)
		}

		manager.FullName = fullName
		if err := tx.UpdateManager(ctx, manager); err != nil {
			return err
		}
		updated = *manager
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteManager refuses to remove a manager that still owns projects.
func (s *Service) DeleteManager(ctx context.Context, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetManager(ctx, id); err != nil {
			return err
		}
		count, err := tx.CountProjectsByManager(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("manager has %d projects: %w", count, constraint.ErrReferenceInUse)
		}

		deleted, err := tx.DeleteManager(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrManagerNotFound
		}
		return nil
	})
}

func (s *Service) ListStates(ctx context.Context) ([]StateWithCount, error) {
	return s.repo.ListStates(ctx)
}

func (s *Service) CreateState(ctx context.Context, name string) (*State, error) {
	name, err := constraint.Name("name", name)
	if err != nil {
		return nil, err
	}

	state := State{ID: uuid.NewString(), Name: name}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := ensureUnique(tx.CountStatesByName(ctx, name, "")); err != nil {
			return constraint.Field("name", err)
		}
		return tx.CreateState(ctx, &state)
	})
	if err != nil {
		return nil, err
	}

	return &state, nil
}

func (s *Service) UpdateState(ctx context.Context, id, name string) (*State, error) {
	name, err := constraint.Name("name", name)
	if err != nil {
		return nil, err
	}

	var updated State
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		state, err := tx.GetState(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureUnique(tx.CountStatesByName(ctx, name, id)); err != nil {
			return constraint.Field("name", err)
		}

		state.Name = name
		if err := tx.UpdateState(ctx, state); err != nil {
			return err
		}
		updated = *state
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) DeleteState(ctx context.Context, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetState(ctx, id); err != nil {
			return err
		}
		count, err := tx.CountProjectsByState(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("state has %d projects: %w", count, constraint.ErrReferenceInUse)
		}

		deleted, err := tx.DeleteState(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrStateNotFound
		}
		return nil
	})
}

func (s *Service) ListProjects(ctx context.Context, filter ListFilter) ([]ProjectDetails, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.ListProjects(ctx, filter)
}

func (s *Service) GetProject(ctx context.Context, id string) (*ProjectDetails, error) {
	return s.repo.GetProject(ctx, id)
}

func (s *Service) CreateProject(ctx context.Context, input CreateProjectInput) (*ProjectDetails, error) {
	name, err := constraint.Name("name", input.Name)
	if err != nil {
		return nil, err
	}

	project := Project{
		ID:        uuid.NewString(),
		Name:      name,
		StateID:   strings.TrimSpace(input.StateID),
		ManagerID: strings.TrimSpace(input.ManagerID),
	}

	var result ProjectDetails
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		state, manager, err := loadReferences(ctx, tx, project.StateID, project.ManagerID)
		if err != nil {
			return err
		}
		if err := ensureUnique(tx.CountProjectsByName(ctx, name, "")); err != nil {
			return constraint.Field("name", err)
		}
		if err := tx.CreateProject(ctx, &project); err != nil {
			return err
		}

		result = ProjectDetails{Project: project, StateName: state.Name, ManagerName: manager.FullName}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) UpdateProject(ctx context.Context, input UpdateProjectInput) (*ProjectDetails, error) {
	name, err := constraint.Name("name", input.Name)
	if err != nil {
		return nil, err
	}

	var result ProjectDetails
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetProject(ctx, input.ID)
		if err != nil {
			return err
		}

		project := current.Project
		project.Name = name
		project.StateID = strings.TrimSpace(input.StateID)
		project.ManagerID = strings.TrimSpace(input.ManagerID)

		state, manager, err := loadReferences(ctx, tx, project.StateID, project.ManagerID)
		if err != nil {
			return err
		}
		if err := ensureUnique(tx.CountProjectsByName(ctx, name, project.ID)); err != nil {
			return constraint.Field("name", err)
		}
		if err := tx.UpdateProject(ctx, &project); err != nil {
			return err
		}

		result = ProjectDetails{Project: project, StateName: state.Name, ManagerName: manager.FullName}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteProject removes the project together with its plans and logs.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteProject(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProjectNotFound
	}
	return nil
}

func loadReferences(ctx context.Context, repo Repository, stateID, managerID string) (*State, *Manager, error) {
	if stateID == "" {
		return nil, nil, constraint.Field("state_id", ErrStateNotFound)
	}
	if managerID == "" {
		return nil, nil, constraint.Field("manager_id", ErrManagerNotFound)
	}

	state, err := repo.GetState(ctx, stateID)
	if err != nil {
		return nil, nil, constraint.Field("state_id", err)
	}
	manager, err := repo.GetManager(ctx, managerID)
	if err != nil {
		return nil, nil, constraint.Field("manager_id", err)
	}
	return state, manager, nil
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
