package projects

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListManagers(ctx context.Context) ([]ManagerWithCount, error)
	GetManager(ctx context.Context, id string) (*Manager, error)
	CountManagersByName(ctx context.Context, fullName, excludeID string) (int64, error)
	CreateManager(ctx context.Context, manager *Manager) error
	UpdateManager(ctx context.Context, manager *Manager) error
	DeleteManager(ctx context.Context, id string) (bool, error)

	ListStates(ctx context.Context) ([]StateWithCount, error)
	GetState(ctx context.Context, id string) (*State, error)
	CountStatesByName(ctx context.Context, name, excludeID string) (int64, error)
	CreateState(ctx context.Context, state *State) error
	UpdateState(ctx context.Context, state *State) error
	DeleteState(ctx context.Context, id string) (bool, error)

	ListProjects(ctx context.Context, filter ListFilter) ([]ProjectDetails, error)
	GetProject(ctx context.Context, id string) (*ProjectDetails, error)
	CountProjectsByName(ctx context.Context, name, excludeID string) (int64, error)
	CountProjectsByManager(ctx context.Context, managerID string) (int64, error)
	CountProjectsByState(ctx context.Context, stateID string) (int64, error)
	CreateProject(ctx context.Context, project *Project) error
	UpdateProject(ctx context.Context, project *Project) error
	DeleteProject(ctx context.Context, id string) (bool, error)
}
