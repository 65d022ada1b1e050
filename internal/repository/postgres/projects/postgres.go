// Package projects stores managers, states and projects. Queries stay within
// the SQL shared by PostgreSQL and SQLite.
package projects

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"planner-go/internal/db"
	projectsdomain "planner-go/internal/domain/projects"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(projectsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListManagers(ctx context.Context) ([]projectsdomain.ManagerWithCount, error) {
	var items []projectsdomain.ManagerWithCount
	if err := r.db.WithContext(ctx).
		Table("project_managers pm").
		Select("pm.id, pm.fullname, pm.created_at, pm.updated_at, COUNT(p.id) AS projects").
		Joins("LEFT JOIN projects p ON p.manager_id = pm.id").
		Group("pm.id, pm.fullname, pm.created_at, pm.updated_at").
		Order("pm.fullname asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetManager(ctx context.Context, id string) (*projectsdomain.Manager, error) {
	if !db.ValidID(id) {
		return nil, projectsdomain.ErrManagerNotFound
	}
	var manager projectsdomain.Manager
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&manager).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectsdomain.ErrManagerNotFound
		}
		return nil, err
	}
	return &manager, nil
}

func (r *PostgresRepository) CountManagersByName(ctx context.Context, fullName, excludeID string) (int64, error) {
	return r.countByColumn(ctx, &projectsdomain.Manager{}, "fullname", fullName, excludeID)
}

func (r *PostgresRepository) CreateManager(ctx context.Context, manager *projectsdomain.Manager) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(manager).Error)
}

func (r *PostgresRepository) UpdateManager(ctx context.Context, manager *projectsdomain.Manager) error {
	return db.TranslateError(r.db.WithContext(ctx).Save(manager).Error)
}

func (r *PostgresRepository) DeleteManager(ctx context.Context, id string) (bool, error) {
	if !db.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&projectsdomain.Manager{}, "id = ?", id)
	return result.RowsAffected > 0, db.TranslateError(result.Error)
}

func (r *PostgresRepository) ListStates(ctx context.Context) ([]projectsdomain.StateWithCount, error) {
	var items []projectsdomain.StateWithCount
	if err := r.db.WithContext(ctx).
		Table("project_states ps").
		Select("ps.id, ps.name, ps.created_at, ps.updated_at, COUNT(p.id) AS projects").
		Joins("LEFT JOIN projects p ON p.state_id = ps.id").
		Group("ps.id, ps.name, ps.created_at, ps.updated_at").
		Order("ps.name asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetState(ctx context.Context, id string) (*projectsdomain.State, error) {
	if !db.ValidID(id) {
		return nil, projectsdomain.ErrStateNotFound
	}
	var state projectsdomain.State
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, projectsdomain.ErrStateNotFound
		}
		return nil, err
	}
	return &state, nil
}

func (r *PostgresRepository) CountStatesByName(ctx context.Context, name, excludeID string) (int64, error) {
	return r.countByColumn(ctx, &projectsdomain.State{}, "name", name, excludeID)
}

func (r *PostgresRepository) CreateState(ctx context.Context, state *projectsdomain.State) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(state).Error)
}

func (r *PostgresRepository) UpdateState(ctx context.Context, state *projectsdomain.State) error {
	return db.TranslateError(r.db.WithContext(ctx).Save(state).Error)
}

func (r *PostgresRepository) DeleteState(ctx context.Context, id string) (bool, error) {
	if !db.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&projectsdomain.State{}, "id = ?", id)
	return result.RowsAffected > 0, db.TranslateError(result.Error)
}

func (r *PostgresRepository) ListProjects(ctx context.Context, filter projectsdomain.ListFilter) ([]projectsdomain.ProjectDetails, error) {
	if !db.ValidFilter(filter.StateID, filter.ManagerID) {
		return nil, nil
	}
	query := r.projectsQuery(ctx)
	if filter.StateID != "" {
		query = query.Where("p.state_id = ?", filter.StateID)
	}
	if filter.ManagerID != "" {
		query = query.Where("p.manager_id = ?", filter.ManagerID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(p.name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var items []projectsdomain.ProjectDetails
	if err := query.Order("p.name asc").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetProject(ctx context.Context, id string) (*projectsdomain.ProjectDetails, error) {
	if !db.ValidID(id) {
		return nil, projectsdomain.ErrProjectNotFound
	}
	var items []projectsdomain.ProjectDetails
	if err := r.projectsQuery(ctx).Where("p.id = ?", id).Limit(1).Scan(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, projectsdomain.ErrProjectNotFound
	}
	return &items[0], nil
}

func (r *PostgresRepository) CountProjectsByName(ctx context.Context, name, excludeID string) (int64, error) {
	return r.countByColumn(ctx, &projectsdomain.Project{}, "name", name, excludeID)
}

func (r *PostgresRepository) CountProjectsByManager(ctx context.Context, managerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&projectsdomain.Project{}).Where("manager_id = ?", managerID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountProjectsByState(ctx context.Context, stateID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&projectsdomain.Project{}).Where("state_id = ?", stateID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CreateProject(ctx context.Context, project *projectsdomain.Project) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(project).Error)
}

func (r *PostgresRepository) UpdateProject(ctx context.Context, project *projectsdomain.Project) error {
	return db.TranslateError(r.db.WithContext(ctx).Save(project).Error)
}

// DeleteProject relies on the schema to cascade to time plans and logs.
func (r *PostgresRepository) DeleteProject(ctx context.Context, id string) (bool, error) {
	if !db.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&projectsdomain.Project{}, "id = ?", id)
	return result.RowsAffected > 0, db.TranslateError(result.Error)
}

func (r *PostgresRepository) projectsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("projects p").
		Select("p.id, p.name, p.state_id, p.manager_id, p.created_at, p.updated_at, ps.name AS state_name, pm.fullname AS manager_name").
		Joins("JOIN project_states ps ON ps.id = p.state_id").
		Joins("JOIN project_managers pm ON pm.id = p.manager_id")
}

func (r *PostgresRepository) countByColumn(ctx context.Context, model any, column, value, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).Model(model).Where(column+" = ?", value)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
