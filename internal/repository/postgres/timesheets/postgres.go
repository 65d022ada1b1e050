package timesheets

import (
	"context"
	"time"

	"gorm.io/gorm"

	"planner-go/internal/db"
	timesheetsdomain "planner-go/internal/domain/timesheets"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(timesheetsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListPlans(ctx context.Context, filter timesheetsdomain.PlanFilter) ([]timesheetsdomain.PlanDetails, error) {
	if !db.ValidFilter(filter.ProjectID, filter.TechID) {
		return nil, nil
	}
	query := r.plansQuery(ctx)
	if filter.From != nil {
		query = query.Where("tp.week >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("tp.week <= ?", *filter.To)
	}
	if filter.ProjectID != "" {
		query = query.Where("tp.project_id = ?", filter.ProjectID)
	}
	if filter.TechID != "" {
		query = query.Where("tp.tech_id = ?", filter.TechID)
	}

	var items []timesheetsdomain.PlanDetails
	if err := query.Order("tp.week asc, p.name asc, t.name asc").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetPlan(ctx context.Context, id string) (*timesheetsdomain.PlanDetails, error) {
	if !db.ValidID(id) {
		return nil, timesheetsdomain.ErrPlanNotFound
	}
	var items []timesheetsdomain.PlanDetails
	if err := r.plansQuery(ctx).Where("tp.id = ?", id).Scan(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, timesheetsdomain.ErrPlanNotFound
	}
	return &items[0], nil
}

func (r *PostgresRepository) CountPlans(ctx context.Context, projectID, techID string, week time.Time, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&timesheetsdomain.TimePlan{}).
		Where("project_id = ? AND tech_id = ? AND week = ?", projectID, techID, week)
	return count(query, excludeID)
}

func (r *PostgresRepository) CreatePlan(ctx context.Context, plan *timesheetsdomain.TimePlan) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(plan).Error)
}

func (r *PostgresRepository) UpdatePlan(ctx context.Context, plan *timesheetsdomain.TimePlan) error {
	return db.TranslateError(r.db.WithContext(ctx).Save(plan).Error)
}

func (r *PostgresRepository) DeletePlan(ctx context.Context, id string) (bool, error) {
	if !db.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&timesheetsdomain.TimePlan{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListLogs(ctx context.Context, filter timesheetsdomain.LogFilter) ([]timesheetsdomain.LogDetails, error) {
	if !db.ValidFilter(filter.ProjectID, filter.TeamID, filter.MemberID) {
		return nil, nil
	}
	query := r.logsQuery(ctx)
	if filter.From != nil {
		query = query.Where("tl.week >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("tl.week <= ?", *filter.To)
	}
	if filter.ProjectID != "" {
		query = query.Where("tl.project_id = ?", filter.ProjectID)
	}
	if filter.TeamID != "" {
		query = query.Where("m.team_id = ?", filter.TeamID)
	}
	if filter.MemberID != "" {
		query = query.Where("tl.member_id = ?", filter.MemberID)
	}

	var items []timesheetsdomain.LogDetails
	if err := query.Order("tl.week asc, p.name asc, m.fullname asc").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetLog(ctx context.Context, id string) (*timesheetsdomain.LogDetails, error) {
	if !db.ValidID(id) {
		return nil, timesheetsdomain.ErrLogNotFound
	}
	var items []timesheetsdomain.LogDetails
	if err := r.logsQuery(ctx).Where("tl.id = ?", id).Scan(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, timesheetsdomain.ErrLogNotFound
	}
	return &items[0], nil
}

func (r *PostgresRepository) CountLogs(ctx context.Context, projectID, memberID string, week time.Time, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&timesheetsdomain.TimeLog{}).
		Where("project_id = ? AND member_id = ? AND week = ?", projectID, memberID, week)
	return count(query, excludeID)
}

func (r *PostgresRepository) CreateLog(ctx context.Context, log *timesheetsdomain.TimeLog) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(log).Error)
}

func (r *PostgresRepository) UpdateLog(ctx context.Context, log *timesheetsdomain.TimeLog) error {
	return db.TranslateError(r.db.WithContext(ctx).Save(log).Error)
}

func (r *PostgresRepository) DeleteLog(ctx context.Context, id string) (bool, error) {
	if !db.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&timesheetsdomain.TimeLog{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ProjectExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "projects", id)
}

func (r *PostgresRepository) TechExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "techs", id)
}

func (r *PostgresRepository) MemberExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "team_members", id)
}

func (r *PostgresRepository) plansQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("time_plans tp").
		Select("tp.id, tp.project_id, tp.tech_id, tp.week, tp.time, tp.created_at, tp.updated_at, p.name AS project_name, t.name AS tech_name").
		Joins("JOIN projects p ON p.id = tp.project_id").
		Joins("JOIN techs t ON t.id = tp.tech_id")
}

func (r *PostgresRepository) logsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("time_logs tl").
		Select("tl.id, tl.project_id, tl.member_id, tl.week, tl.time, tl.fact, tl.created_at, tl.updated_at, " +
			"p.name AS project_name, m.fullname AS member_name, tm.name AS team_name").
		Joins("JOIN projects p ON p.id = tl.project_id").
		Joins("JOIN team_members m ON m.id = tl.member_id").
		Joins("JOIN teams tm ON tm.id = m.team_id")
}

func (r *PostgresRepository) exists(ctx context.Context, table, id string) (bool, error) {
	if !db.ValidID(id) {
		return false, nil
	}
	var total int64
	if err := r.db.WithContext(ctx).Table(table).Where("id = ?", id).Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func count(query *gorm.DB, excludeID string) (int64, error) {
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
