package teams

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"planner-go/internal/db"
	teamsdomain "planner-go/internal/domain/teams"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(teamsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListTechs(ctx context.Context) ([]teamsdomain.TechWithCount, error) {
	var items []teamsdomain.TechWithCount
	if err := r.db.WithContext(ctx).
		Table("techs t").
		Select("t.id, t.name, t.created_at, t.updated_at, COUNT(tm.id) AS teams").
		Joins("LEFT JOIN teams tm ON tm.tech_id = t.id").
		Group("t.id, t.name, t.created_at, t.updated_at").
		Order("t.name asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetTech(ctx context.Context, id string) (*teamsdomain.Tech, error) {
	if !db.ValidID(id) {
		return nil, teamsdomain.ErrTechNotFound
	}
	var tech teamsdomain.Tech
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tech).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamsdomain.ErrTechNotFound
		}
		return nil, err
	}
	return &tech, nil
}

func (r *PostgresRepository) CountTechsByName(ctx context.Context, name, excludeID string) (int64, error) {
	return r.countWhere(ctx, "techs", "name = ?", name, excludeID)
}

func (r *PostgresRepository) CountTeamsByTech(ctx context.Context, techID string) (int64, error) {
	return r.countWhere(ctx, "teams", "tech_id = ?", techID, "")
}

func (r *PostgresRepository) CountPlansByTech(ctx context.Context, techID string) (int64, error) {
	return r.countWhere(ctx, "time_plans", "tech_id = ?", techID, "")
}

func (r *PostgresRepository) CreateTech(ctx context.Context, tech *teamsdomain.Tech) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(tech).Error)
}

func (r *PostgresRepository) UpdateTech(ctx context.Context, tech *teamsdomain.Tech) error {
	return db.TranslateError(r.db.WithContext(ctx).Save(tech).Error)
}

func (r *PostgresRepository) DeleteTech(ctx context.Context, id string) (bool, error) {
	if !db.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&teamsdomain.Tech{}, "id = ?", id)
	return result.RowsAffected > 0, db.TranslateError(result.Error)
}

func (r *PostgresRepository) ListTeams(ctx context.Context, filter teamsdomain.TeamFilter) ([]teamsdomain.TeamDetails, error) {
	if !db.ValidFilter(filter.TechID) {
		return nil, nil
	}
	query := r.teamsQuery(ctx)
	if filter.TechID != "" {
		query = query.Where("tm.tech_id = ?", filter.TechID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(tm.name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var items []teamsdomain.TeamDetails
	if err := query.Order("tm.name asc").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetTeam(ctx context.Context, id string) (*teamsdomain.TeamDetails, error) {
	if !db.ValidID(id) {
		return nil, teamsdomain.ErrTeamNotFound
	}
	var items []teamsdomain.TeamDetails
	if err := r.teamsQuery(ctx).Where("tm.id = ?", id).Scan(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, teamsdomain.ErrTeamNotFound
	}
	return &items[0], nil
}

func (r *PostgresRepository) CountTeamsByName(ctx context.Context, name, excludeID string) (int64, error) {
	return r.countWhere(ctx, "teams", "name = ?", name, excludeID)
}

func (r *PostgresRepository) CreateTeam(ctx context.Context, team *teamsdomain.Team) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(team).Error)
}

func (r *PostgresRepository) UpdateTeam(ctx context.Context, team *teamsdomain.Team) error {
	return db.TranslateError(r.db.WithContext(ctx).Save(team).Error)
}

// DeleteTeam cascades to members and, through them, their time logs.
func (r *PostgresRepository) DeleteTeam(ctx context.Context, id string) (bool, error) {
	if !db.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&teamsdomain.Team{}, "id = ?", id)
	return result.RowsAffected > 0, db.TranslateError(result.Error)
}

func (r *PostgresRepository) ListMembers(ctx context.Context, filter teamsdomain.MemberFilter) ([]teamsdomain.MemberDetails, error) {
	if !db.ValidFilter(filter.TeamID) {
		return nil, nil
	}
	query := r.membersQuery(ctx)
	if filter.TeamID != "" {
		query = query.Where("m.team_id = ?", filter.TeamID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(m.fullname) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var items []teamsdomain.MemberDetails
	if err := query.Order("m.fullname asc").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, id string) (*teamsdomain.MemberDetails, error) {
	if !db.ValidID(id) {
		return nil, teamsdomain.ErrMemberNotFound
	}
	var items []teamsdomain.MemberDetails
	if err := r.membersQuery(ctx).Where("m.id = ?", id).Scan(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, teamsdomain.ErrMemberNotFound
	}
	return &items[0], nil
}

func (r *PostgresRepository) CountMembersByName(ctx context.Context, fullName, excludeID string) (int64, error) {
	return r.countWhere(ctx, "team_members", "fullname = ?", fullName, excludeID)
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member *teamsdomain.Member) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(member).Error)
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *teamsdomain.Member) error {
	return db.TranslateError(r.db.WithContext(ctx).Save(member).Error)
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, id string) (bool, error) {
	if !db.ValidID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&teamsdomain.Member{}, "id = ?", id)
	return result.RowsAffected > 0, db.TranslateError(result.Error)
}

func (r *PostgresRepository) LoggedForWeek(ctx context.Context, memberIDs []string, week time.Time) (map[string]float64, error) {
	result := make(map[string]float64, len(memberIDs))
	if len(memberIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		MemberID string  `gorm:"column:member_id"`
		Total    float64 `gorm:"column:total"`
	}
	if err := r.db.WithContext(ctx).
		Raw("SELECT member_id, SUM(time) AS total FROM time_logs WHERE member_id IN ? AND week = ? GROUP BY member_id", memberIDs, week).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.MemberID] = row.Total
	}
	return result, nil
}

func (r *PostgresRepository) teamsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("teams tm").
		Select("tm.id, tm.name, tm.tech_id, tm.created_at, tm.updated_at, t.name AS tech_name, " +
			"(SELECT COUNT(*) FROM team_members m WHERE m.team_id = tm.id) AS members").
		Joins("JOIN techs t ON t.id = tm.tech_id")
}

func (r *PostgresRepository) membersQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("team_members m").
		Select("m.id, m.fullname, m.team_id, m.created_at, m.updated_at, tm.name AS team_name").
		Joins("JOIN teams tm ON tm.id = m.team_id")
}

func (r *PostgresRepository) countWhere(ctx context.Context, table, condition, value, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).Table(table).Where(condition, value)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
