package summary

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"planner-go/internal/db"
	projectsdomain "planner-go/internal/domain/projects"
	summarydomain "planner-go/internal/domain/summary"
	teamsdomain "planner-go/internal/domain/teams"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type projectRow struct {
	ProjectID   string     `gorm:"column:project_id"`
	ProjectName string     `gorm:"column:project_name"`
	ManagerName string     `gorm:"column:manager_name"`
	StateName   string     `gorm:"column:state_name"`
	Week        dateColumn `gorm:"column:week"`
}

func (row projectRow) toDomain() summarydomain.ProjectRow {
	return summarydomain.ProjectRow{
		ProjectID:   row.ProjectID,
		ProjectName: row.ProjectName,
		ManagerName: row.ManagerName,
		StateName:   row.StateName,
		Week:        time.Time(row.Week),
	}
}

type teamRow struct {
	TeamID    string     `gorm:"column:team_id"`
	TeamName  string     `gorm:"column:team_name"`
	TechID    string     `gorm:"column:tech_id"`
	TechName  string     `gorm:"column:tech_name"`
	Week      dateColumn `gorm:"column:week"`
	TechTeams int64      `gorm:"column:tech_teams"`
}

func (row teamRow) toDomain() summarydomain.TeamRow {
	return summarydomain.TeamRow{
		TeamID:    row.TeamID,
		TeamName:  row.TeamName,
		TechID:    row.TechID,
		TechName:  row.TechName,
		Week:      time.Time(row.Week),
		TechTeams: row.TechTeams,
	}
}

type totalsRow struct {
	TotalTime *float64 `gorm:"column:total_time"`
	TotalFact *float64 `gorm:"column:total_fact"`
}

const projectColumns = "p.id AS project_id, p.name AS project_name, pm.fullname AS manager_name, ps.name AS state_name"

const projectJoins = " JOIN project_managers pm ON pm.id = p.manager_id JOIN project_states ps ON ps.id = p.state_id"

const teamColumns = "tm.id AS team_id, tm.name AS team_name, t.id AS tech_id, t.name AS tech_name, " +
	"(SELECT COUNT(*) FROM teams shared WHERE shared.tech_id = tm.tech_id) AS tech_teams"

func (r *PostgresRepository) ProjectWeeks(ctx context.Context, filter summarydomain.ProjectFilter) ([]summarydomain.ProjectRow, error) {
	conditions := []string{"1 = 1"}
	args := []interface{}{}

	rangeSQL, rangeArgs := weekRange("tp.week", filter.From, filter.To)
	if rangeSQL != "" {
		conditions = append(conditions, rangeSQL)
		args = append(args, rangeArgs...)
	}
	if filter.State != "" {
		conditions = append(conditions, "ps.name = ?")
		args = append(args, filter.State)
	}
	if filter.Manager != "" {
		conditions = append(conditions, "pm.fullname = ?")
		args = append(args, filter.Manager)
	}
	if filter.Project != "" {
		conditions = append(conditions, "p.name = ?")
		args = append(args, filter.Project)
	}
	if !filter.AllWeeks {
		latestRange, latestArgs := weekRange("latest.week", filter.From, filter.To)
		latest := "tp.week = (SELECT MAX(latest.week) FROM time_plans latest WHERE latest.project_id = tp.project_id"
		if latestRange != "" {
			latest += " AND " + latestRange
			args = append(args, latestArgs...)
		}
		conditions = append(conditions, latest+")")
	}

	query := fmt.Sprintf("SELECT DISTINCT %s, tp.week AS week FROM time_plans tp JOIN projects p ON p.id = tp.project_id%s WHERE %s ORDER BY week DESC, project_name ASC",
		projectColumns, projectJoins, strings.Join(conditions, " AND "))

	var rows []projectRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]summarydomain.ProjectRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *PostgresRepository) ProjectInfo(ctx context.Context, projectID string) (*summarydomain.ProjectRow, error) {
	if !db.ValidID(projectID) {
		return nil, projectsdomain.ErrProjectNotFound
	}
	query := fmt.Sprintf("SELECT %s FROM projects p%s WHERE p.id = ?", projectColumns, projectJoins)

	var rows []projectRow
	if err := r.db.WithContext(ctx).Raw(query, projectID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, projectsdomain.ErrProjectNotFound
	}

	item := rows[0].toDomain()
	return &item, nil
}

func (r *PostgresRepository) PlanTotals(ctx context.Context, projectID string, week time.Time) ([]summarydomain.TechTotal, error) {
	var rows []summarydomain.TechTotal
	if err := r.db.WithContext(ctx).
		Raw("SELECT t.name AS tech_name, SUM(tp.time) AS hours FROM time_plans tp JOIN techs t ON t.id = tp.tech_id WHERE tp.project_id = ? AND tp.week = ? GROUP BY t.name ORDER BY t.name",
			projectID, week).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ProjectLogTotals(ctx context.Context, projectID string, week time.Time) (summarydomain.Totals, error) {
	var row totalsRow
	if err := r.db.WithContext(ctx).
		Raw("SELECT SUM(time) AS total_time, SUM(fact) AS total_fact FROM time_logs WHERE project_id = ? AND week = ?", projectID, week).
		Scan(&row).Error; err != nil {
		return summarydomain.Totals{}, err
	}
	return summarydomain.Totals{Time: row.TotalTime, Fact: row.TotalFact}, nil
}

func (r *PostgresRepository) TeamWeeks(ctx context.Context, filter summarydomain.TeamFilter) ([]summarydomain.TeamRow, error) {
	conditions := []string{"1 = 1"}
	args := []interface{}{}

	rangeSQL, rangeArgs := weekRange("tl.week", filter.From, filter.To)
	if rangeSQL != "" {
		conditions = append(conditions, rangeSQL)
		args = append(args, rangeArgs...)
	}
	if filter.Team != "" {
		conditions = append(conditions, "tm.name = ?")
		args = append(args, filter.Team)
	}
	if !filter.AllWeeks {
		latestRange, latestArgs := weekRange("latest.week", filter.From, filter.To)
		latest := "tl.week = (SELECT MAX(latest.week) FROM time_logs latest JOIN team_members lm ON lm.id = latest.member_id WHERE lm.team_id = tm.id"
		if latestRange != "" {
			latest += " AND " + latestRange
			args = append(args, latestArgs...)
		}
		conditions = append(conditions, latest+")")
	}

	query := fmt.Sprintf("SELECT DISTINCT %s, tl.week AS week FROM time_logs tl JOIN team_members m ON m.id = tl.member_id JOIN teams tm ON tm.id = m.team_id JOIN techs t ON t.id = tm.tech_id WHERE %s ORDER BY week DESC, team_name ASC",
		teamColumns, strings.Join(conditions, " AND "))

	var rows []teamRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]summarydomain.TeamRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *PostgresRepository) TeamInfo(ctx context.Context, teamID string) (*summarydomain.TeamRow, error) {
	if !db.ValidID(teamID) {
		return nil, teamsdomain.ErrTeamNotFound
	}
	query := fmt.Sprintf("SELECT %s FROM teams tm JOIN techs t ON t.id = tm.tech_id WHERE tm.id = ?", teamColumns)

	var rows []teamRow
	if err := r.db.WithContext(ctx).Raw(query, teamID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, teamsdomain.ErrTeamNotFound
	}

	item := rows[0].toDomain()
	return &item, nil
}

// TeamEntries returns the team's logs for the week in the order they were
// recorded.
func (r *PostgresRepository) TeamEntries(ctx context.Context, teamID string, week time.Time) ([]summarydomain.MemberEntry, error) {
	var rows []summarydomain.MemberEntry
	if err := r.db.WithContext(ctx).
		Raw("SELECT m.id AS member_id, m.fullname AS member_name, p.id AS project_id, p.name AS project_name, tl.time AS hours "+
			"FROM time_logs tl JOIN team_members m ON m.id = tl.member_id JOIN projects p ON p.id = tl.project_id "+
			"WHERE m.team_id = ? AND tl.week = ? ORDER BY tl.created_at ASC, tl.id ASC", teamID, week).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) TeamLogTotals(ctx context.Context, teamID string, week time.Time) (summarydomain.Totals, error) {
	var row totalsRow
	if err := r.db.WithContext(ctx).
		Raw("SELECT SUM(tl.time) AS total_time, SUM(tl.fact) AS total_fact FROM time_logs tl JOIN team_members m ON m.id = tl.member_id WHERE m.team_id = ? AND tl.week = ?",
			teamID, week).
		Scan(&row).Error; err != nil {
		return summarydomain.Totals{}, err
	}
	return summarydomain.Totals{Time: row.TotalTime, Fact: row.TotalFact}, nil
}

func (r *PostgresRepository) PlannedForTech(ctx context.Context, techID string, week time.Time) (*float64, error) {
	var row struct {
		Total *float64 `gorm:"column:total"`
	}
	if err := r.db.WithContext(ctx).
		Raw("SELECT SUM(time) AS total FROM time_plans WHERE tech_id = ? AND week = ?", techID, week).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return row.Total, nil
}

func weekRange(column string, from, to *time.Time) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	if from != nil {
		conditions = append(conditions, column+" >= ?")
		args = append(args, *from)
	}
	if to != nil {
		conditions = append(conditions, column+" <= ?")
		args = append(args, *to)
	}
	return strings.Join(conditions, " AND "), args
}

// dateColumn reads a DATE column. SQLite returns text instead of a time
// when the declared type does not survive the query.
type dateColumn time.Time

func (d *dateColumn) Scan(src any) error {
	switch value := src.(type) {
	case time.Time:
		*d = dateColumn(time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC))
		return nil
	case string:
		return d.parse(value)
	case []byte:
		return d.parse(string(value))
	case nil:
		*d = dateColumn(time.Time{})
		return nil
	default:
		return fmt.Errorf("unsupported week value %T", src)
	}
}

func (d dateColumn) Value() (driver.Value, error) {
	return time.Time(d), nil
}

func (d *dateColumn) parse(value string) error {
	if len(value) < len(time.DateOnly) {
		return fmt.Errorf("invalid week value %q", value)
	}
	parsed, err := time.Parse(time.DateOnly, value[:len(time.DateOnly)])
	if err != nil {
		return err
	}
	*d = dateColumn(parsed)
	return nil
}
