package summary_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planner-go/internal/db/dbtest"
	projectsdomain "planner-go/internal/domain/projects"
	summarydomain "planner-go/internal/domain/summary"
	teamsdomain "planner-go/internal/domain/teams"
	timesheetsdomain "planner-go/internal/domain/timesheets"
	"planner-go/internal/repository/postgres/summary"
)

var (
	week1 = time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)
	week2 = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	t  *testing.T
	db *gorm.DB

	manager string
	state   string
	techs   map[string]string
	teams   map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		t:     t,
		db:    dbtest.Open(t),
		techs: map[string]string{},
		teams: map[string]string{},
	}
	f.manager = f.create(&projectsdomain.Manager{ID: uuid.NewString(), FullName: "Ann Smith"}).(*projectsdomain.Manager).ID
	f.state = f.create(&projectsdomain.State{ID: uuid.NewString(), Name: "Active"}).(*projectsdomain.State).ID
	for _, name := range []string{summarydomain.TechBackEnd, summarydomain.TechFrontEnd, summarydomain.TechMobile} {
		f.techs[name] = f.create(&teamsdomain.Tech{ID: uuid.NewString(), Name: name}).(*teamsdomain.Tech).ID
	}
	return f
}

func (f *fixture) create(value interface{}) interface{} {
	f.t.Helper()
	if err := f.db.Create(value).Error; err != nil {
		f.t.Fatalf("seed %T: %v", value, err)
	}
	return value
}

func (f *fixture) project(name string) string {
	return f.create(&projectsdomain.Project{
		ID:        uuid.NewString(),
		Name:      name,
		StateID:   f.state,
		ManagerID: f.manager,
	}).(*projectsdomain.Project).ID
}

func (f *fixture) team(name, tech string) string {
	id := f.create(&teamsdomain.Team{ID: uuid.NewString(), Name: name, TechID: f.techs[tech]}).(*teamsdomain.Team).ID
	f.teams[name] = id
	return id
}

func (f *fixture) member(name, teamID string) string {
	return f.create(&teamsdomain.Member{ID: uuid.NewString(), FullName: name, TeamID: teamID}).(*teamsdomain.Member).ID
}

func (f *fixture) plan(projectID, tech string, monday time.Time, hours float64) {
	f.create(&timesheetsdomain.TimePlan{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		TechID:    f.techs[tech],
		Week:      monday,
		Time:      hours,
	})
}

func (f *fixture) log(projectID, memberID string, monday time.Time, hours, fact float64) {
	f.create(&timesheetsdomain.TimeLog{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		MemberID:  memberID,
		Week:      monday,
		Time:      hours,
		Fact:      fact,
	})
}

func TestProjectSummaryTotals(t *testing.T) {
	f := newFixture(t)
	apollo := f.project("Apollo")
	team := f.team("Core", summarydomain.TechBackEnd)
	ken := f.member("Ken", team)

	f.plan(apollo, summarydomain.TechBackEnd, week2, 10)
	f.plan(apollo, summarydomain.TechFrontEnd, week2, 5)
	f.log(apollo, ken, week2, 8, 8)

	svc := summarydomain.NewService(summary.NewPostgres(f.db))
	rows, err := svc.ListProjects(context.Background(), summarydomain.ProjectFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.ProjectName != "Apollo" || row.ManagerName != "Ann Smith" || row.StateName != "Active" {
		t.Fatalf("unexpected names: %+v", row)
	}
	if !row.Week.Equal(week2) {
		t.Fatalf("expected week %v, got %v", week2, row.Week)
	}
	if summarydomain.OrZero(row.BackEnd) != 10 || summarydomain.OrZero(row.FrontEnd) != 5 {
		t.Fatalf("unexpected tech columns: back %v front %v", row.BackEnd, row.FrontEnd)
	}
	if row.Mobile != nil || row.Analysis != nil {
		t.Fatalf("expected unplanned techs to be null")
	}
	if summarydomain.OrZero(row.TotalPlanned) != 15 || summarydomain.OrZero(row.TotalLogged) != 8 || summarydomain.OrZero(row.TotalFact) != 8 {
		t.Fatalf("unexpected totals: %+v", row)
	}
	if row.Difference != 7 {
		t.Fatalf("expected difference 7, got %v", row.Difference)
	}
}

func TestProjectWeeksLatestWeek(t *testing.T) {
	f := newFixture(t)
	apollo := f.project("Apollo")
	borealis := f.project("Borealis")

	f.plan(apollo, summarydomain.TechBackEnd, week1, 4)
	f.plan(apollo, summarydomain.TechFrontEnd, week2, 6)
	f.plan(apollo, summarydomain.TechMobile, week2, 2)
	f.plan(borealis, summarydomain.TechBackEnd, week1, 3)

	repo := summary.NewPostgres(f.db)
	ctx := context.Background()

	rows, err := repo.ProjectWeeks(ctx, summarydomain.ProjectFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ProjectName != "Apollo" || !rows[0].Week.Equal(week2) {
		t.Fatalf("expected Apollo at %v first, got %+v", week2, rows[0])
	}
	if rows[1].ProjectName != "Borealis" || !rows[1].Week.Equal(week1) {
		t.Fatalf("expected Borealis at %v second, got %+v", week1, rows[1])
	}

	all, err := repo.ProjectWeeks(ctx, summarydomain.ProjectFilter{AllWeeks: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 project weeks, got %d", len(all))
	}

	to := week1
	bounded, err := repo.ProjectWeeks(ctx, summarydomain.ProjectFilter{To: &to})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(bounded) != 2 || !bounded[0].Week.Equal(week1) || !bounded[1].Week.Equal(week1) {
		t.Fatalf("expected latest week inside range, got %+v", bounded)
	}

	named, err := repo.ProjectWeeks(ctx, summarydomain.ProjectFilter{Project: "Borealis", AllWeeks: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(named) != 1 || named[0].ProjectID != borealis {
		t.Fatalf("expected Borealis only, got %+v", named)
	}
}

func TestProjectInfoMissing(t *testing.T) {
	f := newFixture(t)

	_, err := summary.NewPostgres(f.db).ProjectInfo(context.Background(), uuid.NewString())
	if !errors.Is(err, projectsdomain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestTeamSummaryFromLogs(t *testing.T) {
	f := newFixture(t)
	apollo := f.project("Apollo")
	borealis := f.project("Borealis")
	core := f.team("Core", summarydomain.TechBackEnd)
	f.team("Edge", summarydomain.TechBackEnd)
	ken := f.member("Ken", core)
	lea := f.member("Lea", core)

	f.plan(apollo, summarydomain.TechBackEnd, week2, 20)
	f.plan(borealis, summarydomain.TechBackEnd, week2, 5)
	f.plan(borealis, summarydomain.TechFrontEnd, week2, 40)
	f.log(borealis, lea, week2, 7, 6)
	f.log(apollo, ken, week2, 7.5, 7)

	svc := summarydomain.NewService(summary.NewPostgres(f.db))
	rows, err := svc.ListTeams(context.Background(), summarydomain.TeamFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the team with logs, got %d rows", len(rows))
	}

	row := rows[0]
	if row.TeamName != "Core" || row.TechName != summarydomain.TechBackEnd {
		t.Fatalf("unexpected team row: %+v", row)
	}
	if len(row.Members) != 2 || row.Members[0].Line() != "Lea(Borealis) - 7h" || row.Members[1].Line() != "Ken(Apollo) - 7.5h" {
		t.Fatalf("expected entries in logging order, got %+v", row.Members)
	}
	if len(row.Projects) != 2 || row.Projects[0].Name != "Apollo" || row.Projects[1].Name != "Borealis" {
		t.Fatalf("expected projects sorted by name, got %+v", row.Projects)
	}
	if summarydomain.OrZero(row.TotalPlanned) != 25 {
		t.Fatalf("expected planned 25, got %v", row.TotalPlanned)
	}
	if summarydomain.OrZero(row.TotalLogged) != 14.5 || summarydomain.OrZero(row.TotalFact) != 13 {
		t.Fatalf("unexpected logged totals: %v %v", row.TotalLogged, row.TotalFact)
	}
	if row.Difference != 10.5 {
		t.Fatalf("expected difference 10.5, got %v", row.Difference)
	}
	if !row.SharedTech {
		t.Fatalf("expected shared tech flag with two back-end teams")
	}
}

func TestTeamWeeksLatestWeek(t *testing.T) {
	f := newFixture(t)
	apollo := f.project("Apollo")
	core := f.team("Core", summarydomain.TechBackEnd)
	web := f.team("Web", summarydomain.TechFrontEnd)
	ken := f.member("Ken", core)
	ivy := f.member("Ivy", web)

	f.log(apollo, ken, week1, 3, 3)
	f.log(apollo, ken, week2, 4, 4)
	f.log(apollo, ivy, week1, 5, 5)

	repo := summary.NewPostgres(f.db)
	ctx := context.Background()

	rows, err := repo.TeamWeeks(ctx, summarydomain.TeamFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].TeamName != "Core" || !rows[0].Week.Equal(week2) {
		t.Fatalf("expected Core at latest week first, got %+v", rows[0])
	}
	if rows[1].TeamName != "Web" || rows[1].TechTeams != 1 {
		t.Fatalf("expected Web alone on its tech, got %+v", rows[1])
	}

	all, err := repo.TeamWeeks(ctx, summarydomain.TeamFilter{Team: "Core", AllWeeks: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 Core weeks, got %d", len(all))
	}

	planned, err := repo.PlannedForTech(ctx, f.techs[summarydomain.TechMobile], week2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if planned != nil {
		t.Fatalf("expected null planned hours, got %v", *planned)
	}

	if _, err := repo.TeamInfo(ctx, uuid.NewString()); !errors.Is(err, teamsdomain.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}
