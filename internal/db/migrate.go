package db

import (
	"database/sql"
	"embed"
	stderrors "errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"planner-go/internal/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigrationStatus holds information about database migration state.
type MigrationStatus struct {
	CurrentVersion uint
	LatestVersion  uint
	Dirty          bool
	Pending        bool
}

type Migrator struct {
	m      *migrate.Migrate
	source source.Driver
	driver string
	// own is the dedicated handle opened for postgres migrations.
	own *sql.DB
}

// NewMigrator prepares migrations for the database behind gormDB. Postgres
// migrations run on their own connection; SQLite shares gormDB's single
// connection.
func NewMigrator(gormDB *gorm.DB, cfg config.DBConfig) (*Migrator, error) {
	dir := migrationsDir(cfg.Driver)
	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, errors.Wrap(err, "migrations source")
	}

	var (
		instance migratedb.Driver
		own      *sql.DB
		name     string
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		sqlDB, err := gormDB.DB()
		if err != nil {
			src.Close()
			return nil, errors.Wrap(err, "db handle")
		}
		instance, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
		if err != nil {
			src.Close()
			return nil, errors.Wrap(err, "sqlite migration driver")
		}
		name = "sqlite3"
	default:
		own, err = sql.Open("pgx", cfg.GetDSN())
		if err != nil {
			src.Close()
			return nil, errors.Wrap(err, "open migration connection")
		}
		instance, err = pgx.WithInstance(own, &pgx.Config{})
		if err != nil {
			src.Close()
			own.Close()
			return nil, errors.Wrap(err, "postgres migration driver")
		}
		name = "pgx5"
	}

	m, err := migrate.NewWithInstance("iofs", src, name, instance)
	if err != nil {
		src.Close()
		if own != nil {
			own.Close()
		}
		return nil, errors.Wrap(err, "migrator")
	}

	return &Migrator{m: m, source: src, driver: cfg.Driver, own: own}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate up")
	}
	return nil
}

// Down rolls back the given number of migrations, or all of them when
// steps is not positive.
func (m *Migrator) Down(steps int) error {
	var err error
	if steps > 0 {
		err = m.m.Steps(-steps)
	} else {
		err = m.m.Down()
	}
	if err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate down")
	}
	return nil
}

func (m *Migrator) Status() (*MigrationStatus, error) {
	version, dirty, err := m.m.Version()
	if err != nil && !stderrors.Is(err, migrate.ErrNilVersion) {
		return nil, errors.Wrap(err, "migration version")
	}

	latest, err := latestVersion(m.driver)
	if err != nil {
		return nil, err
	}

	return &MigrationStatus{
		CurrentVersion: version,
		LatestVersion:  latest,
		Dirty:          dirty,
		Pending:        version < latest,
	}, nil
}

// Close releases the migration source. The shared SQLite handle stays open.
func (m *Migrator) Close() error {
	if m.own != nil {
		sourceErr, dbErr := m.m.Close()
		if sourceErr != nil {
			return sourceErr
		}
		return dbErr
	}
	return m.source.Close()
}

// Migrate applies all pending migrations for cfg's driver.
func Migrate(gormDB *gorm.DB, cfg config.DBConfig) error {
	migrator, err := NewMigrator(gormDB, cfg)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Up()
}

func latestVersion(driver string) (uint, error) {
	src, err := iofs.New(migrationsFS, migrationsDir(driver))
	if err != nil {
		return 0, errors.Wrap(err, "migrations source")
	}
	defer src.Close()

	latest, err := src.First()
	if err != nil {
		return 0, errors.Wrap(err, "first migration")
	}
	for {
		next, err := src.Next(latest)
		if err != nil {
			break
		}
		latest = next
	}
	return latest, nil
}

func migrationsDir(driver string) string {
	if driver == config.DriverSQLite {
		return "migrations/sqlite"
	}
	return fmt.Sprintf("migrations/%s", config.DriverPostgres)
}
