package app

import (
	"net/http"

	"gorm.io/gorm"

	"planner-go/internal/config"
	"planner-go/internal/db"
	projectsdomain "planner-go/internal/domain/projects"
	summarydomain "planner-go/internal/domain/summary"
	teamsdomain "planner-go/internal/domain/teams"
	timesheetsdomain "planner-go/internal/domain/timesheets"
	"planner-go/internal/metrics"
	"planner-go/internal/repository/inmemory"
	projectsrepo "planner-go/internal/repository/postgres/projects"
	summaryrepo "planner-go/internal/repository/postgres/summary"
	teamsrepo "planner-go/internal/repository/postgres/teams"
	timesheetsrepo "planner-go/internal/repository/postgres/timesheets"
	"planner-go/internal/transport/httpserver"
	"planner-go/internal/transport/httpserver/handler"
	commonhandler "planner-go/internal/transport/httpserver/handler/common"
	projectshandler "planner-go/internal/transport/httpserver/handler/projects"
	summaryhandler "planner-go/internal/transport/httpserver/handler/summary"
	teamshandler "planner-go/internal/transport/httpserver/handler/teams"
	timesheetshandler "planner-go/internal/transport/httpserver/handler/timesheets"
	"planner-go/pkg/logger"
)

type Services struct {
	Projects   *projectsdomain.Service
	Teams      *teamsdomain.Service
	Timesheets *timesheetsdomain.Service
	Summary    *summarydomain.Service
}

type App struct {
	cfg        config.Config
	log        logger.Logger
	db         *gorm.DB
	services   Services
	metrics    *metrics.Metrics
	httpServer *http.Server
}

// New opens the database, applies migrations when enabled and wires the
// HTTP server.
func New(cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	services, err := NewServices(dbConn, cfg, m)
	if err != nil {
		_ = db.Close(dbConn)
		return nil, err
	}

	log.Info("app: initializing router")
	router := NewHandler(cfg, services, m, log, false)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		log:        log,
		db:         dbConn,
		services:   services,
		metrics:    m,
		httpServer: srv,
	}, nil
}

// Open connects to the configured database and runs pending migrations when
// auto-migrate is on.
func Open(cfg config.Config, log logger.Logger) (*gorm.DB, error) {
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(dbConn, cfg.DB); err != nil {
			_ = db.Close(dbConn)
			return nil, err
		}
	}
	return dbConn, nil
}

func NewServices(dbConn *gorm.DB, cfg config.Config, observer summarydomain.Observer) (Services, error) {
	loc, err := cfg.Summary.Location()
	if err != nil {
		return Services{}, err
	}

	opts := summarydomain.Options{Observer: observer}
	if cfg.Summary.CacheTTL > 0 {
		opts.Cache = inmemory.NewInMemorySummaryCache()
		opts.CacheTTL = cfg.Summary.CacheTTL
	}

	return Services{
		Projects:   projectsdomain.NewService(projectsrepo.NewPostgres(dbConn)),
		Teams:      teamsdomain.NewService(teamsrepo.NewPostgres(dbConn), loc),
		Timesheets: timesheetsdomain.NewService(timesheetsrepo.NewPostgres(dbConn)),
		Summary:    summarydomain.NewServiceWithOptions(summaryrepo.NewPostgres(dbConn), opts),
	}, nil
}

// NewHandler builds the routed API over services. m may be nil.
func NewHandler(cfg config.Config, services Services, m *metrics.Metrics, log logger.Logger, quiet bool) http.Handler {
	// Validate has already rejected unknown zones; a nil loc falls back to UTC.
	loc, _ := cfg.Summary.Location()

	handlers := handler.New(
		commonhandler.New(loc, log),
		projectshandler.New(services.Projects, log),
		teamshandler.New(services.Teams, log),
		timesheetshandler.New(services.Timesheets, services.Projects, services.Teams, log),
		summaryhandler.New(services.Summary, cfg.Summary.DefaultWeeks, log),
	)

	return httpserver.NewRouter(cfg, handlers, httpserver.RouterOptions{
		Metrics: m,
		OnWrite: services.Summary.Invalidate,
		Quiet:   quiet,
	}, log)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Services() Services {
	return a.services
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return db.Close(a.db)
}
