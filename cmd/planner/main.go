package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"planner-go/internal/app"
	"planner-go/internal/config"
	"planner-go/internal/db"
	summarydomain "planner-go/internal/domain/summary"
	"planner-go/internal/domain/week"
	"planner-go/internal/report"
	"planner-go/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "planner",
	Short:         "Project time planning and logging admin",
	Long:          `Planner keeps weekly time plans and time logs for projects and teams and reports planned against logged hours.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "up"
		if len(args) == 1 {
			action = args[0]
		}
		steps, _ := cmd.Flags().GetInt("steps")
		return runMigrate(action, steps)
	},
}

var weeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "Print the Mondays of the current year",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		loc, err := cfg.Summary.Location()
		if err != nil {
			return err
		}
		fmt.Println(report.Weeks(week.Choices(time.Now(), loc)))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print weekly summaries",
}

var reportProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Planned against logged hours per project and week",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := rangeFlags(cmd)
		if err != nil {
			return err
		}
		filter := summarydomain.ProjectFilter{From: from, To: to}
		filter.State, _ = cmd.Flags().GetString("state")
		filter.Manager, _ = cmd.Flags().GetString("manager")
		filter.Project, _ = cmd.Flags().GetString("project")
		filter.AllWeeks, _ = cmd.Flags().GetBool("all-weeks")

		return withServices(func(ctx context.Context, services app.Services) error {
			rows, err := services.Summary.ListProjects(ctx, filter)
			if err != nil {
				return err
			}
			fmt.Println(report.Projects(rows))
			return nil
		})
	},
}

var reportTeamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Logged hours per team and week",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := rangeFlags(cmd)
		if err != nil {
			return err
		}
		filter := summarydomain.TeamFilter{From: from, To: to}
		filter.Team, _ = cmd.Flags().GetString("team")
		filter.AllWeeks, _ = cmd.Flags().GetBool("all-weeks")

		return withServices(func(ctx context.Context, services app.Services) error {
			rows, err := services.Summary.ListTeams(ctx, filter)
			if err != nil {
				return err
			}
			fmt.Println(report.Teams(rows))
			return nil
		})
	},
}

func init() {
	migrateCmd.Flags().Int("steps", 1, "Number of migrations to roll back (0 rolls back all)")

	for _, cmd := range []*cobra.Command{reportProjectsCmd, reportTeamsCmd} {
		cmd.Flags().String("from", "", "First week to include (YYYY-MM-DD)")
		cmd.Flags().String("to", "", "Last week to include (YYYY-MM-DD)")
		cmd.Flags().Bool("all-weeks", false, "List every week instead of the latest one")
	}
	reportProjectsCmd.Flags().String("state", "", "Only projects in this state")
	reportProjectsCmd.Flags().String("manager", "", "Only projects of this manager")
	reportProjectsCmd.Flags().String("project", "", "Only this project")
	reportTeamsCmd.Flags().String("team", "", "Only this team")

	reportCmd.AddCommand(reportProjectsCmd)
	reportCmd.AddCommand(reportTeamsCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(weeksCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, logger.Logger, error) {
	bootLog := logger.NewFromEnv()
	cfg, err := config.Load(bootLog)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger.NewWithOptions(cfg.Log.Options(cfg.Env)), nil
}

func serve() error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info("app: starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, log)
	if err != nil {
		log.Critical("app: init failed", "err", err)
		return err
	}

	srv := application.HTTPServer()
	log.Info("http: listening", "addr", srv.Addr)

	serverErrCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var failure error
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			failure = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		failure = errors.Join(failure, err)
	}

	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		failure = errors.Join(failure, err)
	}

	if failure == nil {
		log.Info("app: stopped")
	}
	return failure
}

func runMigrate(action string, steps int) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	defer db.Close(dbConn)

	migrator, err := db.NewMigrator(dbConn, cfg.DB)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch action {
	case "up":
		if err := migrator.Up(); err != nil {
			return err
		}
		log.Info("migrate: applied")
	case "down":
		if err := migrator.Down(steps); err != nil {
			return err
		}
		log.Info("migrate: rolled back", "steps", steps)
	}

	status, err := migrator.Status()
	if err != nil {
		return err
	}
	fmt.Printf("version %d of %d, dirty=%t, pending=%t\n",
		status.CurrentVersion, status.LatestVersion, status.Dirty, status.Pending)
	return nil
}

func withServices(fn func(ctx context.Context, services app.Services) error) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	dbConn, err := app.Open(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close(dbConn)

	services, err := app.NewServices(dbConn, cfg, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, services)
}

func rangeFlags(cmd *cobra.Command) (*time.Time, *time.Time, error) {
	var bounds [2]*time.Time
	for i, name := range []string{"from", "to"} {
		value, _ := cmd.Flags().GetString(name)
		if value == "" {
			continue
		}
		parsed, err := week.Parse(value)
		if err != nil {
			return nil, nil, fmt.Errorf("--%s: %w", name, err)
		}
		bounds[i] = &parsed
	}
	return bounds[0], bounds[1], nil
}
