package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"planner-go/internal/config"
	"planner-go/internal/metrics"
	"planner-go/internal/transport/httpserver/handler"
	plannermw "planner-go/internal/transport/httpserver/middleware"
	"planner-go/pkg/logger"
)

type RouterOptions struct {
	Metrics *metrics.Metrics
	// OnWrite runs after every successful write request.
	OnWrite func()
	// Quiet turns off per-request access logging.
	Quiet bool
}

func NewRouter(cfg config.Config, handlers *handler.Handlers, opts RouterOptions, log logger.Logger) http.Handler {
	timeout := cfg.HTTP.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if !opts.Quiet {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(chimw.Timeout(timeout))
	r.Use(plannermw.NewCORS(cfg.HTTP.AllowedOrigins))

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		auth := plannermw.NewTokenAuth(cfg.HTTP.AdminToken, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)
			if opts.OnWrite != nil {
				r.Use(plannermw.InvalidateOnWrite(opts.OnWrite))
			}

			r.Get("/weeks", handlers.Common.Weeks)

			r.Get("/project-managers", handlers.Projects.ListManagers)
			r.Post("/project-managers", handlers.Projects.CreateManager)
			r.Patch("/project-managers/{id}", handlers.Projects.UpdateManager)
			r.Delete("/project-managers/{id}", handlers.Projects.DeleteManager)

			r.Get("/project-states", handlers.Projects.ListStates)
			r.Post("/project-states", handlers.Projects.CreateState)
			r.Patch("/project-states/{id}", handlers.Projects.UpdateState)
			r.Delete("/project-states/{id}", handlers.Projects.DeleteState)

			r.Get("/projects", handlers.Projects.ListProjects)
			r.Post("/projects", handlers.Projects.CreateProject)
			r.Get("/projects/{id}", handlers.Projects.GetProject)
			r.Patch("/projects/{id}", handlers.Projects.UpdateProject)
			r.Delete("/projects/{id}", handlers.Projects.DeleteProject)
			r.Get("/projects/{id}/time-plans", handlers.Timesheets.ListProjectPlans)

			r.Get("/techs", handlers.Teams.ListTechs)
			r.Post("/techs", handlers.Teams.CreateTech)
			r.Patch("/techs/{id}", handlers.Teams.UpdateTech)
			r.Delete("/techs/{id}", handlers.Teams.DeleteTech)

			r.Get("/teams", handlers.Teams.ListTeams)
			r.Post("/teams", handlers.Teams.CreateTeam)
			r.Get("/teams/{id}", handlers.Teams.GetTeam)
			r.Patch("/teams/{id}", handlers.Teams.UpdateTeam)
			r.Delete("/teams/{id}", handlers.Teams.DeleteTeam)

			r.Get("/team-members", handlers.Teams.ListMembers)
			r.Post("/team-members", handlers.Teams.CreateMember)
			r.Get("/team-members/{id}", handlers.Teams.GetMember)
			r.Patch("/team-members/{id}", handlers.Teams.UpdateMember)
			r.Delete("/team-members/{id}", handlers.Teams.DeleteMember)
			r.Get("/team-members/{id}/time-logs", handlers.Timesheets.ListMemberLogs)

			r.Get("/time-plans", handlers.Timesheets.ListPlans)
			r.Post("/time-plans", handlers.Timesheets.CreatePlan)
			r.Put("/time-plans/{id}", handlers.Timesheets.UpdatePlan)
			r.Delete("/time-plans/{id}", handlers.Timesheets.DeletePlan)

			r.Get("/time-logs", handlers.Timesheets.ListLogs)
			r.Post("/time-logs", handlers.Timesheets.CreateLog)
			r.Put("/time-logs/{id}", handlers.Timesheets.UpdateLog)
			r.Delete("/time-logs/{id}", handlers.Timesheets.DeleteLog)

			r.Get("/summaries/projects", handlers.Summary.ListProjects)
			r.Get("/summaries/projects/{project_id}/{week}", handlers.Summary.ProjectSummary)
			r.Get("/summaries/teams", handlers.Summary.ListTeams)
			r.Get("/summaries/teams/{team_id}/{week}", handlers.Summary.TeamSummary)
		})
	})

	return r
}
