package handler

import (
	commonhandler "planner-go/internal/transport/httpserver/handler/common"
	projectshandler "planner-go/internal/transport/httpserver/handler/projects"
	summaryhandler "planner-go/internal/transport/httpserver/handler/summary"
	teamshandler "planner-go/internal/transport/httpserver/handler/teams"
	timesheetshandler "planner-go/internal/transport/httpserver/handler/timesheets"
)

type Handlers struct {
	Common     *commonhandler.Handlers
	Projects   *projectshandler.Handlers
	Teams      *teamshandler.Handlers
	Timesheets *timesheetshandler.Handlers
	Summary    *summaryhandler.Handlers
}

func New(
	common *commonhandler.Handlers,
	projects *projectshandler.Handlers,
	teams *teamshandler.Handlers,
	timesheets *timesheetshandler.Handlers,
	summary *summaryhandler.Handlers,
) *Handlers {
	return &Handlers{
		Common:     common,
		Projects:   projects,
		Teams:      teams,
		Timesheets: timesheets,
		Summary:    summary,
	}
}
