package timesheets

import (
	projectsdomain "planner-go/internal/domain/projects"
	teamsdomain "planner-go/internal/domain/teams"
	timesheetsdomain "planner-go/internal/domain/timesheets"
	"planner-go/pkg/logger"
)

type Handlers struct {
	Timesheets *timesheetsdomain.Service
	Projects   *projectsdomain.Service
	Teams      *teamsdomain.Service
	log        logger.Logger
}

func New(timesheets *timesheetsdomain.Service, projects *projectsdomain.Service, teams *teamsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Timesheets: timesheets,
		Projects:   projects,
		Teams:      teams,
		log:        log,
	}
}
