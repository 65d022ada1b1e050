package projects

import (
	projectsdomain "planner-go/internal/domain/projects"
	"planner-go/pkg/logger"
)

type Handlers struct {
	Projects *projectsdomain.Service
	log      logger.Logger
}

func New(projects *projectsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Projects: projects,
		log:      log,
	}
}
