package teams

import (
	teamsdomain "planner-go/internal/domain/teams"
	"planner-go/pkg/logger"
)

type Handlers struct {
	Teams *teamsdomain.Service
	log   logger.Logger
}

func New(teams *teamsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Teams: teams,
		log:   log,
	}
}
