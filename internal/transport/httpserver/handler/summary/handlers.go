package summary

import (
	summarydomain "planner-go/internal/domain/summary"
	"planner-go/pkg/logger"
)

type Handlers struct {
	Summary      *summarydomain.Service
	defaultWeeks string
	log          logger.Logger
}

// New builds the summary handlers. defaultWeeks is the listing mode used
// when a request omits weeks.
func New(summary *summarydomain.Service, defaultWeeks string, log logger.Logger) *Handlers {
	return &Handlers{
		Summary:      summary,
		defaultWeeks: defaultWeeks,
		log:          log,
	}
}
