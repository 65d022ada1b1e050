package common

import (
	"net/http"
	"time"

	"planner-go/internal/domain/week"
	"planner-go/pkg/logger"
)

type Handlers struct {
	loc *time.Location
	now func() time.Time
	log logger.Logger
}

// New builds the health and week-choice handlers. loc decides which Monday
// is marked as this week.
func New(loc *time.Location, log logger.Logger) *Handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{
		loc: loc,
		now: time.Now,
		log: log,
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

type weekChoiceResponse struct {
	Week   string `json:"week"`
	Number int    `json:"number"`
	Marker string `json:"marker,omitempty"`
	Label  string `json:"label"`
}

type weeksResponse struct {
	Current string               `json:"current"`
	Items   []weekChoiceResponse `json:"items"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *Handlers) Weeks(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	choices := week.Choices(now, h.loc)

	items := make([]weekChoiceResponse, 0, len(choices))
	for _, choice := range choices {
		items = append(items, weekChoiceResponse{
			Week:   week.Format(choice.Week),
			Number: choice.Number,
			Marker: choice.Marker,
			Label:  choice.Label,
		})
	}

	writeJSON(w, http.StatusOK, weeksResponse{
		Current: week.Format(week.Current(now, h.loc)),
		Items:   items,
	})
}
