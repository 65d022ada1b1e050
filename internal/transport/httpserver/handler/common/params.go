package common

import (
	"fmt"
	"strings"
	"time"

	"planner-go/internal/config"
	"planner-go/internal/domain/week"
)

func ParseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(week.Layout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// ParseWeek reads a required YYYY-MM-DD date. Whether it is a Monday is left
// to the services.
func ParseWeek(value string) (time.Time, error) {
	return week.Parse(value)
}

// ParseWeeksMode resolves the weeks=latest|all switch of summary listings.
func ParseWeeksMode(value, fallback string) (bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		value = fallback
	}
	switch value {
	case config.WeeksLatest:
		return false, nil
	case config.WeeksAll:
		return true, nil
	default:
		return false, fmt.Errorf("weeks must be %q or %q", config.WeeksLatest, config.WeeksAll)
	}
}
