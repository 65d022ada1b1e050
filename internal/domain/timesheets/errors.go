package timesheets

import "errors"

var (
	ErrPlanNotFound = errors.New("time plan not found")
	ErrLogNotFound  = errors.New("time log not found")
)
