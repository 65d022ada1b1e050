package timesheets

import "time"

// TimePlan is the number of hours planned for one tech on a project in a week.
type TimePlan struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProjectID string    `gorm:"type:uuid;not null;uniqueIndex:time_plans_project_tech_week"`
	TechID    string    `gorm:"type:uuid;not null;uniqueIndex:time_plans_project_tech_week"`
	Week      time.Time `gorm:"type:date;not null;uniqueIndex:time_plans_project_tech_week"`
	Time      float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TimeLog is what a member reported for a project in a week. Time is the
// logged figure, Fact the hours actually worked.
type TimeLog struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProjectID string    `gorm:"type:uuid;not null;uniqueIndex:time_logs_project_member_week"`
	MemberID  string    `gorm:"type:uuid;not null;uniqueIndex:time_logs_project_member_week"`
	Week      time.Time `gorm:"type:date;not null;uniqueIndex:time_logs_project_member_week"`
	Time      float64   `gorm:"not null"`
	Fact      float64   `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type PlanDetails struct {
	TimePlan
	ProjectName string
	TechName    string
}

type LogDetails struct {
	TimeLog
	ProjectName string
	MemberName  string
	TeamName    string
}

type PlanFilter struct {
	From      *time.Time
	To        *time.Time
	ProjectID string
	TechID    string
}

type LogFilter struct {
	From      *time.Time
	To        *time.Time
	ProjectID string
	TeamID    string
	MemberID  string
}

type PlanInput struct {
	ProjectID string
	TechID    string
	Week      time.Time
	Time      float64
}

type LogInput struct {
	ProjectID string
	MemberID  string
	Week      time.Time
	Time      float64
	// Fact defaults to 0 when nil.
	Fact *float64
}
