package summary

import (
	"fmt"
	"strconv"
	"time"
)

// Tech names that get their own column in the project summary.
const (
	TechBackEnd  = "Back-end"
	TechFrontEnd = "Front-end"
	TechMobile   = "Mobile"
	TechAnalysis = "Analysis"
)

const (
	KindProjects = "projects"
	KindTeams    = "teams"
)

type ProjectFilter struct {
	From     *time.Time
	To       *time.Time
	State    string
	Manager  string
	Project  string
	AllWeeks bool
}

type TeamFilter struct {
	From     *time.Time
	To       *time.Time
	Team     string
	AllWeeks bool
}

// ProjectRow identifies a project week to summarize.
type ProjectRow struct {
	ProjectID   string
	ProjectName string
	ManagerName string
	StateName   string
	Week        time.Time
}

// TeamRow identifies a team week to summarize. TechTeams counts the teams
// that share the team's tech.
type TeamRow struct {
	TeamID    string
	TeamName  string
	TechID    string
	TechName  string
	Week      time.Time
	TechTeams int64
}

type TechTotal struct {
	TechName string
	Hours    float64
}

// Totals holds logged and fact sums; nil means no rows matched.
type Totals struct {
	Time *float64
	Fact *float64
}

type MemberEntry struct {
	MemberID    string
	MemberName  string
	ProjectID   string
	ProjectName string
	Hours       float64
}

// Line renders the entry as "member(project) - Xh".
func (e MemberEntry) Line() string {
	return fmt.Sprintf("%s(%s) - %sh", e.MemberName, e.ProjectName, FormatHours(e.Hours))
}

type ProjectRef struct {
	ID   string
	Name string
}

type ProjectSummary struct {
	ProjectID    string
	ProjectName  string
	ManagerName  string
	StateName    string
	Week         time.Time
	BackEnd      *float64
	FrontEnd     *float64
	Mobile       *float64
	Analysis     *float64
	TotalPlanned *float64
	TotalLogged  *float64
	TotalFact    *float64
	Difference   float64
}

type TeamSummary struct {
	TeamID       string
	TeamName     string
	TechName     string
	Week         time.Time
	Members      []MemberEntry
	Projects     []ProjectRef
	TotalPlanned *float64
	TotalLogged  *float64
	TotalFact    *float64
	Difference   float64
	// SharedTech is set when other teams use the same tech, so TotalPlanned
	// covers all of them.
	SharedTech bool
}

// OrZero reads an optional sum, treating a missing value as zero.
func OrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
