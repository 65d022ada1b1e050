// Package week normalizes calendar dates to the Monday-based planning week.
package week

import (
	"fmt"
	"strings"
	"time"

	"planner-go/internal/domain/constraint"
)

const Layout = "2006-01-02"

const (
	MarkerPrev = "prev"
	MarkerThis = "this"
	MarkerNext = "next"
)

// Start returns the Monday of the week containing t, as a UTC date.
func Start(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Current returns the Monday of the week containing now, evaluated in loc.
func Current(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Start(now.In(loc))
}

func IsMonday(t time.Time) bool {
	return t.Weekday() == time.Monday
}

// Validate rejects any date that is not a Monday.
func Validate(t time.Time) error {
	if !IsMonday(t) {
		return constraint.Field("week", constraint.ErrInvalidWeekday)
	}
	return nil
}

// Date drops the clock part so stored weeks compare equal.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("week is required")
	}
	return time.Parse(Layout, value)
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

type Choice struct {
	Week   time.Time
	Number int
	Marker string
	Label  string
}

// Choices lists every Monday of now's year, numbered from 1, marking the
// weeks around the current one.
func Choices(now time.Time, loc *time.Location) []Choice {
	if loc == nil {
		loc = time.UTC
	}
	current := Current(now, loc)
	year := now.In(loc).Year()

	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !IsMonday(first) {
		first = Start(first).AddDate(0, 0, 7)
	}

	choices := make([]Choice, 0, 53)
	for monday := first; monday.Year() == year; monday = monday.AddDate(0, 0, 7) {
		number := len(choices) + 1
		marker := markerFor(monday, current)

		label := fmt.Sprintf("%s  #%d", Format(monday), number)
		if marker != "" {
			label += " (" + marker + ")"
		}

		choices = append(choices, Choice{
			Week:   monday,
			Number: number,
			Marker: marker,
			Label:  label,
		})
	}

	return choices
}

func markerFor(monday, current time.Time) string {
	switch {
	case monday.Equal(current.AddDate(0, 0, -7)):
		return MarkerPrev
	case monday.Equal(current):
		return MarkerThis
	case monday.Equal(current.AddDate(0, 0, 7)):
		return MarkerNext
	default:
		return ""
	}
}
