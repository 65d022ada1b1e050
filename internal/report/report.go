// Package report renders summaries and week choices as terminal tables.
package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"planner-go/internal/domain/summary"
	"planner-go/internal/domain/week"
)

// Missing is printed for sums with no underlying rows.
const Missing = "-"

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func Projects(rows []summary.ProjectSummary) string {
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{
			row.ProjectName,
			row.ManagerName,
			row.StateName,
			week.Format(row.Week),
			optional(row.BackEnd),
			optional(row.FrontEnd),
			optional(row.Mobile),
			optional(row.Analysis),
			optional(row.TotalPlanned),
			optional(row.TotalLogged),
			optional(row.TotalFact),
			summary.FormatHours(row.Difference),
		})
	}

	return render([]string{
		"Project", "Manager", "State", "Week",
		summary.TechBackEnd, summary.TechFrontEnd, summary.TechMobile, summary.TechAnalysis,
		"Planned", "Logged", "Fact", "Difference",
	}, data)
}

func Teams(rows []summary.TeamSummary) string {
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		tech := row.TechName
		if row.SharedTech {
			tech += " (shared)"
		}

		members := make([]string, 0, len(row.Members))
		for _, entry := range row.Members {
			members = append(members, entry.Line())
		}
		projects := make([]string, 0, len(row.Projects))
		for _, project := range row.Projects {
			projects = append(projects, project.Name)
		}

		data = append(data, []string{
			row.TeamName,
			tech,
			week.Format(row.Week),
			orMissing(strings.Join(members, "\n")),
			orMissing(strings.Join(projects, ", ")),
			optional(row.TotalPlanned),
			optional(row.TotalLogged),
			optional(row.TotalFact),
			summary.FormatHours(row.Difference),
		})
	}

	return render([]string{
		"Team", "Tech", "Week", "Members", "Projects",
		"Planned", "Logged", "Fact", "Difference",
	}, data)
}

func Weeks(choices []week.Choice) string {
	data := make([][]string, 0, len(choices))
	for _, choice := range choices {
		data = append(data, []string{choice.Label})
	}
	return render([]string{"Week"}, data)
}

func render(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return t.Render()
}

func optional(value *float64) string {
	if value == nil {
		return Missing
	}
	return summary.FormatHours(*value)
}

func orMissing(value string) string {
	if value == "" {
		return Missing
	}
	return value
}
