package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"staff-console-go/internal/domain/dashboard"
	"staff-console-go/internal/domain/employees"
	"staff-console-go/internal/domain/teams"
	"staff-console-go/internal/domain/validation"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func renderEmployees(out io.Writer, items []employees.Employee) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No employees found.")
		return
	}
	t := newTable("ID", "NAME", "JOB POSITION", "TEAM", "EMAIL", "PHONE", "HOURS")
	for _, e := range items {
		t.Row(
			strconv.FormatInt(e.ID, 10),
			e.FullName(),
			e.JobPosition,
			e.TeamLabel(),
			e.Email,
			e.Phone,
			strconv.Itoa(e.BillableHours),
		)
	}
	fmt.Fprintln(out, t)
}

func renderTeams(out io.Writer, items []teams.Team) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No teams found.")
		return
	}
	t := newTable("ID", "TEAM", "MEMBERS", "HOURS", "QR")
	for _, team := range items {
		qr := "-"
		if team.QRCode != nil {
			qr = "yes"
		}
		t.Row(
			strconv.FormatInt(team.ID, 10),
			team.TeamName,
			team.TeamMembers,
			strconv.Itoa(team.BillableHours),
			qr,
		)
	}
	fmt.Fprintln(out, t)
}

func renderDashboard(out io.Writer, summary dashboard.Summary) {
	t := newTable("EMPLOYEES", "TEAMS").
		Row(strconv.FormatInt(summary.Employees, 10), strconv.FormatInt(summary.Teams, 10))
	fmt.Fprintln(out, t)
}

// renderFieldErrors prints one line per field, sorted by field name.
func renderFieldErrors(out io.Writer, errs validation.Errors) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintln(out, errorStyle.Render(field+": "+errs[field]))
	}
}
