package teams

import (
	"strconv"
	"strings"
	"time"

	"staff-console-go/internal/domain/validation"
)

const (
	FieldTeamName      = "team_name"
	FieldTeamPassword  = "team_password"
	FieldTeamMembers   = "team_members"
	FieldBillableHours = "billable_hours"
)

// Form is the candidate team as typed by an operator. Billable hours stay a
// string until validated so that "4O" or "-1" can be rejected with a field
// message instead of a decode error.
type Form struct {
	TeamName      string
	TeamPassword  string
	TeamMembers   string
	BillableHours string
}

type formRules struct {
	TeamName      string `json:"team_name" validate:"required,min=2"`
	TeamPassword  string `json:"team_password" validate:"required,min=2"`
	TeamMembers   string `json:"team_members" validate:"required,min=2"`
	BillableHours string `json:"billable_hours" validate:"required,digits"`
}

// Validate checks every field independently. The password is checked
// trimmed but stored as typed.
func (f Form) Validate() validation.Errors {
	return validation.Struct(time.Now(), formRules{
		TeamName:      strings.TrimSpace(f.TeamName),
		TeamPassword:  strings.TrimSpace(f.TeamPassword),
		TeamMembers:   strings.TrimSpace(f.TeamMembers),
		BillableHours: f.BillableHours,
	}, nil)
}

// QRPayload derives the QR payload from the values currently in the form.
func (f Form) QRPayload() (string, bool) {
	return QRPayload(f.TeamName, f.TeamPassword)
}

func FormFromTeam(team Team) Form {
	return Form{
		TeamName:      team.TeamName,
		TeamPassword:  team.TeamPassword,
		TeamMembers:   team.TeamMembers,
		BillableHours: strconv.Itoa(team.BillableHours),
	}
}
