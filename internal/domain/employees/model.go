package employees

import (
	"strings"
	"time"

	"staff-console-go/internal/domain/teams"
)

// AvailableLabel is shown in place of a team name for employees that are not
// assigned to any team.
const AvailableLabel = "Available"

type Employee struct {
	ID            int64          `gorm:"primaryKey;autoIncrement"`
	FirstName     string         `gorm:"column:first_name;not null"`
	MiddleName    string         `gorm:"column:middle_name;not null"`
	LastName      string         `gorm:"column:last_name;not null"`
	DOB           time.Time      `gorm:"column:dob;type:date;not null"`
	Gender        string         `gorm:"column:gender;not null"`
	Address       string         `gorm:"column:address;not null"`
	Phone         string         `gorm:"column:phone;not null"`
	Email         string         `gorm:"column:email;not null"`
	JobPosition   string         `gorm:"column:job_position;not null"`
	TeamID        *int64         `gorm:"column:team"`
	Team          *teams.Summary `gorm:"foreignKey:TeamID"`
	StartAt       string         `gorm:"column:start_at;not null"`
	EndsIn        string         `gorm:"column:ends_in;not null"`
	BillableHours int            `gorm:"column:billable_hours;not null"`
	Avatar        string         `gorm:"column:avatar;not null"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

// FullName joins the non-empty name parts with single spaces.
func (e Employee) FullName() string {
	return JoinName(e.FirstName, e.MiddleName, e.LastName)
}

// TeamLabel is the team name, or AvailableLabel when there is none.
func (e Employee) TeamLabel() string {
	if e.Team == nil || e.TeamID == nil {
		return AvailableLabel
	}
	return e.Team.TeamName
}

// Option is the id/full name projection offered by the team members picker.
type Option struct {
	ID       int64
	FullName string
}

func JoinName(parts ...string) string {
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return strings.Join(names, " ")
}
