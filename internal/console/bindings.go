package console

import (
	"errors"

	"github.com/jonboulle/clockwork"
	"staff-console-go/internal/domain/employees"
	"staff-console-go/internal/domain/teams"
	"staff-console-go/internal/domain/validation"
	"staff-console-go/internal/resultset"
)

const (
	EmployeesPath = "/employees"
	TeamsPath     = "/"
)

func EmployeeFormBinding(svc *employees.Service, clock clockwork.Clock) FormBinding[employees.Form, *employees.Employee] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return FormBinding[employees.Form, *employees.Employee]{
		Entity:   resultset.EntityEmployees,
		ListPath: EmployeesPath,
		Messages: Messages{
			Created:      "Employee created successfully.",
			CreateFailed: "Oops! Something went wrong when adding employee",
			Updated:      "Updated successfully.",
			UpdateFailed: "Oops! Something went wrong",
		},
		Blank: employees.NewForm,
		FromRecord: func(e *employees.Employee) employees.Form {
			return employees.FormFromEmployee(*e)
		},
		Validate: func(f employees.Form) validation.Errors {
			return f.Validate(clock.Now())
		},
		RecordID:   func(e *employees.Employee) int64 { return e.ID },
		Get:        svc.GetByID,
		Create:     svc.Create,
		Update:     svc.Update,
		IsNotFound: func(err error) bool { return errors.Is(err, employees.ErrEmployeeNotFound) },

		AvatarField: employees.FieldAvatar,
		AvatarURL:   func(f employees.Form) string { return f.Avatar },
		WithAvatar: func(f employees.Form, url string) employees.Form {
			f.Avatar = url
			return f
		},
	}
}

func TeamFormBinding(svc *teams.Service) FormBinding[teams.Form, *teams.Team] {
	return FormBinding[teams.Form, *teams.Team]{
		Entity:   resultset.EntityTeams,
		ListPath: TeamsPath,
		Messages: Messages{
			Created:      "Team created successfully.",
			CreateFailed: "Oops! Something went wrong when adding team",
			Updated:      "Updated successfully.",
			UpdateFailed: "Oops! Something went wrong",
		},
		Blank: func() teams.Form { return teams.Form{} },
		FromRecord: func(t *teams.Team) teams.Form {
			return teams.FormFromTeam(*t)
		},
		Validate:   func(f teams.Form) validation.Errors { return f.Validate() },
		RecordID:   func(t *teams.Team) int64 { return t.ID },
		Get:        svc.GetByID,
		Create:     svc.Create,
		Update:     svc.Update,
		IsNotFound: func(err error) bool { return errors.Is(err, teams.ErrTeamNotFound) },
	}
}

func EmployeeSource(svc *employees.Service) Source[employees.Employee] {
	return Source[employees.Employee]{
		Entity: resultset.EntityEmployees,
		List:   svc.List,
		Search: svc.Search,
		Delete: svc.Delete,
	}
}

func TeamSource(svc *teams.Service) Source[teams.Team] {
	return Source[teams.Team]{
		Entity:        resultset.EntityTeams,
		List:          svc.List,
		Search:        svc.Search,
		SearchByRange: svc.SearchByRange,
		Delete:        svc.Delete,
	}
}
