package employees

import (
	"strconv"
	"strings"
	"time"

	"staff-console-go/internal/domain/validation"
)

const (
	FieldAvatar        = "avatar"
	FieldFirstName     = "first_name"
	FieldMiddleName    = "middle_name"
	FieldLastName      = "last_name"
	FieldDOB           = "dob"
	FieldGender        = "gender"
	FieldAddress       = "address"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldJobPosition   = "job_position"
	FieldTeam          = "team"
	FieldStartAt       = "start_at"
	FieldEndsIn        = "ends_in"
	FieldBillableHours = "billable_hours"

	msgInvalidTeam = "Invalid team"
)

// Genders lists the values offered by the gender picker. The field itself
// accepts any text.
var Genders = []string{"Male", "Female", "Others"}

// Form is the candidate employee as typed by an operator. Team is the
// selected team id as text ("" for none) and Avatar is the public URL of an
// already uploaded image.
type Form struct {
	Avatar        string
	FirstName     string
	MiddleName    string
	LastName      string
	DOB           string
	Gender        string
	Address       string
	Phone         string
	Email         string
	JobPosition   string
	Team          string
	StartAt       string
	EndsIn        string
	Billable      bool
	BillableHours string
}

// NewForm returns the blank create-mode form.
func NewForm() Form {
	return Form{Billable: true}
}

// formRules carries the validate tags for the employee fields. Text
// fields arrive trimmed.
type formRules struct {
	Avatar      string `json:"avatar" validate:"required"`
	FirstName   string `json:"first_name" validate:"required,min=2"`
	MiddleName  string `json:"middle_name" validate:"omitempty,min=2"`
	LastName    string `json:"last_name" validate:"required,min=2"`
	DOB         string `json:"dob" validate:"required,dob_date,dob_min,dob_past,adult"`
	Gender      string `json:"gender" validate:"required,min=2"`
	Address     string `json:"address" validate:"omitempty,min=2"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	Email       string `json:"email" validate:"required,email,email_domain"`
	JobPosition string `json:"job_position" validate:"required,min=2"`
	Team        string `json:"team" validate:"omitempty,record_id"`
	StartAt     string `json:"start_at" validate:"required,time12h"`
	EndsIn      string `json:"ends_in" validate:"required,time12h"`
}

var ruleMessages = map[string]string{
	FieldAvatar: validation.MsgAvatarRequired,
	FieldTeam:   msgInvalidTeam,
}

// Validate checks every field independently. Billable hours are only
// checked while the billable flag is set.
func (f Form) Validate(now time.Time) validation.Errors {
	errs := validation.Struct(now, formRules{
		Avatar:      strings.TrimSpace(f.Avatar),
		FirstName:   strings.TrimSpace(f.FirstName),
		MiddleName:  strings.TrimSpace(f.MiddleName),
		LastName:    strings.TrimSpace(f.LastName),
		DOB:         strings.TrimSpace(f.DOB),
		Gender:      strings.TrimSpace(f.Gender),
		Address:     strings.TrimSpace(f.Address),
		Phone:       f.Phone,
		Email:       strings.TrimSpace(f.Email),
		JobPosition: strings.TrimSpace(f.JobPosition),
		Team:        strings.TrimSpace(f.Team),
		StartAt:     f.StartAt,
		EndsIn:      f.EndsIn,
	}, ruleMessages)
	if f.Billable {
		errs.Check(FieldBillableHours, validation.Value(f.BillableHours, validation.RuleDigits))
	}
	return errs
}

// teamID is the selected team of a validated form, if any.
func (f Form) teamID() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(f.Team), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// toEmployee converts a validated form into the record to write.
func (f Form) toEmployee() Employee {
	dob, _ := validation.ParseDate(f.DOB)

	hours := 0
	if f.Billable {
		hours, _ = strconv.Atoi(f.BillableHours)
	}

	employee := Employee{
		FirstName:     strings.TrimSpace(f.FirstName),
		MiddleName:    strings.TrimSpace(f.MiddleName),
		LastName:      strings.TrimSpace(f.LastName),
		DOB:           dob,
		Gender:        strings.TrimSpace(f.Gender),
		Address:       strings.TrimSpace(f.Address),
		Phone:         strings.TrimSpace(f.Phone),
		Email:         strings.TrimSpace(f.Email),
		JobPosition:   strings.TrimSpace(f.JobPosition),
		StartAt:       f.StartAt,
		EndsIn:        f.EndsIn,
		BillableHours: hours,
		Avatar:        strings.TrimSpace(f.Avatar),
	}
	if id, ok := f.teamID(); ok {
		employee.TeamID = &id
	}
	return employee
}

// FormFromEmployee seeds an edit-mode form with a stored record.
func FormFromEmployee(e Employee) Form {
	form := Form{
		Avatar:        e.Avatar,
		FirstName:     e.FirstName,
		MiddleName:    e.MiddleName,
		LastName:      e.LastName,
		DOB:           e.DOB.Format("2006-01-02"),
		Gender:        e.Gender,
		Address:       e.Address,
		Phone:         e.Phone,
		Email:         e.Email,
		JobPosition:   e.JobPosition,
		StartAt:       e.StartAt,
		EndsIn:        e.EndsIn,
		Billable:      true,
		BillableHours: strconv.Itoa(e.BillableHours),
	}
	if e.TeamID != nil {
		form.Team = strconv.FormatInt(*e.TeamID, 10)
	}
	return form
}
