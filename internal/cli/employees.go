package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"staff-console-go/internal/console"
	"staff-console-go/internal/domain/avatars"
	"staff-console-go/internal/domain/employees"
	"staff-console-go/internal/domain/validation"
	"staff-console-go/internal/resultset"
)

type employeeFlags struct {
	avatar        string
	firstName     string
	middleName    string
	lastName      string
	dob           string
	gender        string
	address       string
	phone         string
	email         string
	jobPosition   string
	team          string
	startAt       string
	endsIn        string
	billable      bool
	billableHours string
}

func (f *employeeFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.avatar, "avatar", "", "Profile image file (jpg, png or webp, at most 1MB)")
	flags.StringVar(&f.firstName, "first-name", "", "First name")
	flags.StringVar(&f.middleName, "middle-name", "", "Middle name")
	flags.StringVar(&f.lastName, "last-name", "", "Last name")
	flags.StringVar(&f.dob, "dob", "", "Date of birth (YYYY-MM-DD)")
	flags.StringVar(&f.gender, "gender", "", "Gender (Male, Female, Others)")
	flags.StringVar(&f.address, "address", "", "Address")
	flags.StringVar(&f.phone, "phone", "", "Phone number")
	flags.StringVar(&f.email, "email", "", "Email address")
	flags.StringVar(&f.jobPosition, "job-position", "", "Job position")
	flags.StringVar(&f.team, "team", "", "Team id; empty for none")
	flags.StringVar(&f.startAt, "start-at", "", "Shift start (HH:MM AM/PM)")
	flags.StringVar(&f.endsIn, "ends-in", "", "Shift end (HH:MM AM/PM)")
	flags.BoolVar(&f.billable, "billable", true, "Whether the employee bills hours")
	flags.StringVar(&f.billableHours, "billable-hours", "", "Billable hours")
}

// apply copies the flags the operator set onto form.
func (f *employeeFlags) apply(cmd *cobra.Command, form *employees.Form) {
	changed := cmd.Flags().Changed
	set := func(name string, dst *string, value string) {
		if changed(name) {
			*dst = value
		}
	}
	set("first-name", &form.FirstName, f.firstName)
	set("middle-name", &form.MiddleName, f.middleName)
	set("last-name", &form.LastName, f.lastName)
	set("dob", &form.DOB, f.dob)
	set("gender", &form.Gender, f.gender)
	set("address", &form.Address, f.address)
	set("phone", &form.Phone, f.phone)
	set("email", &form.Email, f.email)
	set("job-position", &form.JobPosition, f.jobPosition)
	set("team", &form.Team, f.team)
	set("start-at", &form.StartAt, f.startAt)
	set("ends-in", &form.EndsIn, f.endsIn)
	set("billable-hours", &form.BillableHours, f.billableHours)
	if changed("billable") {
		form.Billable = f.billable
	}
}

func (s *session) employeesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"employee", "emp"},
		Short:   "List and edit employees",
	}
	cmd.AddCommand(s.employeesListCommand())
	cmd.AddCommand(s.employeesAddCommand())
	cmd.AddCommand(s.employeesEditCommand())
	cmd.AddCommand(s.employeesDeleteCommand())
	return cmd
}

func (s *session) employeeCache() *resultset.Cache[[]employees.Employee] {
	return resultset.New[[]employees.Employee](s.env.Store, resultset.EntityEmployees, s.env.CacheTTL, s.env.Log)
}

func (s *session) employeeList() *console.ListController[employees.Employee] {
	return console.NewListController(console.EmployeeSource(s.env.Employees), s.employeeCache(), s.env.Notify, s.env.Log, s.env.Hours)
}

func (s *session) employeeForm(slot *console.AvatarSlot) *console.FormController[employees.Form, *employees.Employee] {
	return console.NewFormController(console.EmployeeFormBinding(s.env.Employees, s.env.Clock), console.FormDeps{
		Cache:  s.employeeCache(),
		Notify: s.env.Notify,
		Router: s.router(),
		Log:    s.env.Log,
		Avatar: slot,
	})
}

func (s *session) employeesListCommand() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := s.employeeList()
			var err error
			if search == "" {
				err = list.Refresh(cmd.Context())
			} else {
				if err = list.Type(cmd.Context(), search); err == nil {
					err = list.Commit(cmd.Context())
				}
			}
			if err != nil {
				return err
			}
			renderEmployees(cmd.OutOrStdout(), list.Rows())
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match name, email, job position or phone")
	return cmd
}

func (s *session) employeesAddCommand() *cobra.Command {
	var flags employeeFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slot := console.NewAvatarSlot(s.env.Avatars, s.env.Notify)
			form := s.employeeForm(slot)

			if err := s.attachAvatar(cmd, slot, flags.avatar); err != nil {
				return err
			}
			form.Edit(func(f *employees.Form) { flags.apply(cmd, f) })
			return submitEmployee(cmd, form)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (s *session) employeesEditCommand() *cobra.Command {
	var flags employeeFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit an employee; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			slot := console.NewAvatarSlot(s.env.Avatars, s.env.Notify)
			form := s.employeeForm(slot)
			form.Navigate(&id)
			if err := form.Load(cmd.Context()); err != nil {
				if errors.Is(err, console.ErrNotFound) {
					return fmt.Errorf("employee %d not found", id)
				}
				return err
			}

			if err := s.attachAvatar(cmd, slot, flags.avatar); err != nil {
				return err
			}
			form.Edit(func(f *employees.Form) { flags.apply(cmd, f) })
			return submitEmployee(cmd, form)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (s *session) employeesDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return confirmDelete(cmd, s.employeeList(), id, "employee", yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// attachAvatar uploads the image at path, if any. Rejected images are left
// for the form to report next to the avatar field.
func (s *session) attachAvatar(cmd *cobra.Command, slot *console.AvatarSlot, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read avatar: %w", err)
	}
	err = slot.Attach(cmd.Context(), &avatars.File{Name: filepath.Base(path), Data: data})
	if err != nil && !avatars.IsFieldError(err) {
		return err
	}
	return nil
}

func submitEmployee(cmd *cobra.Command, form *console.FormController[employees.Form, *employees.Employee]) error {
	employee, err := form.Submit(cmd.Context())
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			renderFieldErrors(cmd.ErrOrStderr(), form.Errors())
			return ErrInvalidInput
		}
		if errors.Is(err, employees.ErrTeamNotFound) {
			renderFieldErrors(cmd.ErrOrStderr(), validation.Errors{employees.FieldTeam: "Invalid team"})
			return ErrInvalidInput
		}
		return err
	}
	renderEmployees(cmd.OutOrStdout(), []employees.Employee{*employee})
	return nil
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}
