// Package cli implements staffctl, the terminal front end for the staff
// records. Every command drives the same controllers as the web console.
package cli

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"staff-console-go/internal/console"
	"staff-console-go/internal/domain/dashboard"
	"staff-console-go/internal/domain/employees"
	"staff-console-go/internal/domain/teams"
	"staff-console-go/internal/notify"
	"staff-console-go/internal/resultset"
	"staff-console-go/pkg/logger"
)

// ErrInvalidInput is returned after field errors have been printed.
var ErrInvalidInput = errors.New("invalid input")

// Env is everything a command needs. Close is called once the command ends.
type Env struct {
	Employees *employees.Service
	Teams     *teams.Service
	Avatars   console.Uploader
	Dashboard *dashboard.Service
	Store     resultset.Store
	CacheTTL  time.Duration
	Notify    notify.Sink
	Clock     clockwork.Clock
	Hours     console.HoursRange
	Log       logger.Logger
	Close     func() error
}

// Opener builds the Env. Notifications for the operator go to out.
type Opener func(ctx context.Context, out io.Writer) (*Env, error)

type session struct {
	open Opener
	env  *Env
}

func NewRootCommand(open Opener) *cobra.Command {
	s := &session{open: open}

	root := &cobra.Command{
		Use:           "staffctl",
		Short:         "Manage employees and teams from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if s.env != nil {
				return nil
			}
			env, err := s.open(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			s.env = withDefaults(env)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if s.env == nil || s.env.Close == nil {
				return nil
			}
			err := s.env.Close()
			s.env = nil
			return err
		},
	}

	root.AddCommand(s.dashboardCommand())
	root.AddCommand(s.employeesCommand())
	root.AddCommand(s.teamsCommand())
	return root
}

func withDefaults(env *Env) *Env {
	if env.Store == nil {
		env.Store = resultset.Noop()
	}
	if env.Notify == nil {
		env.Notify = notify.Nop()
	}
	if env.Clock == nil {
		env.Clock = clockwork.NewRealClock()
	}
	if env.Log == nil {
		env.Log = logger.Nop()
	}
	return env
}

func (s *session) router() console.Router {
	return console.RouterFunc(func(path string) {
		s.env.Log.Debug("staffctl: navigate", "path", path)
	})
}

func (s *session) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show employee and team totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := s.env.Dashboard.Summary(cmd.Context())
			if err != nil {
				return err
			}
			renderDashboard(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}
