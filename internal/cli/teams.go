package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"staff-console-go/internal/console"
	"staff-console-go/internal/domain/teams"
	"staff-console-go/internal/domain/validation"
	"staff-console-go/internal/qrcode"
	"staff-console-go/internal/resultset"
)

type teamFlags struct {
	name          string
	password      string
	members       string
	billableHours string
}

func (f *teamFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "Team name")
	flags.StringVar(&f.password, "password", "", "Team password, embedded in the QR code")
	flags.StringVar(&f.members, "members", "", "Team members")
	flags.StringVar(&f.billableHours, "billable-hours", "", "Billable hours")
}

func (f *teamFlags) apply(cmd *cobra.Command, form *teams.Form) {
	changed := cmd.Flags().Changed
	if changed("name") {
		form.TeamName = f.name
	}
	if changed("password") {
		form.TeamPassword = f.password
	}
	if changed("members") {
		form.TeamMembers = f.members
	}
	if changed("billable-hours") {
		form.BillableHours = f.billableHours
	}
}

func (s *session) teamsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teams",
		Aliases: []string{"team"},
		Short:   "List and edit teams",
	}
	cmd.AddCommand(s.teamsListCommand())
	cmd.AddCommand(s.teamsAddCommand())
	cmd.AddCommand(s.teamsEditCommand())
	cmd.AddCommand(s.teamsDeleteCommand())
	cmd.AddCommand(s.teamsQRCommand())
	return cmd
}

func (s *session) teamCache() *resultset.Cache[[]teams.Team] {
	return resultset.New[[]teams.Team](s.env.Store, resultset.EntityTeams, s.env.CacheTTL, s.env.Log)
}

func (s *session) teamList() *console.ListController[teams.Team] {
	return console.NewListController(console.TeamSource(s.env.Teams), s.teamCache(), s.env.Notify, s.env.Log, s.env.Hours)
}

func (s *session) teamForm() *console.FormController[teams.Form, *teams.Team] {
	return console.NewFormController(console.TeamFormBinding(s.env.Teams), console.FormDeps{
		Cache:  s.teamCache(),
		Notify: s.env.Notify,
		Router: s.router(),
		Log:    s.env.Log,
	})
}

func (s *session) teamsListCommand() *cobra.Command {
	var (
		search   string
		maxHours int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List teams, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := s.teamList()
			var err error
			switch {
			case cmd.Flags().Changed("max-hours"):
				err = list.ApplyRange(cmd.Context(), maxHours)
			case search != "":
				if err = list.Type(cmd.Context(), search); err == nil {
					err = list.Commit(cmd.Context())
				}
			default:
				err = list.Refresh(cmd.Context())
			}
			if err != nil {
				return err
			}
			if limit, ok := list.MaxHours(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Billable hours up to %d\n", limit)
			}
			renderTeams(cmd.OutOrStdout(), list.Rows())
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match team name")
	cmd.Flags().IntVar(&maxHours, "max-hours", 0, "Only teams billing at most this many hours")
	return cmd
}

func (s *session) teamsAddCommand() *cobra.Command {
	var flags teamFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := s.teamForm()
			form.Edit(func(f *teams.Form) { flags.apply(cmd, f) })
			return submitTeam(cmd, form)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (s *session) teamsEditCommand() *cobra.Command {
	var flags teamFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a team; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			form := s.teamForm()
			form.Navigate(&id)
			if err := form.Load(cmd.Context()); err != nil {
				if errors.Is(err, console.ErrNotFound) {
					return fmt.Errorf("team %d not found", id)
				}
				return err
			}
			form.Edit(func(f *teams.Form) { flags.apply(cmd, f) })
			return submitTeam(cmd, form)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (s *session) teamsDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a team; its employees become available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return confirmDelete(cmd, s.teamList(), id, "team", yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (s *session) teamsQRCommand() *cobra.Command {
	var (
		outDir    string
		printPage bool
	)
	cmd := &cobra.Command{
		Use:   "qr ID",
		Short: "Write a team's QR code as PNG, or as a printable page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			team, err := s.env.Teams.GetByID(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, teams.ErrTeamNotFound) {
					return fmt.Errorf("team %d not found", id)
				}
				return err
			}

			payload, ok := teams.QRPayload(team.TeamName, team.TeamPassword)
			if !ok {
				return qrcode.ErrEmptyPayload
			}
			png, err := qrcode.PNG(payload)
			if err != nil {
				return err
			}

			name := filepath.Base(teams.QRFilename(team.TeamName))
			data := png
			if printPage {
				if data, err = qrcode.PrintPage(team.TeamName, png); err != nil {
					return err
				}
				name = strings.TrimSuffix(name, ".png") + ".html"
			}

			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write qr code: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write into")
	cmd.Flags().BoolVar(&printPage, "print", false, "Write an HTML page that opens the print dialog")
	return cmd
}

func submitTeam(cmd *cobra.Command, form *console.FormController[teams.Form, *teams.Team]) error {
	_, hasQR := form.Form().QRPayload()
	team, err := form.Submit(cmd.Context())
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			renderFieldErrors(cmd.ErrOrStderr(), form.Errors())
			return ErrInvalidInput
		}
		return err
	}
	renderTeams(cmd.OutOrStdout(), []teams.Team{*team})
	if hasQR {
		fmt.Fprintf(cmd.OutOrStdout(), "QR code ready: staffctl teams qr %d\n", team.ID)
	}
	return nil
}

// confirmDelete runs the list's delete confirmation, asking on stdin unless
// yes is set.
func confirmDelete[T any](cmd *cobra.Command, list *console.ListController[T], id int64, what string, yes bool) error {
	if err := list.RequestDelete(id); err != nil {
		return err
	}

	if !yes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete %s %d? [y/N] ", what, id)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			if err := list.CancelDelete(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}
	return list.ConfirmDelete(cmd.Context())
}
