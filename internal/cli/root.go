// Package cli implements the studioctl command line client.
package cli

import (
	"errors"
	"fmt"
	"neonfit/studio-tracker/internal/studio"

	"github.com/spf13/cobra"
)

var ErrAdminOnly = errors.New("this action requires an admin login")

type runner struct {
	open      Opener
	configDir string
	memberRef string
}

// NewRootCmd builds the command tree. open is called once per command.
func NewRootCmd(open Opener) *cobra.Command {
	r := &runner{open: open}

	rootCmd := &cobra.Command{
		Use:           "studioctl",
		Short:         "Track studio members, their workouts and progress",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&r.configDir, "config", ".", "Directory holding config.yaml")
	rootCmd.PersistentFlags().StringVarP(&r.memberRef, "member", "m", "", "Member id or name to act on (defaults to the first loaded member)")

	rootCmd.AddCommand(
		r.loginCmd(),
		r.logoutCmd(),
		r.whoamiCmd(),
		r.usersCmd(),
		r.membersCmd(),
		r.workoutsCmd(),
		r.sessionCmd(),
		r.historyCmd(),
		r.statsCmd(),
		r.chartCmd(),
		r.calendarCmd(),
		r.exportCmd(),
		r.adviseCmd(),
		r.photoCmd(),
		r.seedCmd(),
	)
	return rootCmd
}

// Execute runs studioctl against the configured store.
func Execute() error {
	return NewRootCmd(OpenFromConfig).Execute()
}

// session opens the app and restores a saved login, if any.
func (r *runner) session(cmd *cobra.Command) (*App, error) {
	app, err := r.open(cmd.Context(), r.configDir)
	if err != nil {
		return nil, err
	}
	if _, err := app.Studio.Restore(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// loaded is session plus a required login, loaded members and the --member selection.
func (r *runner) loaded(cmd *cobra.Command) (*App, error) {
	app, err := r.session(cmd)
	if err != nil {
		return nil, err
	}
	if !app.Studio.LoggedIn() {
		app.Close()
		return nil, fmt.Errorf("%w: run `studioctl login` first", studio.ErrNotLoggedIn)
	}
	if err := app.Studio.Load(cmd.Context()); err != nil {
		app.Close()
		return nil, err
	}
	if r.memberRef != "" {
		if err := app.Studio.Select(r.memberRef); err != nil {
			app.Close()
			return nil, err
		}
	}
	return app, nil
}

func (r *runner) admin(cmd *cobra.Command) (*App, *studio.AdminActions, error) {
	app, err := r.loaded(cmd)
	if err != nil {
		return nil, nil, err
	}
	admin := app.Studio.Admin()
	if admin == nil {
		app.Close()
		return nil, nil, ErrAdminOnly
	}
	return app, admin, nil
}
