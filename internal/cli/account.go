package cli

import (
	"fmt"
	"neonfit/studio-tracker/internal/domain"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (r *runner) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.session(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			session, err := app.Studio.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Logged in as %s (%s)\n", color.New(color.FgCyan, color.Bold).Sprint(session.Username), session.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.MarkFlagRequired("password")
	return cmd
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.session(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Studio.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (r *runner) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.session(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			s := app.Studio.Session()
			if s == nil {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			fmt.Fprintf(out, "%s (%s)", s.Username, s.Role)
			if s.MemberID != "" {
				fmt.Fprintf(out, " linked to member %s", s.MemberID)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// usersCmd is store tooling: it needs the store credentials, not a login.
func (r *runner) usersCmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage logins",
	}

	var password, role, memberID string
	createCmd := &cobra.Command{
		Use:   "create [username]",
		Short: "Create a login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.open(cmd.Context(), r.configDir)
			if err != nil {
				return err
			}
			defer app.Close()

			var linked *string
			if memberID != "" {
				linked = &memberID
			}
			user, err := app.Studio.CreateUser(cmd.Context(), args[0], password, domain.Role(role), linked)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Created %s login %s (%s)\n", user.Role, user.Username, user.ID)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	createCmd.Flags().StringVarP(&role, "role", "r", string(domain.RoleMember), "admin or member")
	createCmd.Flags().StringVar(&memberID, "link", "", "Member id a member login may view")
	createCmd.MarkFlagRequired("password")

	usersCmd.AddCommand(createCmd)
	return usersCmd
}
