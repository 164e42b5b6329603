package cli

import (
	"fmt"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (r *runner) membersCmd() *cobra.Command {
	membersCmd := &cobra.Command{
		Use:   "members",
		Short: "List and manage members",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the members visible to this login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.loaded(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			members := app.Studio.Members()
			if len(members) == 0 {
				fmt.Fprintln(out, "No members")
				return nil
			}
			bold := color.New(color.Bold).SprintFunc()
			green := color.New(color.FgGreen).SprintFunc()
			selected := app.Studio.Selected()
			for _, m := range members {
				marker := " "
				if selected != nil && selected.ID == m.ID {
					marker = green("›")
				}
				fmt.Fprintf(out, "%s %s  %s  joined %s  %d workouts\n", marker, bold(m.Name), m.ID, m.JoinDate, len(m.Workouts))
			}
			return nil
		},
	}

	var joinDate, avatar string
	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, admin, err := r.admin(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			m, err := admin.AddMember(cmd.Context(), args[0], domain.MemberOptions{JoinDate: joinDate, Avatar: avatar})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Added %s (%s), joined %s\n", m.Name, m.ID, m.JoinDate)
			return nil
		},
	}
	addCmd.Flags().StringVar(&joinDate, "join-date", "", "Join date (YYYY-MM-DD), defaults to today")
	addCmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL, defaults to a generated one")

	deleteCmd := &cobra.Command{
		Use:   "delete [id|name]",
		Short: "Delete a member and all of its workouts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, admin, err := r.admin(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := admin.DeleteMember(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑  Deleted %s\n", args[0])
			return nil
		},
	}

	membersCmd.AddCommand(listCmd, addCmd, deleteCmd)
	return membersCmd
}

func (r *runner) photoCmd() *cobra.Command {
	photoCmd := &cobra.Command{
		Use:   "photo",
		Short: "Progress photo of the selected member",
	}

	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print a viewable URL of the photo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.loaded(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			url, err := app.Studio.PhotoURL(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set [object-key|url]",
		Short: "Store a photo reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, admin, err := r.admin(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := admin.SetPhoto(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Photo updated")
			return nil
		},
	}

	uploadCmd := &cobra.Command{
		Use:   "upload-url [content-type]",
		Short: "Print a presigned upload URL and the object key to set afterwards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, admin, err := r.admin(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			upload, err := admin.PhotoUploadURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "PUT %s\n", upload.UploadURL)
			fmt.Fprintf(out, "then: studioctl photo set %s\n", upload.ObjectKey)
			return nil
		},
	}

	photoCmd.AddCommand(urlCmd, setCmd, uploadCmd)
	return photoCmd
}

func (r *runner) seedCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import demo members into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, admin, err := r.admin(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			result, err := admin.Seed(cmd.Context())
			if err != nil {
				fmt.Fprintln(out, color.RedString(service.SeedFailureMessage(advisor.ParseLanguage(lang))))
				return err
			}
			if result.Skipped {
				fmt.Fprintf(out, "Demo data skipped: %s\n", result.Reason)
				return nil
			}
			fmt.Fprintf(out, "✅ Imported %d demo members\n", result.Inserted)
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "Message language (en or zh)")
	return cmd
}
