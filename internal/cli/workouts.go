package cli

import (
	"errors"
	"fmt"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/studio"

	"github.com/spf13/cobra"
)

func (r *runner) workoutsCmd() *cobra.Command {
	workoutsCmd := &cobra.Command{
		Use:   "workouts",
		Short: "Record and edit workouts of the selected member",
	}

	var addDate string
	addCmd := &cobra.Command{
		Use:     "add [Exercise:weight:sets:reps]...",
		Short:   "Record one or more workouts",
		Example: `  studioctl workouts add -m "Alice Chen" --date 2024-01-08 "Squat:55:3:8" "Bench Press:40:3:10"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := parseEntries(args, addDate)
			if err != nil {
				return err
			}

			app, admin, err := r.admin(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			created, err := admin.AddWorkouts(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, w := range created {
				fmt.Fprintf(out, "✅ %s\n", formatWorkout(w))
			}
			return nil
		},
	}
	addCmd.Flags().StringVar(&addDate, "date", domain.Today(), "Workout date (YYYY-MM-DD)")

	var updateDate string
	updateCmd := &cobra.Command{
		Use:   "update [workout-id] [Exercise:weight:sets:reps]",
		Short: "Rewrite one workout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, admin, err := r.admin(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			selected := app.Studio.Selected()
			if selected == nil {
				return studio.ErrNoSelection
			}
			var current *domain.Workout
			for _, w := range selected.Workouts {
				if w.ID == args[0] {
					current = &w
					break
				}
			}
			if current == nil {
				return fmt.Errorf("workout %s not found for %s", args[0], selected.Name)
			}

			date := current.Date
			if updateDate != "" {
				date = updateDate
			}
			in, err := ParseEntry(args[1], date)
			if err != nil {
				return err
			}

			w := domain.Workout{ID: current.ID, Date: in.Date, Exercise: in.Exercise, Weight: in.Weight, Sets: in.Sets, Reps: in.Reps}
			if err := admin.UpdateWorkout(cmd.Context(), w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Updated %s\n", formatWorkout(w))
			return nil
		},
	}
	updateCmd.Flags().StringVar(&updateDate, "date", "", "New date (YYYY-MM-DD), defaults to the current one")

	deleteCmd := &cobra.Command{
		Use:   "delete [workout-id]",
		Short: "Delete one workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, admin, err := r.admin(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := admin.DeleteWorkout(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑  Deleted workout %s\n", args[0])
			return nil
		},
	}

	workoutsCmd.AddCommand(addCmd, updateCmd, deleteCmd)
	return workoutsCmd
}

func (r *runner) sessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Work on all workouts of one date",
	}

	var clearDay bool
	editCmd := &cobra.Command{
		Use:   "edit [date] [Exercise:weight:sets:reps]...",
		Short: "Replace every workout of the date with the given entries, in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, entries := args[0], args[1:]
			if len(entries) == 0 && !clearDay {
				return errors.New("no entries given: pass --clear to remove every workout of the date")
			}
			inputs, err := parseEntries(entries, date)
			if err != nil {
				return err
			}

			app, admin, err := r.admin(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := admin.SaveSession(cmd.Context(), date, inputs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Session %s saved: %d removed, %d recorded\n", result.Date, len(result.Removed), len(result.Created))
			return nil
		},
	}
	editCmd.Flags().BoolVar(&clearDay, "clear", false, "Allow an empty entry list")

	sessionCmd.AddCommand(editCmd)
	return sessionCmd
}
