package cli

import (
	"bytes"
	"errors"
	"fmt"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/export"
	"neonfit/studio-tracker/internal/stats"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (r *runner) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the selected member's workouts grouped by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.loaded(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			m, err := selected(app)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			sessions := stats.Sessions(m.Workouts)
			if len(sessions) == 0 {
				fmt.Fprintf(out, "%s has no workouts yet\n", m.Name)
				return nil
			}

			boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			// newest first, like the history panel
			for i := len(sessions) - 1; i >= 0; i-- {
				s := sessions[i]
				fmt.Fprintf(out, "%s\n", boldGreen(s.Date))
				for _, w := range s.Workouts {
					fmt.Fprintf(out, "  %s  %s  %s\n", w.ID, formatWorkout(w), yellow(formatKg(w.Volume())+" vol"))
				}
			}
			return nil
		},
	}
}

func (r *runner) statsCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the metric cards of the selected member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.loaded(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			m, err := selected(app)
			if err != nil {
				return err
			}
			s := stats.Summarize(m.Workouts, month)
			cyanBold := color.New(color.FgCyan, color.Bold).SprintFunc()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", cyanBold(m.Name))
			fmt.Fprintf(out, "  Workouts in %s: %d\n", s.Month, s.MonthlyCount)
			fmt.Fprintf(out, "  Max weight:      %s kg\n", formatKg(s.MaxWeight))
			fmt.Fprintf(out, "  Total volume:    %s\n", stats.FormatVolume(s.TotalVolume))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", stats.CurrentMonth(), "Month counted (YYYY-MM)")
	return cmd
}

func (r *runner) chartCmd() *cobra.Command {
	var metric string
	var exercises []string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show the progress table of the selected member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := stats.ParseMetric(metric)
			if err != nil {
				return err
			}
			app, err := r.loaded(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			m, err := selected(app)
			if err != nil {
				return err
			}
			chart := stats.BuildChart(m.Workouts, mode, exercises)
			printChart(cmd.OutOrStdout(), chart)
			return nil
		},
	}
	cmd.Flags().StringVar(&metric, "metric", string(stats.MetricWeight), "weight or volume")
	cmd.Flags().StringSliceVarP(&exercises, "exercise", "e", nil, "Exercises to show (defaults to the first three)")
	return cmd
}

func (r *runner) calendarCmd() *cobra.Command {
	var details bool
	cmd := &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Show the training days of a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := stats.CurrentMonth()
			if len(args) == 1 {
				month = args[0]
			}
			app, err := r.loaded(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			m, err := selected(app)
			if err != nil {
				return err
			}
			cal, err := stats.BuildCalendar(m.Workouts, month)
			if err != nil {
				return err
			}
			printCalendar(cmd.OutOrStdout(), cal, details)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&details, "details", "d", false, "List the exercises of each training day")
	return cmd
}

func (r *runner) exportCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the selected member's history to an xlsx file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.loaded(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			var buf bytes.Buffer
			name, err := app.Studio.Export(&buf)
			if errors.Is(err, export.ErrNoWorkouts) {
				fmt.Fprintln(cmd.OutOrStdout(), export.NoWorkoutsMessage)
				return nil
			}
			if err != nil {
				return err
			}

			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Exported %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "out", "o", ".", "Directory to write the file to")
	return cmd
}

func (r *runner) adviseCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "advise [question]...",
		Short: "Ask the AI coach about the selected member",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.loaded(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			advice, err := app.Studio.Advise(cmd.Context(), strings.Join(args, " "), advisor.ParseLanguage(lang))
			switch {
			case err == nil:
				fmt.Fprintln(out, advice.Text)
				return nil
			case errors.Is(err, advisor.ErrMissingAPIKey):
				fmt.Fprintln(out, color.YellowString(advice.Text))
				return nil
			case advice.Text != "":
				fmt.Fprintln(out, color.RedString(advice.Text))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "Answer language (en or zh)")
	return cmd
}
