package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/benvon/joyjar/internal/models"
	"github.com/spf13/cobra"
)

func newStatsCmd(rt *runtime) *cobra.Command {
	var (
		window string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streaks and statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw, err := models.ParseTimeWindow(window)
			if err != nil {
				return err
			}
			stats, err := rt.app.session.Stats(tw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			fmt.Fprintln(out, styles.Title.Render("Stats: "+tw.Label()))
			fmt.Fprintf(out, "Current streak: %d days (longest %d)\n", stats.Streak, stats.LongestStreak)
			fmt.Fprintf(out, "Wins: %d  Avg mood: %.1f  Avg effort: %.1f  Total cost: %.2f\n",
				stats.Totals.Wins, stats.Totals.AverageMood, stats.Totals.AverageEffort, stats.Totals.TotalCost)
			if len(stats.Categories) > 0 {
				fmt.Fprintln(out, styles.Title.Render("Categories"))
				for _, c := range stats.Categories {
					bar := strings.Repeat("█", int(c.Percentage/5))
					fmt.Fprintf(out, "  %-16s %3d  %5.1f%%  %s\n", c.Category, c.Count, c.Percentage, bar)
				}
			}
			if len(stats.Series) > 0 {
				fmt.Fprintln(out, styles.Title.Render("Mood & effort by day"))
				for _, p := range stats.Series {
					fmt.Fprintf(out, "  %s  mood %.1f  effort %.1f\n", p.Date, p.Mood, p.Effort)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&window, "window", "all", "Time window: today, 7d, 30d or all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newReflectCmd(rt *runtime) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "Ask the reflection coach about a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw, err := models.ParseTimeWindow(period)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), styles.Muted.Render("Reflecting on "+tw.Label()+"..."))

			_, results, err := rt.app.session.RequestReflection(cmd.Context(), tw)
			if err != nil {
				return err
			}
			outcome := <-results
			if outcome.Err != nil {
				// display only; failures are not kept in history
				fmt.Fprintln(cmd.OutOrStdout(), styles.Warning.Render(outcome.Text))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), styles.Box.Render(outcome.Text))
			if outcome.Analysis != nil {
				rt.warnUnsaved(cmd)
				fmt.Fprintln(cmd.OutOrStdout(), styles.Muted.Render("Saved to history as "+outcome.Analysis.ID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", string(models.WindowLast7Days), "Period: today, 7d, 30d or all")
	return cmd
}

func newHistoryCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Past reflections",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved reflections, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history := rt.app.session.Snapshot().AnalysisHistory
			out := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintln(out, styles.Muted.Render("No reflections yet."))
				return nil
			}
			for i := len(history) - 1; i >= 0; i-- {
				a := history[i]
				fmt.Fprintln(out, styles.Title.Render(fmt.Sprintf("%s  %s  (%d wins)",
					a.Date.Local().Format("2006-01-02 15:04"), a.Period.Label(), a.WinsAnalyzedCount)))
				fmt.Fprintln(out, styles.Muted.Render(a.ID))
				fmt.Fprintln(out, a.Content)
				fmt.Fprintln(out)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <analysis-id>",
		Short: "Delete a saved reflection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.app.session.DeleteAnalysis(cmd.Context(), args[0])
			rt.warnUnsaved(cmd)
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted reflection "+args[0])
			return nil
		},
	})

	return cmd
}
