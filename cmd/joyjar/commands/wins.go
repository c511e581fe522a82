package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/benvon/joyjar/internal/derive"
	"github.com/benvon/joyjar/internal/models"
	"github.com/spf13/cobra"
)

func newAddCmd(rt *runtime) *cobra.Command {
	var (
		date, notes, category string
		tags                  []string
		mood, effort          int
		cost                  float64
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Log a win",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := models.DateOf(time.Now())
			if date != "" {
				parsed, err := models.ParseDate(date)
				if err != nil {
					return err
				}
				d = parsed
			}

			win, err := rt.app.session.AddWin(cmd.Context(), models.WinInput{
				Date:     d,
				Title:    strings.Join(args, " "),
				Notes:    notes,
				Tags:     tags,
				Category: category,
				Mood:     mood,
				Effort:   effort,
				Cost:     cost,
			})
			if err != nil {
				return err
			}
			rt.warnUnsaved(cmd)

			state := rt.app.session.Snapshot()
			fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render("Win logged!")+" "+styles.Muted.Render(win.ID))
			if state.Settings.RitualText != "" {
				fmt.Fprintln(cmd.OutOrStdout(), styles.Box.Render(state.Settings.RitualText))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date of the win, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "Optional notes")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable or comma separated)")
	cmd.Flags().StringVar(&category, "category", models.OtherCategory, "Category")
	cmd.Flags().IntVar(&mood, "mood", 3, "Mood 1-5")
	cmd.Flags().IntVar(&effort, "effort", 3, "Effort 1-5")
	cmd.Flags().Float64Var(&cost, "cost", 0, "Money spent")

	return cmd
}

func newListCmd(rt *runtime) *cobra.Command {
	var (
		window, search, tag, category string
		asJSON                        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wins, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw, err := models.ParseTimeWindow(window)
			if err != nil {
				return err
			}
			wins := rt.app.session.View(derive.Filter{
				Window:     tw,
				SearchText: search,
				Tag:        tag,
				Category:   category,
			})

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(wins)
			}
			printWins(cmd.OutOrStdout(), tw, wins)
			return nil
		},
	}

	cmd.Flags().StringVar(&window, "window", "all", "Time window: today, 7d, 30d or all")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text in title or notes")
	cmd.Flags().StringVar(&tag, "tag", "", "Only wins with this tag")
	cmd.Flags().StringVar(&category, "category", "", "Only wins in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func printWins(out io.Writer, window models.TimeWindow, wins []models.Win) {
	fmt.Fprintln(out, styles.Title.Render(fmt.Sprintf("%s: %d wins", window.Label(), len(wins))))
	if len(wins) == 0 {
		fmt.Fprintln(out, styles.Muted.Render("Nothing here yet. What's one small thing you could celebrate today?"))
		return
	}
	for _, w := range wins {
		fmt.Fprintf(out, "%s  %s  %s\n", w.Date, w.Title, styles.Muted.Render("["+w.Category+"]"))
		fmt.Fprintf(out, "    mood %s  effort %s", scoreBar(w.Mood), scoreBar(w.Effort))
		if w.Cost > 0 {
			fmt.Fprintf(out, "  cost %.2f", w.Cost)
		}
		fmt.Fprintln(out)
		if len(w.Tags) > 0 {
			fmt.Fprintln(out, "    "+styles.Muted.Render("#"+strings.Join(w.Tags, " #")))
		}
		if w.Notes != "" {
			fmt.Fprintln(out, "    "+w.Notes)
		}
		fmt.Fprintln(out, "    "+styles.Muted.Render(w.ID))
	}
}

func newDeleteCmd(rt *runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <win-id>",
		Short: "Delete a win",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			win, ok := rt.app.session.Snapshot().FindWin(id)
			if !ok {
				return fmt.Errorf("no win with id %s", id)
			}
			if !yes {
				if !interactive() {
					return fmt.Errorf("refusing to delete without confirmation; pass --yes")
				}
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %q?", win.Title)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
					return nil
				}
			}
			rt.app.session.DeleteWin(cmd.Context(), id)
			rt.warnUnsaved(cmd)
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted "+id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}
