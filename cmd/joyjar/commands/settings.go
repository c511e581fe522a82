package commands

import (
	"fmt"

	"github.com/benvon/joyjar/internal/models"
	"github.com/spf13/cobra"
)

func newSettingsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rt.app.session.Snapshot().Settings
			fmt.Fprintf(cmd.OutOrStdout(), "Ritual text:    %s\n", s.RitualText)
			fmt.Fprintf(cmd.OutOrStdout(), "Daily reminder: %s\n", s.DailyReminder)
			return nil
		},
	})

	var ritual, reminder string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			next := rt.app.session.Snapshot().Settings
			if cmd.Flags().Changed("ritual") {
				next.RitualText = ritual
			}
			if cmd.Flags().Changed("reminder") {
				next.DailyReminder = models.DailyReminder(reminder)
			}
			if err := rt.app.session.UpdateSettings(cmd.Context(), next); err != nil {
				return err
			}
			rt.warnUnsaved(cmd)
			fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
			return nil
		},
	}
	setCmd.Flags().StringVar(&ritual, "ritual", "", "Text shown after logging a win")
	setCmd.Flags().StringVar(&reminder, "reminder", "", `Daily reminder: "none", "9:00 AM" or "9:00 PM"`)
	cmd.AddCommand(setCmd)

	return cmd
}
