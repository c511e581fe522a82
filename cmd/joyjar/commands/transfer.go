package commands

import (
	"fmt"
	"os"

	"github.com/benvon/joyjar/internal/transfer"
	"github.com/spf13/cobra"
)

func newExportCmd(rt *runtime) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a full backup of the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := rt.app.session.Export()
			if err != nil {
				return err
			}
			if outPath == "-" {
				_, err := cmd.OutOrStdout().Write(append(doc, '\n'))
				return err
			}
			if err := os.WriteFile(outPath, doc, 0o600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Backup written to "+outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", transfer.ExportFilename, `Output file ("-" for stdout)`)
	return cmd
}

func newImportCmd(rt *runtime) *cobra.Command {
	var modeName string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a backup, replacing or merging into the journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			found, err := transfer.Preview(doc)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			var mode transfer.Mode
			switch {
			case modeName != "":
				if mode, err = transfer.ParseMode(modeName); err != nil {
					return err
				}
			case interactive():
				mode = transfer.ModeMerge
				if confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Found %d wins. Replace current data? (No merges)", found)) {
					mode = transfer.ModeReplace
				}
			default:
				return fmt.Errorf("found %d wins; choose --mode replace or --mode merge", found)
			}

			summary, err := rt.app.session.Import(cmd.Context(), doc, mode)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			rt.warnUnsaved(cmd)

			fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render("Import successful!"))
			fmt.Fprintf(cmd.OutOrStdout(), "Mode: %s  found: %d  added: %d  skipped: %d\n",
				summary.Mode, summary.Found, summary.Added, summary.Skipped)
			if summary.Unreadable > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), styles.Warning.Render(
					fmt.Sprintf("%d wins in the file could not be read and were left out.", summary.Unreadable)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modeName, "mode", "", "replace or merge (asked interactively when omitted)")
	return cmd
}
