package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoryCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range rt.app.session.Snapshot().Categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rt.app.session.AddCategory(cmd.Context(), args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), styles.Muted.Render("Category already exists or is empty; nothing changed."))
				return nil
			}
			rt.warnUnsaved(cmd)
			fmt.Fprintln(cmd.OutOrStdout(), "Added category "+args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category; its wins move to Other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.app.session.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			rt.warnUnsaved(cmd)
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted category "+args[0])
			return nil
		},
	})

	return cmd
}

func newTagCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every tag in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range rt.app.session.Tags() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <tag>",
		Short: "Remove a tag from every win",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt.app.session.DeleteTag(cmd.Context(), args[0])
			rt.warnUnsaved(cmd)
			fmt.Fprintln(cmd.OutOrStdout(), "Removed tag "+args[0])
			return nil
		},
	})

	return cmd
}
