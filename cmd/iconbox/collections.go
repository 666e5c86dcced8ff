package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCollectionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection", "col"},
		Short:   "Manage icon collections",
	}
	cmd.AddCommand(
		newCollectionsListCmd(a),
		newCollectionsCreateCmd(a),
		newCollectionsRenameCmd(a),
		newCollectionsDeleteCmd(a),
	)
	return cmd
}

func newCollectionsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			collections, err := a.lib.Collections(cmd.Context())
			if err != nil {
				return err
			}

			if a.jsonOutput {
				views := make([]collectionView, len(collections))
				for i, c := range collections {
					views[i] = toCollectionView(c)
				}
				return printJSON(cmd.OutOrStdout(), views)
			}

			if len(collections) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No collections yet. Create one with 'iconbox collections create NAME'.")
				return nil
			}
			printCollectionTree(cmd.OutOrStdout(), collections)
			return nil
		},
	}
}

func newCollectionsCreateCmd(a *app) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.lib.CreateCollection(cmd.Context(), args[0], optional(parent))
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), toCollectionView(c))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created collection %s %s\n",
				color.GreenString("✓"), swatch(c.Color), c.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", c.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Parent collection ID")
	return cmd
}

func newCollectionsRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.lib.RenameCollection(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Renamed %s to %s\n", color.GreenString("✓"), args[0], args[1])
			return nil
		},
	}
}

func newCollectionsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a collection with all nested collections and their icons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.lib.DeleteCollection(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted collection %s\n", color.GreenString("✓"), args[0])
			return nil
		},
	}
}

// optional turns an empty flag value into nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
