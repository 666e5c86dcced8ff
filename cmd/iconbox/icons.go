package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/iconbox/internal/library"
	"github.com/2389/iconbox/internal/store"
)

func newIconsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "icons",
		Aliases: []string{"icon"},
		Short:   "Manage icons",
	}
	cmd.AddCommand(
		newIconsListCmd(a),
		newIconsShowCmd(a),
		newIconsImportCmd(a),
		newIconsDeleteCmd(a),
		newIconsFavoriteCmd(a),
		newIconsTagCmd(a),
	)
	return cmd
}

func newIconsListCmd(a *app) *cobra.Command {
	var (
		collectionID string
		favorites    bool
		search       string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List icons (all, one collection, or favorites)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if collectionID != "" && favorites {
				return errors.New("--collection and --favorites cannot be combined")
			}

			var (
				icons []*store.Icon
				err   error
			)
			switch {
			case favorites:
				icons, err = a.lib.Favorites(cmd.Context())
				icons = library.FilterIcons(icons, search)
			case search != "":
				icons, err = a.lib.SearchIcons(cmd.Context(), search, collectionID)
			case collectionID != "":
				icons, err = a.lib.Icons(cmd.Context(), collectionID)
			default:
				icons, err = a.lib.AllIcons(cmd.Context())
			}
			if err != nil {
				return err
			}

			if a.jsonOutput {
				views := make([]iconView, len(icons))
				for i, icon := range icons {
					views[i] = toIconView(icon, false)
				}
				return printJSON(cmd.OutOrStdout(), views)
			}

			if len(icons) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No icons found.")
				return nil
			}
			return printIconTable(cmd.OutOrStdout(), icons)
		},
	}
	cmd.Flags().StringVar(&collectionID, "collection", "", "Only icons in this collection")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only favorite icons")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only icons whose name or a tag contains this text (case-insensitive)")
	return cmd
}

func newIconsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print an icon's SVG markup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			icon, err := a.lib.Icon(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), toIconView(icon, true))
			}
			fmt.Fprintln(cmd.OutOrStdout(), icon.SVGContent)
			return nil
		},
	}
}

func newIconsImportCmd(a *app) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "import DIR",
		Short: "Import the SVG files of a folder as a new collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.lib.ImportFolder(cmd.Context(), args[0], optional(parent))
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), toCollectionView(c))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d icons into %s %s\n",
				color.GreenString("✓"), c.IconCount, swatch(c.Color), c.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", c.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Parent collection ID")
	return cmd
}

func newIconsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an icon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.lib.DeleteIcon(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted icon %s\n", color.GreenString("✓"), args[0])
			return nil
		},
	}
}

func newIconsFavoriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite ID",
		Short: "Toggle an icon's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fav, err := a.lib.ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{"id": args[0], "favorite": fav})
			}
			if fav {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now a favorite\n", color.YellowString("★"), args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is no longer a favorite\n", color.HiBlackString("☆"), args[0])
			}
			return nil
		},
	}
}

func newIconsTagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tag ID [TAG...]",
		Short: "Replace an icon's tags (no tags clears them)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.lib.SetTags(cmd.Context(), args[0], args[1:]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated tags of %s\n", color.GreenString("✓"), args[0])
			return nil
		},
	}
}
