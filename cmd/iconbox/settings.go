package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/iconbox/internal/store"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or change display settings",
	}
	cmd.AddCommand(newSettingsGetCmd(a), newSettingsSetCmd(a))
	return cmd
}

func newSettingsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.lib.Settings(cmd.Context())
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					store.SettingTheme:     s.Theme,
					store.SettingIconSize:  s.IconSize,
					store.SettingTintColor: s.TintColor,
				})
			}

			tint := color.HiBlackString("(none)")
			if s.TintColor != nil {
				tint = swatch(*s.TintColor) + " " + *s.TintColor
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-11s %s\n", store.SettingTheme, s.Theme)
			fmt.Fprintf(out, "%-11s %d\n", store.SettingIconSize, s.IconSize)
			fmt.Fprintf(out, "%-11s %s\n", store.SettingTintColor, tint)
			return nil
		},
	}
}

func newSettingsSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a setting (theme, icon_size, tint_color)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.lib.SetSetting(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", color.GreenString("✓"), args[0], args[1])
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.lib.Stats(cmd.Context())
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"collections": st.Collections,
					"icons":       st.Icons,
					"favorites":   st.Favorites,
					"database":    a.cfg.Database.Path,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Collections: %s\n", humanize.Comma(int64(st.Collections)))
			fmt.Fprintf(out, "Icons:       %s\n", humanize.Comma(int64(st.Icons)))
			fmt.Fprintf(out, "Favorites:   %s\n", humanize.Comma(int64(st.Favorites)))
			fmt.Fprintf(out, "Database:    %s\n", color.HiBlackString("%s", a.cfg.Database.Path))
			return nil
		},
	}
}
