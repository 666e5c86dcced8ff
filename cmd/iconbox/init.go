package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/iconbox/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file interactively",
		Args:  cobra.NoArgs,
		// Runs before any config or database exists.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file without asking")
	return cmd
}

func runInit(in io.Reader, out io.Writer, force bool) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "iconbox configuration setup")
	fmt.Fprintln(out, "===========================")
	fmt.Fprintln(out)

	cfg := config.Default()

	outputFile := prompt(reader, out, "Config file path", config.ConfigPath())

	if _, err := os.Stat(outputFile); err == nil && !force {
		overwrite := prompt(reader, out, "File exists. Overwrite?", "no")
		if !isYes(overwrite) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	fmt.Fprintln(out, "\n--- Database ---")
	cfg.Database.Path = prompt(reader, out, "SQLite database path", cfg.Database.Path)

	fmt.Fprintln(out, "\n--- Import ---")
	workers := prompt(reader, out, "Concurrent file reads", strconv.Itoa(cfg.Import.Workers))
	n, err := strconv.Atoi(workers)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid worker count %q", workers)
	}
	cfg.Import.Workers = n
	cfg.Import.MaxFileSizeRaw = prompt(reader, out, "Skip SVG files larger than", cfg.Import.MaxFileSizeRaw)

	fmt.Fprintln(out, "\n--- Logging ---")
	cfg.Logging.Level = prompt(reader, out, "Log level (debug/info/warn/error)", cfg.Logging.Level)
	cfg.Logging.Format = prompt(reader, out, "Log format (text/json)", cfg.Logging.Format)
	cfg.Logging.File = prompt(reader, out, "Log file (empty for none)", "")

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(outputFile, cfg); err != nil {
		return err
	}

	// Validate the size by loading the file back.
	if _, err := config.Load(outputFile); err != nil {
		return fmt.Errorf("checking written config: %w", err)
	}

	dataDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fmt.Fprintf(out, "\n%s Config written to %s\n", color.GreenString("✓"), outputFile)
	fmt.Fprintf(out, "Data directory: %s\n", dataDir)
	fmt.Fprintln(out, "\nTo import your first icons:")
	fmt.Fprintln(out, "  iconbox icons import ~/path/to/svgs")
	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, defaultVal)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		// On EOF or error, return default
		fmt.Fprintln(out)
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "yes" || s == "y"
}
