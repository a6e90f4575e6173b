package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/padlog/internal/tui/styles"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage the live view color theme",
	Long: `Manage the live view color theme.

A theme is a YAML file of hex colors. Point liveview.theme_file at it to
use it. Colors left out keep their built-in value.`,
}

var themeExportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export the built-in theme to YAML",
	Long: `Export the built-in colors as a theme file.

If no output file is specified, the YAML is printed to stdout.
This is a starting point for custom themes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runThemeExport,
}

var themeCheckCmd = &cobra.Command{
	Use:   "check <theme-file>",
	Short: "Validate a theme file",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeCheck,
}

func init() {
	themeCmd.AddCommand(themeExportCmd)
	themeCmd.AddCommand(themeCheckCmd)
}

func builtinTheme() styles.ThemeFile {
	return styles.ThemeFile{
		Name:    "default",
		Version: "1",
		Colors: styles.ThemeColors{
			Primary:   string(styles.PrimaryColor),
			Recording: string(styles.RecordingColor),
			Idle:      string(styles.IdleColor),
			Warning:   string(styles.WarningColor),
			Error:     string(styles.ErrorColor),
			Muted:     string(styles.MutedColor),
			Surface:   string(styles.SurfaceColor),
			Text:      string(styles.TextColor),
			Border:    string(styles.BorderColor),
			Active:    string(styles.ActiveColor),
		},
	}
}

func runThemeExport(cmd *cobra.Command, args []string) error {
	theme := builtinTheme()
	data, err := yaml.Marshal(&theme)
	if err != nil {
		return fmt.Errorf("failed to encode theme: %w", err)
	}

	if len(args) == 0 {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(args[0], data, 0644); err != nil {
		return fmt.Errorf("failed to write theme file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme written to %s\n", args[0])
	return nil
}

func runThemeCheck(cmd *cobra.Command, args []string) error {
	theme, err := styles.LoadThemeFile(args[0])
	if err != nil {
		return err
	}
	name := theme.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme %s is valid\n", name)
	return nil
}
