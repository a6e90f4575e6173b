// Package config provides CLI commands for managing padlog configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Iron-Ham/padlog/internal/config"
	"github.com/Iron-Ham/padlog/internal/serialize"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify padlog configuration",
	Long: `View or modify padlog configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  padlog config set capture.log_format csv
  padlog config set capture.sample_interval 0.01
  padlog config set device.simulate true

Valid keys:
  capture.log_format         - Output format: csv, parquet
  capture.save_dir           - Directory recordings are written to
  capture.filename_template  - strftime pattern for unnamed recordings
  capture.sample_interval    - Sampling period in seconds (0.001 - 1.0)
  device.path                - Explicit joystick node (empty = first match)
  device.pattern             - Glob over joystick nodes
  device.simulate            - Record a synthetic controller (true/false)
  device.sim_axes            - Simulated axis count
  device.sim_buttons         - Simulated button count
  device.sim_hat             - Simulated hat (true/false)
  liveview.status_interval_ms - Minimum gap between status lines
  liveview.update_hz         - Maximum live input refresh rate
  liveview.flush_on_stop     - Show the final state when a recording ends (true/false)
  liveview.theme_file        - YAML color theme for the live view
  logging.level              - debug, info, warn, error
  logging.dir                - Log directory (empty = config dir)
  logging.max_size_mb        - Log size before rotation
  logging.max_backups        - Rotated logs to keep`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/padlog/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(themeCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// keyTypes lists the settable keys and how their values are parsed.
var keyTypes = map[string]string{
	"capture.log_format":          "format",
	"capture.save_dir":            "string",
	"capture.filename_template":   "string",
	"capture.sample_interval":     "float",
	"device.path":                 "string",
	"device.pattern":              "string",
	"device.simulate":             "bool",
	"device.sim_axes":             "int",
	"device.sim_buttons":          "int",
	"device.sim_hat":              "bool",
	"liveview.status_interval_ms": "int",
	"liveview.update_hz":          "int",
	"liveview.flush_on_stop":      "bool",
	"liveview.theme_file":         "string",
	"logging.level":               "level",
	"logging.dir":                 "string",
	"logging.max_size_mb":         "int",
	"logging.max_backups":         "int",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintf(out, "Warning: %v\nShowing defaults.\n\n", err)
		cfg = appconfig.Default()
	}

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "# Config file: (none - using defaults)\n")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// parseValue converts value according to the key's type.
func parseValue(key, value string) (any, error) {
	keyType, ok := keyTypes[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'padlog config set --help' to see valid keys", key)
	}

	switch keyType {
	case "format":
		if _, err := serialize.ParseFormat(value); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(serialize.ValidFormats(), ", "))
		}
		return strings.ToLower(value), nil
	case "level":
		if !slices.Contains(appconfig.ValidLogLevels(), strings.ToLower(value)) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(appconfig.ValidLogLevels(), ", "))
		}
		return strings.ToLower(value), nil
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return intVal, nil
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected a number", key)
		}
		return f, nil
	default:
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := parseValue(key, args[1])
	if err != nil {
		return err
	}

	// Range checks live in the config validator; run it on the result
	// before anything is written.
	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if _, err := appconfig.Load(); err != nil {
		viper.Set(key, previous)
		return err
	}

	if err := writeConfig(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", appconfig.ConfigFile())
	return nil
}

func writeConfig() error {
	// Ensure config directory exists
	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(appconfig.ConfigFile()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'padlog config set' to modify values", configFile)
	}

	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigFile()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize padlog's behavior.")
	return nil
}

func defaultConfigFile() string {
	d := appconfig.Default()
	return fmt.Sprintf(`# padlog configuration

# Capture settings
capture:
  # Output format: csv or parquet
  log_format: %s
  # Directory recordings are written to (created when a recording is saved)
  save_dir: %s
  # strftime pattern used when no filename is given
  filename_template: "%s"
  # Sampling period in seconds (0.001 - 1.0)
  sample_interval: %g

# Controller selection
device:
  # Explicit joystick node; empty picks the first match of pattern
  path: ""
  pattern: %s
  # Record a synthetic controller instead of hardware
  simulate: false
  sim_axes: %d
  sim_buttons: %d
  sim_hat: %t

# Live view
liveview:
  # Minimum gap between status updates in milliseconds
  status_interval_ms: %d
  # Maximum input refresh rate
  update_hz: %d
  # Show the final status and input state when a recording ends
  flush_on_stop: %t
  # Optional YAML color theme (see 'padlog config theme export')
  theme_file: ""

# Application log
logging:
  # debug, info, warn, error
  level: %s
  # Empty means <config dir>/logs
  dir: ""
  max_size_mb: %d
  max_backups: %d
`,
		d.Capture.LogFormat, d.Capture.SaveDir, d.Capture.FilenameTemplate, d.Capture.SampleInterval,
		d.Device.Pattern, d.Device.SimAxes, d.Device.SimButtons, d.Device.SimHat,
		d.LiveView.StatusIntervalMs, d.LiveView.UpdateHz, d.LiveView.FlushOnStop,
		d.Logging.Level, d.Logging.MaxSizeMB, d.Logging.MaxBackups,
	)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(appconfig.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintf(out, "\nEnvironment variables: %s_* (e.g., %s_CAPTURE_LOG_FORMAT)\n", appconfig.EnvPrefix, appconfig.EnvPrefix)
	return nil
}

// defaultValues maps every settable key to its default.
func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"capture.log_format":          d.Capture.LogFormat,
		"capture.save_dir":            d.Capture.SaveDir,
		"capture.filename_template":   d.Capture.FilenameTemplate,
		"capture.sample_interval":     d.Capture.SampleInterval,
		"device.path":                 d.Device.Path,
		"device.pattern":              d.Device.Pattern,
		"device.simulate":             d.Device.Simulate,
		"device.sim_axes":             d.Device.SimAxes,
		"device.sim_buttons":          d.Device.SimButtons,
		"device.sim_hat":              d.Device.SimHat,
		"liveview.status_interval_ms": d.LiveView.StatusIntervalMs,
		"liveview.update_hz":          d.LiveView.UpdateHz,
		"liveview.flush_on_stop":      d.LiveView.FlushOnStop,
		"liveview.theme_file":         d.LiveView.ThemeFile,
		"logging.level":               d.Logging.Level,
		"logging.dir":                 d.Logging.Dir,
		"logging.max_size_mb":         d.Logging.MaxSizeMB,
		"logging.max_backups":         d.Logging.MaxBackups,
	}
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	defaults := defaultValues()

	if len(args) == 0 {
		for key, value := range defaults {
			viper.Set(key, value)
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'padlog config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	if err := writeConfig(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", appconfig.ConfigFile())
	return nil
}
