// Package cmd holds padlog's command tree.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/padlog/internal/cmd/config"
	"github.com/Iron-Ham/padlog/internal/cmd/record"
	appconfig "github.com/Iron-Ham/padlog/internal/config"
	"github.com/Iron-Ham/padlog/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "padlog",
	Short: "Record game controller input to CSV or Parquet",
	Long: `padlog samples a game controller at a fixed interval and writes every
sample to a CSV or Parquet file when the recording stops.

Run 'padlog record' in a terminal for the live view, or with --headless
for scripted captures.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// reportError prints err for the user. Errors that are not padlog's own
// come from flag or argument parsing, so they get a usage hint. Critical
// errors mean captured samples may not be on disk.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	switch {
	case errors.GetSeverity(err) >= errors.SeverityCritical:
		fmt.Fprintln(w, "Recorded samples may not have been saved; unfinished files end in .partial in the save directory.")
	case !errors.IsUserFacing(err):
		fmt.Fprintf(w, "Run '%s --help' for usage.\n", rootCmd.CommandPath())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/padlog/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	record.Register(rootCmd)
	config.Register(rootCmd)
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	appconfig.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(appconfig.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(appconfig.EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	// e.g., PADLOG_CAPTURE_SAMPLE_INTERVAL for capture.sample_interval
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
