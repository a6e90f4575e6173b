// Package config is padlog's key-value configuration provider.
//
// Values come from viper (config file, PADLOG_* environment variables,
// defaults). The capture pipeline never reads viper directly: it receives
// an immutable capture.Config built by [Config.CaptureConfig] once per
// session.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/padlog/internal/capture"
	"github.com/Iron-Ham/padlog/internal/device"
	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/logging"
	"github.com/Iron-Ham/padlog/internal/record"
	"github.com/Iron-Ham/padlog/internal/serialize"
	"github.com/Iron-Ham/padlog/internal/throttle"
)

// AppName names the config directory and the environment prefix.
const AppName = "padlog"

// EnvPrefix is the prefix of environment variable overrides, e.g.
// PADLOG_CAPTURE_SAMPLE_INTERVAL for capture.sample_interval.
const EnvPrefix = "PADLOG"

// Config represents the complete padlog configuration
type Config struct {
	Capture  CaptureSettings `mapstructure:"capture" yaml:"capture"`
	Device   DeviceConfig    `mapstructure:"device" yaml:"device"`
	LiveView LiveViewConfig  `mapstructure:"liveview" yaml:"liveview"`
	Logging  LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// CaptureSettings controls how sessions sample and where they write.
type CaptureSettings struct {
	// LogFormat is the output format: "csv" or "parquet" (default: "parquet")
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	// SaveDir is where session files are written (default: "logs")
	SaveDir string `mapstructure:"save_dir" yaml:"save_dir"`
	// FilenameTemplate is a strftime pattern for unnamed sessions
	FilenameTemplate string `mapstructure:"filename_template" yaml:"filename_template"`
	// SampleInterval is the sampling period in seconds (default: 0.02)
	SampleInterval float64 `mapstructure:"sample_interval" yaml:"sample_interval"`
}

// DeviceConfig selects the controller.
type DeviceConfig struct {
	// Path is an explicit joystick node; empty picks the first match of Pattern
	Path string `mapstructure:"path" yaml:"path"`
	// Pattern is a glob over joystick nodes (default: "/dev/input/js*")
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	// Simulate records a synthetic controller instead of hardware
	Simulate   bool `mapstructure:"simulate" yaml:"simulate"`
	SimAxes    int  `mapstructure:"sim_axes" yaml:"sim_axes"`
	SimButtons int  `mapstructure:"sim_buttons" yaml:"sim_buttons"`
	SimHat     bool `mapstructure:"sim_hat" yaml:"sim_hat"`
}

// LiveViewConfig controls the throttled hand-off to the live view.
type LiveViewConfig struct {
	// StatusIntervalMs is the minimum gap between status events (default: 500)
	StatusIntervalMs int `mapstructure:"status_interval_ms" yaml:"status_interval_ms"`
	// UpdateHz is the maximum rate of input updates (default: 30)
	UpdateHz int `mapstructure:"update_hz" yaml:"update_hz"`
	// FlushOnStop forwards the final status and input state when a session
	// ends even if the gates would drop them (default: true)
	FlushOnStop bool `mapstructure:"flush_on_stop" yaml:"flush_on_stop"`
	// ThemeFile is an optional YAML color theme for the live view
	ThemeFile string `mapstructure:"theme_file" yaml:"theme_file"`
}

// LoggingConfig controls the application log.
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is the log directory; empty means <config dir>/logs
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the log size before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of rotated logs to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Capture: CaptureSettings{
			LogFormat:        serialize.FormatParquet.String(),
			SaveDir:          "logs",
			FilenameTemplate: serialize.DefaultFilenameTemplate,
			SampleInterval:   0.02,
		},
		Device: DeviceConfig{
			Pattern:    device.DefaultPattern,
			SimAxes:    device.DefaultSimCapabilities.Axes,
			SimButtons: device.DefaultSimCapabilities.Buttons,
			SimHat:     device.DefaultSimCapabilities.HasHat,
		},
		LiveView: LiveViewConfig{
			StatusIntervalMs: int(throttle.DefaultStatusInterval / time.Millisecond),
			UpdateHz:         30,
			FlushOnStop:      true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers default values on a specific viper instance.
func SetDefaultsOn(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("capture.log_format", defaults.Capture.LogFormat)
	v.SetDefault("capture.save_dir", defaults.Capture.SaveDir)
	v.SetDefault("capture.filename_template", defaults.Capture.FilenameTemplate)
	v.SetDefault("capture.sample_interval", defaults.Capture.SampleInterval)

	v.SetDefault("device.path", defaults.Device.Path)
	v.SetDefault("device.pattern", defaults.Device.Pattern)
	v.SetDefault("device.simulate", defaults.Device.Simulate)
	v.SetDefault("device.sim_axes", defaults.Device.SimAxes)
	v.SetDefault("device.sim_buttons", defaults.Device.SimButtons)
	v.SetDefault("device.sim_hat", defaults.Device.SimHat)

	v.SetDefault("liveview.status_interval_ms", defaults.LiveView.StatusIntervalMs)
	v.SetDefault("liveview.update_hz", defaults.LiveView.UpdateHz)
	v.SetDefault("liveview.flush_on_stop", defaults.LiveView.FlushOnStop)
	v.SetDefault("liveview.theme_file", defaults.LiveView.ThemeFile)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load against a specific viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Join(errors.ErrConfigLoad, err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Reload re-reads the config file behind v and loads the result. A missing
// config file is not an error.
func Reload(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Join(errors.ErrConfigLoad, err)
		}
	}
	return LoadFrom(v)
}

// Get returns the current configuration, falling back to Default when the
// stored configuration cannot be loaded or fails validation.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SampleIntervalDuration returns the sampling period as a duration.
func (c *CaptureSettings) SampleIntervalDuration() time.Duration {
	return time.Duration(c.SampleInterval * float64(time.Second))
}

// CaptureConfig builds the immutable per-session configuration. An empty
// filename means the name is derived from FilenameTemplate at start.
func (c *Config) CaptureConfig(filename string) (capture.Config, error) {
	format, err := serialize.ParseFormat(c.Capture.LogFormat)
	if err != nil {
		return capture.Config{}, err
	}
	return capture.Config{
		SampleInterval:   c.Capture.SampleIntervalDuration(),
		Format:           format,
		SaveDir:          c.Capture.SaveDir,
		FilenameTemplate: c.Capture.FilenameTemplate,
		Filename:         filename,
	}, nil
}

// DeviceOptions returns the device selection for a session.
func (c *Config) DeviceOptions() device.Options {
	return device.Options{
		Path:     c.Device.Path,
		Pattern:  c.Device.Pattern,
		Simulate: c.Device.Simulate,
		Sim: record.Capabilities{
			Axes:    c.Device.SimAxes,
			Buttons: c.Device.SimButtons,
			HasHat:  c.Device.SimHat,
		},
	}
}

// ThrottleOptions returns the live-view gate intervals.
func (c *Config) ThrottleOptions() throttle.Options {
	var update time.Duration
	if c.LiveView.UpdateHz > 0 {
		update = time.Second / time.Duration(c.LiveView.UpdateHz)
	}
	return throttle.Options{
		StatusInterval: time.Duration(c.LiveView.StatusIntervalMs) * time.Millisecond,
		UpdateInterval: update,
	}
}

// LogDir resolves the log directory.
func (c *Config) LogDir() string {
	if c.Logging.Dir != "" {
		return c.Logging.Dir
	}
	return filepath.Join(ConfigDir(), "logs")
}

// RotationConfig returns the log rotation settings.
func (c *Config) RotationConfig() logging.RotationConfig {
	return logging.RotationConfig{
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
	}
}
