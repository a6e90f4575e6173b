package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/lestrrat-go/strftime"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/serialize"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "capture.sample_interval")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Is lets errors.Is match ValidationErrors against ErrInvalidInput.
func (e ValidationErrors) Is(target error) bool {
	return target == errors.ErrInvalidInput
}

// Unwrap returns ErrInvalidInput.
func (e ValidationErrors) Unwrap() error {
	return errors.ErrInvalidInput
}

// Severity reports a rejected configuration as a warning: callers fall back
// to defaults or keep the previous configuration.
func (e ValidationErrors) Severity() errors.Severity {
	return errors.SeverityWarning
}

// IsUserFacing reports true; messages name the offending key.
func (e ValidationErrors) IsUserFacing() bool {
	return true
}

// Sample interval bounds in seconds.
const (
	MinSampleInterval = 0.001
	MaxSampleInterval = 1.0
)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validateCapture()...)
	errs = append(errs, c.validateDevice()...)
	errs = append(errs, c.validateLiveView()...)
	errs = append(errs, c.validateLogging()...)
	return errs
}

func (c *Config) validateCapture() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(serialize.ValidFormats(), c.Capture.LogFormat) {
		errs = append(errs, ValidationError{
			Field:   "capture.log_format",
			Value:   c.Capture.LogFormat,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(serialize.ValidFormats(), ", ")),
		})
	}

	if strings.TrimSpace(c.Capture.SaveDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "capture.save_dir",
			Value:   c.Capture.SaveDir,
			Message: "must not be empty",
		})
	}

	if c.Capture.FilenameTemplate == "" {
		errs = append(errs, ValidationError{
			Field:   "capture.filename_template",
			Value:   c.Capture.FilenameTemplate,
			Message: "must not be empty",
		})
	} else if _, err := strftime.New(c.Capture.FilenameTemplate); err != nil {
		errs = append(errs, ValidationError{
			Field:   "capture.filename_template",
			Value:   c.Capture.FilenameTemplate,
			Message: "invalid strftime pattern: " + err.Error(),
		})
	} else if strings.ContainsRune(c.Capture.FilenameTemplate, filepath.Separator) {
		errs = append(errs, ValidationError{
			Field:   "capture.filename_template",
			Value:   c.Capture.FilenameTemplate,
			Message: "must produce a file name, not a path",
		})
	}

	if c.Capture.SampleInterval < MinSampleInterval || c.Capture.SampleInterval > MaxSampleInterval {
		errs = append(errs, ValidationError{
			Field:   "capture.sample_interval",
			Value:   c.Capture.SampleInterval,
			Message: fmt.Sprintf("must be between %g and %g seconds", MinSampleInterval, MaxSampleInterval),
		})
	}

	return errs
}

func (c *Config) validateDevice() []ValidationError {
	var errs []ValidationError

	if c.Device.Path == "" && !c.Device.Simulate {
		dir, base := filepath.Split(c.Device.Pattern)
		switch {
		case base == "":
			errs = append(errs, ValidationError{
				Field:   "device.pattern",
				Value:   c.Device.Pattern,
				Message: "must name device nodes, e.g. /dev/input/js*",
			})
		case strings.ContainsAny(dir, "*?[{"):
			errs = append(errs, ValidationError{
				Field:   "device.pattern",
				Value:   c.Device.Pattern,
				Message: "wildcards are only supported in the file name",
			})
		default:
			if _, err := glob.Compile(base); err != nil {
				errs = append(errs, ValidationError{
					Field:   "device.pattern",
					Value:   c.Device.Pattern,
					Message: "invalid glob: " + err.Error(),
				})
			}
		}
	}

	const maxInputs = 64
	if c.Device.SimAxes < 0 || c.Device.SimAxes > maxInputs {
		errs = append(errs, ValidationError{
			Field:   "device.sim_axes",
			Value:   c.Device.SimAxes,
			Message: fmt.Sprintf("must be between 0 and %d", maxInputs),
		})
	}
	if c.Device.SimButtons < 0 || c.Device.SimButtons > maxInputs {
		errs = append(errs, ValidationError{
			Field:   "device.sim_buttons",
			Value:   c.Device.SimButtons,
			Message: fmt.Sprintf("must be between 0 and %d", maxInputs),
		})
	}

	return errs
}

func (c *Config) validateLiveView() []ValidationError {
	var errs []ValidationError

	if c.LiveView.StatusIntervalMs < 1 || c.LiveView.StatusIntervalMs > 60000 {
		errs = append(errs, ValidationError{
			Field:   "liveview.status_interval_ms",
			Value:   c.LiveView.StatusIntervalMs,
			Message: "must be between 1 and 60000",
		})
	}
	if c.LiveView.UpdateHz < 1 || c.LiveView.UpdateHz > 240 {
		errs = append(errs, ValidationError{
			Field:   "liveview.update_hz",
			Value:   c.LiveView.UpdateHz,
			Message: "must be between 1 and 240",
		})
	}

	return errs
}

func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB <= 0 || c.Logging.MaxSizeMB > maxLogSizeMB {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("must be between 1 and %d", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errs
}
