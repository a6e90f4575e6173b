package capture

import (
	"time"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/serialize"
)

// Config is the immutable configuration of one session.
type Config struct {
	// SampleInterval is the target period between samples.
	SampleInterval time.Duration
	// Format selects the serializer used at flush.
	Format serialize.Format
	// SaveDir receives the output file. It is created at flush.
	SaveDir string
	// FilenameTemplate is a strftime pattern used when Filename is empty.
	FilenameTemplate string
	// Filename is an explicit output name; the format extension is appended
	// when missing.
	Filename string
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.SampleInterval <= 0:
		return errors.NewValidationError("sample interval must be positive").
			WithField("sample_interval").WithValue(c.SampleInterval)
	case c.SaveDir == "":
		return errors.NewValidationError("save directory is required").
			WithField("save_dir")
	}
	if _, err := serialize.New(c.Format); err != nil {
		return err
	}
	return nil
}

// Path derives the output path for a session started at now. It does not
// touch the filesystem.
func (c Config) Path(now time.Time) (string, error) {
	return serialize.Path(c.SaveDir, c.Filename, c.FilenameTemplate, c.Format, now)
}
