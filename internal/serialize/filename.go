package serialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/Iron-Ham/padlog/internal/errors"
)

// DefaultFilenameTemplate names files after their start time, e.g.
// 20240131_140509.
const DefaultFilenameTemplate = "%Y%m%d_%H%M%S"

// Filename derives the file name for a session.
//
// An explicit name is used as given, with the format's extension appended
// when it does not already end in it. Without one the name comes from
// rendering template (strftime syntax) at now.
func Filename(explicit, template string, f Format, now time.Time) (string, error) {
	ext := f.Extension()

	name := strings.TrimSpace(explicit)
	if name == "" {
		if template == "" {
			template = DefaultFilenameTemplate
		}
		rendered, err := strftime.Format(template, now)
		if err != nil {
			return "", errors.NewValidationError("invalid filename template: " + err.Error()).
				WithField("capture.filename_template").
				WithValue(template)
		}
		name = rendered
	}

	if name == "" || name == "." || strings.ContainsRune(name, filepath.Separator) {
		return "", errors.NewValidationError("filename must be a plain file name").
			WithField("filename").
			WithValue(name)
	}

	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return name, nil
}

// Path joins dir and the derived file name.
func Path(dir, explicit, template string, f Format, now time.Time) (string, error) {
	name, err := Filename(explicit, template, f, now)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// maxSuffix bounds the search for a free name in Available.
const maxSuffix = 9999

// Available returns path when nothing exists there, otherwise the first
// free sibling with a numeric suffix before the extension: run.csv,
// run_1.csv, run_2.csv. A leftover staging file also counts as taken.
// Paths that cannot be checked are treated as free; writing to them
// reports the underlying problem at flush.
func Available(path string) (string, error) {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 0; i <= maxSuffix; i++ {
		candidate := path
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		if !exists(candidate) && !exists(partialPath(candidate)) {
			return candidate, nil
		}
	}
	return "", errors.NewValidationError("no free file name").
		WithField("filename").
		WithValue(filepath.Base(path))
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
