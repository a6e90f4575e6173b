// Package serialize persists a session's records to disk.
//
// The output format is a closed set (Format) dispatched through a single
// Serializer interface with one implementation per format. Both variants
// keep schema field order as column order and accept an empty record
// sequence, producing a header-only or zero-row file.
package serialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/padlog/internal/errors"
	"github.com/Iron-Ham/padlog/internal/record"
)

// Format is an output file format.
type Format int

const (
	// FormatCSV writes one header row plus one row per record.
	FormatCSV Format = iota
	// FormatParquet writes one column per field in a single row group.
	FormatParquet
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatParquet}

// String returns the config name of the format.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatParquet:
		return "parquet"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatParquet:
		return ".parquet"
	default:
		return ""
	}
}

// ParseFormat converts a config value ("csv", "parquet") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return 0, errors.NewValidationError("unknown log format").
			WithField("capture.log_format").
			WithValue(s)
	}
}

// FormatForPath picks the format matching the file extension of path.
func FormatForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range Formats {
		if f.Extension() == ext {
			return f, true
		}
	}
	return 0, false
}

// ValidFormats returns the config names of all formats.
func ValidFormats() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = f.String()
	}
	return names
}

// Serializer writes an ordered record sequence to a file.
type Serializer interface {
	// Write persists records, laid out by schema, to path. Failures are
	// reported as *errors.SerializationError.
	Write(records []record.Record, schema *record.Schema, path string) error

	// Format reports which format the serializer produces.
	Format() Format
}

// New returns the serializer for f.
func New(f Format) (Serializer, error) {
	switch f {
	case FormatCSV:
		return CSVSerializer{}, nil
	case FormatParquet:
		return ParquetSerializer{}, nil
	default:
		return nil, errors.NewValidationError("unsupported format").WithValue(f.String())
	}
}

// partialPath is where a file is staged before being renamed into place.
func partialPath(path string) string {
	return path + ".partial"
}

// commit moves a fully written staging file to its final path. It never
// replaces an existing file: when path is taken the staged file is left in
// place so its records can be recovered, and the error matches os.ErrExist.
func commit(staged, path string) error {
	err := os.Link(staged, path)
	switch {
	case err == nil:
		return os.Remove(staged)
	case errors.Is(err, os.ErrExist):
		return fmt.Errorf("%s already exists, records kept in %s: %w", path, staged, os.ErrExist)
	}

	// Filesystems without hard links.
	if _, statErr := os.Lstat(path); statErr == nil {
		return fmt.Errorf("%s already exists, records kept in %s: %w", path, staged, os.ErrExist)
	}
	if err := os.Rename(staged, path); err != nil {
		_ = os.Remove(staged)
		return err
	}
	return nil
}

func serializationError(f Format, path string, n int, msg string, cause error) error {
	return errors.NewSerializationError(msg, cause).
		WithFormat(f.String()).
		WithPath(path).
		WithRecords(n)
}
