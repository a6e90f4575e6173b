package serialize

import (
	"bufio"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/Iron-Ham/padlog/internal/record"
)

// csvBufferSize matches the write buffer used for sensor CSV logging.
const csvBufferSize = 256 * 1024

// CSVSerializer writes UTF-8, comma-separated files with a header row.
type CSVSerializer struct{}

// Format implements Serializer.
func (CSVSerializer) Format() Format {
	return FormatCSV
}

// Write implements Serializer.
func (s CSVSerializer) Write(records []record.Record, schema *record.Schema, path string) error {
	staged := partialPath(path)
	f, err := os.Create(staged)
	if err != nil {
		return serializationError(FormatCSV, path, len(records), "create file", err)
	}

	bw := bufio.NewWriterSize(f, csvBufferSize)
	cw := csv.NewWriter(bw)

	if err := writeCSV(cw, records, schema); err != nil {
		_ = f.Close()
		_ = os.Remove(staged)
		return serializationError(FormatCSV, path, len(records), "encode rows", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(staged)
		return serializationError(FormatCSV, path, len(records), "flush file", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(staged)
		return serializationError(FormatCSV, path, len(records), "close file", err)
	}
	if err := commit(staged, path); err != nil {
		return serializationError(FormatCSV, path, len(records), "commit file", err)
	}
	return nil
}

func writeCSV(cw *csv.Writer, records []record.Record, schema *record.Schema) error {
	if err := cw.Write(schema.Names()); err != nil {
		return err
	}

	fields := schema.Fields()
	row := make([]string, len(fields))
	for _, rec := range records {
		for i, f := range fields {
			row[i] = FormatValue(rec.Value(i), f.Kind)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatValue renders a value the way it appears in a CSV cell: flags as
// 0 or 1, floats in plain decimal notation with the shortest digits that
// round-trip exactly.
func FormatValue(v float64, kind record.Kind) string {
	if kind == record.KindFlag {
		if v != 0 {
			return "1"
		}
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
