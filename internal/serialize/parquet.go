package serialize

import (
	"fmt"
	"os"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/Iron-Ham/padlog/internal/record"
)

// Keeps every session in one row group. Flushes happen when the buffered
// size crosses half of this, which a gamepad log never reaches.
const parquetRowGroupSize int64 = 1 << 40

const parquetParallel int64 = 1

// ParquetSerializer writes a Parquet file with one column per schema field.
// Float fields become DOUBLE columns and flag fields become INT64 columns.
type ParquetSerializer struct {
	// Uncompressed disables Snappy page compression.
	Uncompressed bool
}

// Format implements Serializer.
func (ParquetSerializer) Format() Format {
	return FormatParquet
}

// Write implements Serializer.
func (s ParquetSerializer) Write(records []record.Record, schema *record.Schema, path string) error {
	staged := partialPath(path)
	fw, err := local.NewLocalFileWriter(staged)
	if err != nil {
		return serializationError(FormatParquet, path, len(records), "create file", err)
	}

	pw, err := writer.NewCSVWriter(parquetMetadata(schema), fw, parquetParallel)
	if err != nil {
		_ = fw.Close()
		_ = os.Remove(staged)
		return serializationError(FormatParquet, path, len(records), "build writer", err)
	}
	pw.RowGroupSize = parquetRowGroupSize
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	if s.Uncompressed {
		pw.CompressionType = parquet.CompressionCodec_UNCOMPRESSED
	}

	fields := schema.Fields()
	for n, rec := range records {
		if err := pw.Write(parquetRow(rec, fields)); err != nil {
			_ = fw.Close()
			_ = os.Remove(staged)
			return serializationError(FormatParquet, path, len(records), fmt.Sprintf("write row %d", n), err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		_ = os.Remove(staged)
		return serializationError(FormatParquet, path, len(records), "finish file", err)
	}
	if err := fw.Close(); err != nil {
		_ = os.Remove(staged)
		return serializationError(FormatParquet, path, len(records), "close file", err)
	}
	if err := commit(staged, path); err != nil {
		return serializationError(FormatParquet, path, len(records), "commit file", err)
	}
	return nil
}

func parquetMetadata(schema *record.Schema) []string {
	fields := schema.Fields()
	md := make([]string, len(fields))
	for i, f := range fields {
		md[i] = fmt.Sprintf("name=%s, type=%s", f.Name, parquetType(f.Kind))
	}
	return md
}

func parquetType(kind record.Kind) string {
	if kind == record.KindFlag {
		return "INT64"
	}
	return "DOUBLE"
}

func parquetRow(rec record.Record, fields []record.Field) []interface{} {
	row := make([]interface{}, len(fields))
	for i, f := range fields {
		v := rec.Value(i)
		if f.Kind == record.KindFlag {
			var flag int64
			if v != 0 {
				flag = 1
			}
			row[i] = flag
			continue
		}
		row[i] = v
	}
	return row
}
