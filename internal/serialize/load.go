package serialize

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/Iron-Ham/padlog/internal/errors"
)

// Table is a session file read back into memory.
type Table struct {
	Format  Format
	Columns []string
	Rows    [][]float64
}

// Column returns the values of the named column, or nil if it is absent.
func (t *Table) Column(name string) []float64 {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[idx]
	}
	return out
}

// Load reads a session file written by a Serializer. The format is taken
// from the file extension.
func Load(path string) (*Table, error) {
	f, ok := FormatForPath(path)
	if !ok {
		return nil, errors.NewValidationError("unrecognized session file extension").
			WithField("path").
			WithValue(path)
	}
	switch f {
	case FormatCSV:
		return loadCSV(path)
	default:
		return loadParquet(path)
	}
}

func loadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = file.Close() }()

	cr := csv.NewReader(file)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "read header of %s", path)
	}

	t := &Table{Format: FormatCSV, Columns: header}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		row := make([]float64, len(rec))
		for i, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "%s line %d column %s", path, line, header[i])
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func loadParquet(path string) (*Table, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = fr.Close() }()

	pr, err := reader.NewParquetColumnReader(fr, parquetParallel)
	if err != nil {
		return nil, errors.Wrapf(err, "read footer of %s", path)
	}
	defer pr.ReadStop()

	t := &Table{Format: FormatParquet}
	// Infos[0] is the root element.
	for _, info := range pr.SchemaHandler.Infos[1:] {
		t.Columns = append(t.Columns, info.ExName)
	}

	num := pr.GetNumRows()
	t.Rows = make([][]float64, num)
	for r := range t.Rows {
		t.Rows[r] = make([]float64, len(t.Columns))
	}
	if num == 0 {
		return t, nil
	}

	for c, colPath := range pr.SchemaHandler.ValueColumns {
		values, _, _, err := pr.ReadColumnByPath(colPath, num)
		if err != nil {
			return nil, errors.Wrapf(err, "read column %s of %s", t.Columns[c], path)
		}
		for r, v := range values {
			if r >= len(t.Rows) {
				break
			}
			switch x := v.(type) {
			case float64:
				t.Rows[r][c] = x
			case int64:
				t.Rows[r][c] = float64(x)
			case int32:
				t.Rows[r][c] = float64(x)
			default:
				return nil, fmt.Errorf("column %s of %s: unexpected value type %T", t.Columns[c], path, v)
			}
		}
	}
	return t, nil
}
