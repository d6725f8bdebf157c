package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CategoryColumn is the fixed zero-based index of the region field.
const CategoryColumn = 1

// Row is one parsed record, one string per declared column.
type Row []string

// Dataset is a parsed file: the header plus every data row after it.
// It is never mutated after Load returns.
type Dataset struct {
	Header Row
	Rows   []Row
}

// ColumnCount returns the number of columns declared by the header.
func (d *Dataset) ColumnCount() int { return len(d.Header) }

// ColumnIndex resolves a header name to its zero-based index.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	want := strings.TrimSpace(name)
	for i, h := range d.Header {
		if strings.TrimSpace(h) == want {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no column named %q", ErrColumnIndexOutOfRange, name)
}

// Categories returns the sorted distinct regions of the dataset.
func (d *Dataset) Categories() CategoryIndex { return DistinctCategories(d.Rows) }

// LoadFile validates the file at path and loads it. The file is opened once
// and closed before returning on every path.
func LoadFile(path string, maxBytes int64) (*Dataset, error) {
	if err := Validate(path, maxBytes); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses comma-separated records from r. The first record is the header;
// every following record must have exactly as many fields, otherwise the whole
// load fails and no rows are returned.
func Load(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	// field counts are checked below so mismatches map to FieldMismatchError
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	prevEnd := endLine(cr, header)
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	ncol := len(header)
	if ncol <= CategoryColumn {
		return nil, ErrMissingCategoryColumn
	}

	ds := &Dataset{Header: Row(header)}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(ds.Rows)+1, err)
		}
		// csv.Reader skips empty lines; a gap between records is an empty row
		line, _ := cr.FieldPos(0)
		if line > prevEnd+1 {
			return nil, &FieldMismatchError{Line: prevEnd + 1, Got: 0, Want: ncol}
		}
		if len(rec) != ncol {
			return nil, &FieldMismatchError{Line: line, Got: len(rec), Want: ncol}
		}
		prevEnd = endLine(cr, rec)
		ds.Rows = append(ds.Rows, Row(rec))
	}
	return ds, nil
}

// endLine returns the line on which the record just read ends. Quoted fields
// may span lines.
func endLine(cr *csv.Reader, rec []string) int {
	last := len(rec) - 1
	line, _ := cr.FieldPos(last)
	return line + strings.Count(rec[last], "\n")
}
