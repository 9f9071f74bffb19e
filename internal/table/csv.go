package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// ReadCSV loads a record table from a CSV file. The first row is the
// header and must contain the EntryTime column; any row whose entry time
// does not parse fails the whole read.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file, no header", path)
	}

	tbl, err := New(records[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i, row := range records[1:] {
		if err := tbl.Append(row); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
	}
	return tbl, nil
}

// WriteCSV persists the table to path. The write is all-or-nothing: rows go
// to a temp file in the same directory which is renamed into place only
// after a successful flush.
func WriteCSV(tbl *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(tbl.Header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range tbl.Rows {
		if err := w.Write(row.Fields); err != nil {
			tmp.Close()
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
