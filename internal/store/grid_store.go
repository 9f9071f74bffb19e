// Package store persists job artifacts: the canonical grid for inspection
// and a per-file run report.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"spxalign/internal/grid"
)

// Artifact file names, kept compatible with the upstream data product.
const (
	gridCSVName     = "master_trading_day_list.csv"
	gridParquetName = "master_trading_day_list.parquet"
)

// GridRecord is the Parquet schema for one grid timestamp.
type GridRecord struct {
	EntryTime int64 `parquet:"entry_time,timestamp(millisecond)"` // Unix ms
}

// GridStore persists the canonical grid under a directory, as both a CSV
// (single SpxDayTime column) and a Parquet file.
type GridStore struct {
	Dir string
}

// NewGridStore creates a GridStore rooted at dir.
func NewGridStore(dir string) *GridStore {
	return &GridStore{Dir: dir}
}

// Save writes both artifact formats.
func (s *GridStore) Save(g *grid.Grid) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact dir: %w", err)
	}
	if err := s.saveCSV(g); err != nil {
		return err
	}
	return s.saveParquet(g)
}

func (s *GridStore) saveCSV(g *grid.Grid) error {
	path := filepath.Join(s.Dir, gridCSVName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"SpxDayTime"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, ts := range g.Timestamps() {
		if err := w.Write([]string{ts.Format("2006-01-02 15:04:05")}); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (s *GridStore) saveParquet(g *grid.Grid) error {
	records := make([]GridRecord, 0, g.Len())
	for _, ts := range g.Timestamps() {
		records = append(records, GridRecord{EntryTime: ts.UnixMilli()})
	}

	path := filepath.Join(s.Dir, gridParquetName)
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadParquet reads the grid timestamps back from the Parquet artifact.
func (s *GridStore) LoadParquet() ([]time.Time, error) {
	path := filepath.Join(s.Dir, gridParquetName)
	records, err := parquet.ReadFile[GridRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	out := make([]time.Time, len(records))
	for i, r := range records {
		out[i] = time.UnixMilli(r.EntryTime).UTC()
	}
	return out, nil
}
