// Package table models the per-file trade record tables the pipeline
// operates on. The payload schema is open-ended: only the EntryTime column
// is required, everything else is carried through untouched.
package table

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// EntryTimeColumn is the required timestamp column.
const EntryTimeColumn = "EntryTime"

// ErrTimestampParse indicates a record's entry time could not be normalized
// to a timestamp. It is fatal to the file it occurs in, not to the job.
var ErrTimestampParse = errors.New("cannot parse entry time")

// entryTimeLayouts are the textual formats upstream exports have been seen
// to use. Parsed values are treated as wall-clock exchange time (stored
// UTC) so every format maps to the same canonical key.
var entryTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
}

// canonicalLayout is how entry times are rendered on output.
const canonicalLayout = "2006-01-02 15:04:05"

// sentinelZeroColumns are the payload columns that get "0" instead of the
// empty string in placeholder rows. TradeID doubles as the placeholder
// marker: no genuine trade carries ID 0.
var sentinelZeroColumns = map[string]bool{
	"TradeID":                 true,
	"ProfitLoss":              true,
	"ProfitLossAfterSlippage": true,
}

// Record is one row: the parsed entry timestamp plus the raw field values
// parallel to the table header.
type Record struct {
	EntryTime time.Time
	Fields    []string
}

// Table is an ordered sequence of records sharing one header.
type Table struct {
	Header   []string
	Rows     []Record
	entryIdx int
}

// New creates an empty table for the given header. The header must contain
// the EntryTime column.
func New(header []string) (*Table, error) {
	idx := -1
	for i, col := range header {
		if col == EntryTimeColumn {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("header has no %s column", EntryTimeColumn)
	}
	return &Table{Header: header, entryIdx: idx}, nil
}

// Append parses the entry time out of fields and appends the row. The
// stored entry-time field is normalized to the canonical textual form.
func (t *Table) Append(fields []string) error {
	if len(fields) != len(t.Header) {
		return fmt.Errorf("row has %d fields, header has %d", len(fields), len(t.Header))
	}
	ts, err := ParseEntryTime(fields[t.entryIdx])
	if err != nil {
		return err
	}

	row := make([]string, len(fields))
	copy(row, fields)
	row[t.entryIdx] = ts.Format(canonicalLayout)

	t.Rows = append(t.Rows, Record{EntryTime: ts, Fields: row})
	return nil
}

// AppendRecord appends an already-parsed record. Used by the pipeline
// stages, which only move rows between tables of the same header.
func (t *Table) AppendRecord(r Record) {
	t.Rows = append(t.Rows, r)
}

// Empty returns a new table with the same header and no rows.
func (t *Table) Empty() *Table {
	return &Table{Header: t.Header, entryIdx: t.entryIdx}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Placeholder synthesizes a sentinel row for a grid timestamp with no
// corresponding trade: "0" in the identifier and P&L columns, empty string
// everywhere else.
func (t *Table) Placeholder(ts time.Time) Record {
	fields := make([]string, len(t.Header))
	for i, col := range t.Header {
		if i == t.entryIdx {
			fields[i] = ts.Format(canonicalLayout)
		} else if sentinelZeroColumns[col] {
			fields[i] = "0"
		}
	}
	return Record{EntryTime: ts, Fields: fields}
}

// IsPlaceholder reports whether a row is a synthesized sentinel rather than
// a genuine trade, judged by the identifier column.
func (t *Table) IsPlaceholder(r Record) bool {
	for i, col := range t.Header {
		if col == "TradeID" {
			return r.Fields[i] == "0"
		}
	}
	return false
}

// SortByEntryTime sorts rows ascending by timestamp. Relative order of
// duplicate timestamps is unspecified.
func (t *Table) SortByEntryTime() {
	sort.Slice(t.Rows, func(i, j int) bool {
		return t.Rows[i].EntryTime.Before(t.Rows[j].EntryTime)
	})
}

// ParseEntryTime normalizes a textual entry time to a UTC timestamp, trying
// each known layout in turn.
func ParseEntryTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrTimestampParse)
	}
	for _, layout := range entryTimeLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts.In(time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrTimestampParse, s)
}
