// Package align implements the two core pipeline stages: restricting a
// record table to the window and the canonical grid, and padding the result
// so every in-window grid timestamp is present exactly once.
package align

import (
	"log/slog"
	"sort"
	"time"

	"spxalign/internal/grid"
	"spxalign/internal/table"
)

// Filter returns a new table keeping only rows whose entry time lies inside
// the closed window [start 00:00:00, end 23:59:59] and exactly matches a
// grid timestamp. Input order is preserved; nothing is re-sorted.
func Filter(tbl *table.Table, g *grid.Grid, start, end time.Time, log *slog.Logger) *table.Table {
	startTS := grid.Midnight(start)
	endTS := grid.Midnight(end).Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	out := tbl.Empty()
	for _, row := range tbl.Rows {
		ts := row.EntryTime
		if ts.Before(startTS) || ts.After(endTS) {
			continue
		}
		if !g.Contains(ts) {
			continue
		}
		out.AppendRecord(row)
	}

	log.Debug("filtered table",
		"rows_in", tbl.Len(),
		"rows_out", out.Len(),
		"dropped", tbl.Len()-out.Len(),
	)
	return out
}

// Pad returns a new table holding every input row plus one placeholder per
// in-window grid timestamp with no corresponding row, sorted ascending by
// entry time. Duplicate input timestamps are kept as-is; their relative
// order after the sort is unspecified.
func Pad(tbl *table.Table, g *grid.Grid, start, end time.Time, log *slog.Logger) *table.Table {
	startDay := grid.Midnight(start)
	endDay := grid.Midnight(end)

	// Existing entry times, window-restricted by date portion.
	existing := make(map[int64]struct{}, tbl.Len())
	for _, row := range tbl.Rows {
		day := grid.Midnight(row.EntryTime)
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		existing[row.EntryTime.Unix()] = struct{}{}
	}

	// Missing = in-window grid timestamps − existing.
	var missing []time.Time
	for _, ts := range g.Window(start, end) {
		if _, ok := existing[ts.Unix()]; !ok {
			missing = append(missing, ts)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].Before(missing[j]) })

	out := tbl.Empty()
	out.Rows = make([]table.Record, 0, tbl.Len()+len(missing))
	out.Rows = append(out.Rows, tbl.Rows...)
	for _, ts := range missing {
		out.AppendRecord(out.Placeholder(ts))
	}
	out.SortByEntryTime()

	log.Debug("padded table",
		"rows_in", tbl.Len(),
		"placeholders", len(missing),
		"rows_out", out.Len(),
	)
	return out
}
