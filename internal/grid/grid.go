// Package grid builds the canonical trading-time grid: one timestamp per
// configured intraday entry time per full trading session. The grid is the
// single source of truth for "valid entry timestamp" during a job; it is
// built once, immutable afterwards, and shared read-only across all
// per-file pipelines.
package grid

import (
	"errors"
	"time"
)

// Supported date window. The upstream data product only covers these years;
// the exclusion lists in config are maintained for them and nothing else.
const (
	MinYear = 2023
	MaxYear = 2025
)

var (
	// ErrInvalidRange is returned when start_date is later than end_date.
	ErrInvalidRange = errors.New("start date cannot be later than end date")
	// ErrUnsupportedRange is returned when either date falls outside the
	// supported years.
	ErrUnsupportedRange = errors.New("dates must be between 2023 and 2025")
)

// Point is one canonical entry timestamp: a (session date, intraday time)
// pair.
type Point struct {
	Date      time.Time // midnight UTC
	TimeOfDay string    // "HH:MM"
}

// Timestamp combines the session date and intraday time into the full entry
// timestamp (UTC).
func (p Point) Timestamp() time.Time {
	hm, _ := time.Parse("15:04", p.TimeOfDay)
	return time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(),
		hm.Hour(), hm.Minute(), 0, 0, time.UTC)
}

// Grid is an ordered, immutable set of Points. Membership checks are keyed
// by Unix time so that records parsed from any textual format compare
// against the same canonical representation.
type Grid struct {
	points []Point
	byUnix map[int64]struct{}
}

// newGrid builds a Grid from an ordered point slice.
func newGrid(points []Point) *Grid {
	set := make(map[int64]struct{}, len(points))
	for _, p := range points {
		set[p.Timestamp().Unix()] = struct{}{}
	}
	return &Grid{points: points, byUnix: set}
}

// Len returns the number of grid points.
func (g *Grid) Len() int { return len(g.points) }

// Points returns the ordered grid points. Callers must not modify the
// returned slice.
func (g *Grid) Points() []Point { return g.points }

// Timestamps returns all grid timestamps in grid order.
func (g *Grid) Timestamps() []time.Time {
	out := make([]time.Time, len(g.points))
	for i, p := range g.points {
		out[i] = p.Timestamp()
	}
	return out
}

// Contains reports whether t exactly equals some grid timestamp. The match
// is exact, no tolerance.
func (g *Grid) Contains(t time.Time) bool {
	_, ok := g.byUnix[t.Unix()]
	return ok
}

// Window returns the grid timestamps whose date portion lies in
// [start, end], in grid order.
func (g *Grid) Window(start, end time.Time) []time.Time {
	startDay := Midnight(start)
	endDay := Midnight(end)

	var out []time.Time
	for _, p := range g.points {
		if p.Date.Before(startDay) || p.Date.After(endDay) {
			continue
		}
		out = append(out, p.Timestamp())
	}
	return out
}

// Midnight truncates t to its date portion in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
