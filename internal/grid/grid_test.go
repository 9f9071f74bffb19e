package grid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"spxalign/internal/calendar"
)

// fakeProvider returns a fixed session list or a fixed error.
type fakeProvider struct {
	sessions []time.Time
	err      error
}

func (f *fakeProvider) Sessions(_ context.Context, _, _ time.Time) ([]time.Time, error) {
	return f.sessions, f.err
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fullDayTimes mirrors the production config: 09:33, 09:45, then every
// 15 minutes from 10:00 through 15:45 — 26 entries.
func fullDayTimes() []string {
	times := []string{"09:33", "09:45"}
	for h := 10; h <= 15; h++ {
		for _, m := range []int{0, 15, 30, 45} {
			times = append(times, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return times
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBuildCardinality(t *testing.T) {
	// 4 sessions, one excluded as early close, one as special holiday.
	provider := &fakeProvider{sessions: []time.Time{
		day("2023-01-03"), day("2023-01-04"), day("2023-07-03"), day("2023-11-24"),
	}}

	gen, err := NewGenerator(provider,
		[]string{"2023-07-03"},
		[]string{"2023-11-24"},
		fullDayTimes(),
		discard())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	g, err := gen.Build(context.Background(), day("2023-01-01"), day("2023-12-31"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// (4 sessions - 2 excluded) * 26 times.
	if g.Len() != 2*26 {
		t.Errorf("grid has %d points, want %d", g.Len(), 2*26)
	}
}

func TestBuildSingleFullSession(t *testing.T) {
	provider := &fakeProvider{sessions: []time.Time{day("2023-01-03")}}

	gen, err := NewGenerator(provider, nil, nil, fullDayTimes(), discard())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	g, err := gen.Build(context.Background(), day("2023-01-03"), day("2023-01-03"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if g.Len() != 26 {
		t.Fatalf("grid has %d points, want 26", g.Len())
	}

	first := g.Points()[0].Timestamp()
	want := time.Date(2023, 1, 3, 9, 33, 0, 0, time.UTC)
	if !first.Equal(want) {
		t.Errorf("first point = %v, want %v", first, want)
	}

	last := g.Points()[25].Timestamp()
	want = time.Date(2023, 1, 3, 15, 45, 0, 0, time.UTC)
	if !last.Equal(want) {
		t.Errorf("last point = %v, want %v", last, want)
	}
}

func TestBuildOrdering(t *testing.T) {
	// Sessions deliberately out of order: Build must sort them.
	provider := &fakeProvider{sessions: []time.Time{
		day("2023-01-05"), day("2023-01-03"), day("2023-01-04"),
	}}

	gen, err := NewGenerator(provider, nil, nil, []string{"09:33", "10:00"}, discard())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	g, err := gen.Build(context.Background(), day("2023-01-01"), day("2023-01-31"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ts := g.Timestamps()
	for i := 1; i < len(ts); i++ {
		if !ts[i].After(ts[i-1]) {
			t.Fatalf("timestamps not strictly ascending at index %d: %v then %v", i, ts[i-1], ts[i])
		}
	}
}

func TestBuildInvalidRange(t *testing.T) {
	gen, err := NewGenerator(&fakeProvider{}, nil, nil, []string{"09:33"}, discard())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	_, err = gen.Build(context.Background(), day("2023-06-01"), day("2023-01-01"))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("Build error = %v, want ErrInvalidRange", err)
	}
}

func TestBuildUnsupportedRange(t *testing.T) {
	gen, err := NewGenerator(&fakeProvider{}, nil, nil, []string{"09:33"}, discard())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	cases := []struct {
		name       string
		start, end string
	}{
		{"start too early", "2022-12-30", "2023-01-31"},
		{"end too late", "2025-12-01", "2026-01-02"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gen.Build(context.Background(), day(tc.start), day(tc.end))
			if !errors.Is(err, ErrUnsupportedRange) {
				t.Fatalf("Build error = %v, want ErrUnsupportedRange", err)
			}
		})
	}
}

func TestBuildCalendarUnavailable(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("%w: boom", calendar.ErrUnavailable)}

	gen, err := NewGenerator(provider, nil, nil, []string{"09:33"}, discard())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	_, err = gen.Build(context.Background(), day("2023-01-01"), day("2023-01-31"))
	if !errors.Is(err, calendar.ErrUnavailable) {
		t.Fatalf("Build error = %v, want calendar.ErrUnavailable", err)
	}
}

func TestNewGeneratorRejectsBadConfig(t *testing.T) {
	if _, err := NewGenerator(&fakeProvider{}, []string{"07/03/2023"}, nil, []string{"09:33"}, discard()); err == nil {
		t.Error("NewGenerator should reject non-ISO early-close dates")
	}
	if _, err := NewGenerator(&fakeProvider{}, nil, []string{"bad"}, []string{"09:33"}, discard()); err == nil {
		t.Error("NewGenerator should reject non-ISO special holidays")
	}
	if _, err := NewGenerator(&fakeProvider{}, nil, nil, []string{"9:33pm"}, discard()); err == nil {
		t.Error("NewGenerator should reject malformed intraday times")
	}
	if _, err := NewGenerator(&fakeProvider{}, nil, nil, nil, discard()); err == nil {
		t.Error("NewGenerator should reject an empty time list")
	}
}

func TestGridContains(t *testing.T) {
	provider := &fakeProvider{sessions: []time.Time{day("2023-01-03")}}
	gen, _ := NewGenerator(provider, nil, nil, []string{"09:33"}, discard())

	g, err := gen.Build(context.Background(), day("2023-01-03"), day("2023-01-03"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	on := time.Date(2023, 1, 3, 9, 33, 0, 0, time.UTC)
	if !g.Contains(on) {
		t.Error("Contains should report grid timestamp as member")
	}

	// One minute off the grid — exact match only.
	off := time.Date(2023, 1, 3, 9, 34, 0, 0, time.UTC)
	if g.Contains(off) {
		t.Error("Contains must not fuzzy-match near timestamps")
	}
}

func TestGridWindow(t *testing.T) {
	provider := &fakeProvider{sessions: []time.Time{
		day("2023-01-03"), day("2023-01-04"), day("2023-01-05"),
	}}
	gen, _ := NewGenerator(provider, nil, nil, []string{"09:33", "10:00"}, discard())

	g, err := gen.Build(context.Background(), day("2023-01-01"), day("2023-01-31"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Window covering only the middle session.
	in := g.Window(day("2023-01-04"), day("2023-01-04"))
	if len(in) != 2 {
		t.Fatalf("Window returned %d timestamps, want 2", len(in))
	}
	for _, ts := range in {
		if ts.Day() != 4 {
			t.Errorf("Window leaked out-of-range timestamp %v", ts)
		}
	}
}
