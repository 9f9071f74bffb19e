package grid

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"spxalign/internal/calendar"
)

// Generator produces the canonical grid for a date range from an exchange
// session provider plus the configured exclusions and intraday times.
type Generator struct {
	provider   calendar.SessionProvider
	excluded   map[string]struct{} // early-close ∪ special holidays, YYYY-MM-DD
	validTimes []string            // HH:MM, in grid order
	log        *slog.Logger
}

// NewGenerator validates the configured exclusion dates and intraday times
// and returns a Generator. Exclusion is a set difference on the calendar
// date, so both lists are keyed by their YYYY-MM-DD form.
func NewGenerator(provider calendar.SessionProvider, earlyCloseDays, specialHolidays, validTimes []string, log *slog.Logger) (*Generator, error) {
	excluded := make(map[string]struct{}, len(earlyCloseDays)+len(specialHolidays))
	for _, d := range earlyCloseDays {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, fmt.Errorf("bad early-close day %q: %w", d, err)
		}
		excluded[d] = struct{}{}
	}
	for _, d := range specialHolidays {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, fmt.Errorf("bad special holiday %q: %w", d, err)
		}
		excluded[d] = struct{}{}
	}

	if len(validTimes) == 0 {
		return nil, fmt.Errorf("no valid intraday times configured")
	}
	for _, tm := range validTimes {
		if _, err := time.Parse("15:04", tm); err != nil {
			return nil, fmt.Errorf("bad intraday time %q: %w", tm, err)
		}
	}

	return &Generator{
		provider:   provider,
		excluded:   excluded,
		validTimes: validTimes,
		log:        log.With("component", "grid"),
	}, nil
}

// Build generates the canonical grid for [start, end], both inclusive.
// Sessions come from the provider; early-close days and special holidays
// are subtracted; each remaining session contributes one point per
// configured intraday time, config order within a date, ascending dates
// across the range.
func (g *Generator) Build(ctx context.Context, start, end time.Time) (*Grid, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if start.Year() < MinYear || end.Year() > MaxYear {
		return nil, fmt.Errorf("%w: got [%s, %s]", ErrUnsupportedRange,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	sessions, err := g.provider.Sessions(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	g.log.Info("sessions listed",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"sessions", len(sessions),
	)

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Before(sessions[j]) })

	points := make([]Point, 0, len(sessions)*len(g.validTimes))
	skipped := 0
	for _, day := range sessions {
		day = Midnight(day)
		if _, drop := g.excluded[day.Format("2006-01-02")]; drop {
			skipped++
			continue
		}
		for _, tm := range g.validTimes {
			points = append(points, Point{Date: day, TimeOfDay: tm})
		}
	}

	g.log.Info("grid built", "points", len(points), "excluded_sessions", skipped)
	return newGrid(points), nil
}
