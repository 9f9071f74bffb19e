package calendar

import (
	"context"
	"fmt"
	"time"
)

// Compile-time interface check.
var _ SessionProvider = (*StaticProvider)(nil)

// StaticProvider derives sessions offline: every weekday in range that is
// not in its holiday list. It needs no network access, which makes it the
// default for air-gapped runs and tests. The holiday list must carry the
// full market holidays for the years queried or the grid will include days
// the exchange was closed.
type StaticProvider struct {
	holidays map[string]struct{} // YYYY-MM-DD
}

// NewStaticProvider builds a StaticProvider from YYYY-MM-DD holiday dates.
func NewStaticProvider(holidays []string) (*StaticProvider, error) {
	set := make(map[string]struct{}, len(holidays))
	for _, d := range holidays {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, fmt.Errorf("bad market holiday %q: %w", d, err)
		}
		set[d] = struct{}{}
	}
	return &StaticProvider{holidays: set}, nil
}

// Sessions returns every weekday in [start, end] not listed as a holiday,
// as midnight-UTC dates in ascending order.
func (p *StaticProvider) Sessions(_ context.Context, start, end time.Time) ([]time.Time, error) {
	var sessions []time.Time
	for d := midnight(start); !d.After(midnight(end)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if _, holiday := p.holidays[d.Format("2006-01-02")]; holiday {
			continue
		}
		sessions = append(sessions, d)
	}
	return sessions, nil
}
