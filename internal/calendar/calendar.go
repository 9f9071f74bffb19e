// Package calendar exposes exchange trading sessions as a capability the
// grid generator consumes. Two providers are available: the Alpaca trading
// calendar API and a static weekday-minus-holidays provider for offline use.
package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the session provider could not answer. Grid
// construction treats this as fatal to the whole job.
var ErrUnavailable = errors.New("calendar provider unavailable")

// SessionProvider lists valid trading sessions between two dates, both
// inclusive. Sessions are returned as midnight-UTC dates in ascending order.
type SessionProvider interface {
	Sessions(ctx context.Context, start, end time.Time) ([]time.Time, error)
}

// midnight truncates t to its date portion in UTC.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
