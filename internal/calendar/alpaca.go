package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"

	"spxalign/internal/util"
)

// Compile-time interface check.
var _ SessionProvider = (*AlpacaProvider)(nil)

// AlpacaProvider answers session queries from the Alpaca trading calendar
// API. Index options trade the same sessions as the underlying equity
// market, so the exchange calendar Alpaca reports covers SPX.
type AlpacaProvider struct {
	client      *alpaca.Client
	maxAttempts int
	baseDelay   time.Duration
}

// NewAlpacaProvider creates an AlpacaProvider with the given credentials.
// Calendar calls are retried with exponential backoff before giving up.
func NewAlpacaProvider(apiKey, apiSecret, baseURL string) *AlpacaProvider {
	return &AlpacaProvider{
		client: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
	}
}

// Sessions returns all trading sessions in [start, end] as midnight-UTC
// dates. Provider failures surface as ErrUnavailable.
func (p *AlpacaProvider) Sessions(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	var days []alpaca.CalendarDay

	err := util.Retry(ctx, p.maxAttempts, p.baseDelay, func() error {
		var err error
		days, err = p.client.GetCalendar(alpaca.GetCalendarRequest{
			Start: midnight(start),
			End:   midnight(end),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: GetCalendar: %v", ErrUnavailable, err)
	}

	sessions := make([]time.Time, 0, len(days))
	for _, day := range days {
		d, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad calendar date %q: %v", ErrUnavailable, day.Date, err)
		}
		sessions = append(sessions, d)
	}
	return sessions, nil
}
