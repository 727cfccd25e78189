// Package quote fetches spot prices from a Binance-style ticker endpoint.
package quote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one freshly fetched price. It is never cached; every fetch
// constructs a new value.
type Quote struct {
	Symbol    string
	Price     decimal.Decimal
	FetchedAt time.Time
}

// Format renders the price with exactly two decimal places, rounding half
// away from zero: 12.345 formats as "12.35".
func (q *Quote) Format() string {
	return q.Price.StringFixed(2)
}

// Fetcher is the one outbound call the bot makes beyond Telegram itself.
type Fetcher interface {
	Fetch(ctx context.Context) (*Quote, error)
}
