package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanMarqz/Cryptocat/internal/bot/keyboard"
	apperrors "github.com/DanMarqz/Cryptocat/internal/errors"
	"github.com/DanMarqz/Cryptocat/internal/quote"
	"github.com/DanMarqz/Cryptocat/internal/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubFetcher struct {
	quote *quote.Quote
	err   error
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context) (*quote.Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

func btcQuote(t *testing.T, price string) *quote.Quote {
	t.Helper()

	d, err := decimal.NewFromString(price)
	require.NoError(t, err)

	return &quote.Quote{
		Symbol:    "BTCUSDT",
		Price:     d,
		FetchedAt: time.Now(),
	}
}

func TestPriceHandler_SendsPriceWithRefreshButton(t *testing.T) {
	fetcher := &stubFetcher{quote: btcQuote(t, "50000.123")}
	handler := NewPriceHandler(fetcher, nil, testLogger())

	c := &testutil.RecordingContext{TextValue: "/getbtcprice"}
	require.NoError(t, handler(c))

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "The price of the bitcoin is: 50000.12", sent[0].Text)

	require.NotNil(t, sent[0].Markup)
	require.Len(t, sent[0].Markup.InlineKeyboard, 1)
	require.Len(t, sent[0].Markup.InlineKeyboard[0], 1)
	assert.Equal(t, keyboard.RefreshAction, sent[0].Markup.InlineKeyboard[0][0].Data)
}

func TestPriceHandler_FetchFailureRepliesWithoutButton(t *testing.T) {
	fetcher := &stubFetcher{err: apperrors.NewFetchError("request", errors.New("connection refused"))}
	handler := NewPriceHandler(fetcher, apperrors.NewHandler(testLogger(), false), testLogger())

	c := &testutil.RecordingContext{TextValue: "/getbtcprice"}
	require.NoError(t, handler(c))

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "Could not fetch the bitcoin price")
	assert.Nil(t, sent[0].Markup)
}

func TestPriceHandler_ParseFailureNeverSendsZero(t *testing.T) {
	fetcher := &stubFetcher{err: apperrors.NewQuoteParseError("abc", errors.New("invalid syntax"))}
	handler := NewPriceHandler(fetcher, apperrors.NewHandler(testLogger(), false), testLogger())

	c := &testutil.RecordingContext{TextValue: "/getbtcprice"}
	require.NoError(t, handler(c))

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.NotContains(t, sent[0].Text, "0.00")
	assert.Nil(t, sent[0].Markup)
}
