package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/DanMarqz/Cryptocat/internal/errors"
	"github.com/DanMarqz/Cryptocat/pkg/config"
	"github.com/DanMarqz/Cryptocat/pkg/metrics"
)

const maxResponseBytes = 1 << 16

// tickerResponse mirrors the Binance /api/v3/ticker/price payload. The price
// arrives as a string and stays decimal end to end.
type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// Client fetches quotes over HTTP. It performs no retries; retry policy, if
// any, belongs to the caller.
type Client struct {
	http     *http.Client
	endpoint string
	symbol   string
	log      *slog.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg config.QuoteConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.Endpoint,
		symbol:   cfg.Symbol,
		log:      log,
	}
}

// Fetch performs one GET against the ticker endpoint and parses the price
// field into an exact decimal. Every failure mode surfaces as an error; a
// quote is never silently defaulted.
func (c *Client) Fetch(ctx context.Context) (*Quote, error) {
	reqURL := fmt.Sprintf("%s?symbol=%s", c.endpoint, url.QueryEscape(c.symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewFetchError("build request", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordQuoteFetch("transport_error", time.Since(start))
		return nil, apperrors.NewFetchError("request ticker", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordQuoteFetch("bad_status", time.Since(start))
		return nil, apperrors.NewFetchError(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var body tickerResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		metrics.RecordQuoteFetch("bad_body", time.Since(start))
		return nil, apperrors.NewFetchError("decode response body", err)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(body.Price))
	if err != nil {
		metrics.RecordQuoteFetch("bad_price", time.Since(start))
		return nil, apperrors.NewQuoteParseError(body.Price, err)
	}

	metrics.RecordQuoteFetch("ok", time.Since(start))

	c.log.Debug("fetched quote",
		slog.String("symbol", c.symbol),
		slog.String("price", price.String()),
		slog.Duration("duration", time.Since(start)),
	)

	return &Quote{
		Symbol:    c.symbol,
		Price:     price,
		FetchedAt: time.Now().UTC(),
	}, nil
}
