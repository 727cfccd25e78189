// Package health aggregates liveness checks for the bot's collaborators.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/DanMarqz/Cryptocat/internal/quote"
)

// Checkable represents a component that can report its health status.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// Checker aggregates health checks for multiple components.
type Checker struct {
	log    *slog.Logger
	checks map[string]Checkable
}

// NewChecker instantiates a Checker with the provided logger.
func NewChecker(log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}

	return &Checker{
		log:    log,
		checks: make(map[string]Checkable),
	}
}

// AddCheck registers a checkable component by name.
func (c *Checker) AddCheck(name string, check Checkable) {
	if name == "" || check == nil {
		return
	}
	c.checks[name] = check
}

// Check runs all registered health checks and returns their statuses.
func (c *Checker) Check(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string, len(c.checks))
	healthy := true

	for name, check := range c.checks {
		if err := check.HealthCheck(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
			c.log.Error("health check failed", slog.String("component", name), slog.Any("error", err))
			continue
		}

		results[name] = "OK"
	}

	return results, healthy
}

// HTTPHandler serves the aggregated check results as JSON, answering 503
// when any component is failing.
func HTTPHandler(checker *Checker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		results, healthy := checker.Check(ctx)

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(results)
	})
}

// TelegramChecker verifies the Telegram session by calling getMe.
type TelegramChecker struct {
	tb *telebot.Bot
}

// NewTelegramChecker constructs a TelegramChecker.
func NewTelegramChecker(tb *telebot.Bot) *TelegramChecker {
	return &TelegramChecker{tb: tb}
}

// HealthCheck issues a getMe call against the Bot API. The call itself has
// no context plumbing, so a stalled one is abandoned when ctx expires.
func (c *TelegramChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.tb == nil {
		return fmt.Errorf("telegram bot not configured")
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := c.tb.Raw("getMe", nil)
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QuoteChecker verifies the quote endpoint answers with a parseable price.
type QuoteChecker struct {
	fetcher quote.Fetcher
}

// NewQuoteChecker constructs a QuoteChecker.
func NewQuoteChecker(fetcher quote.Fetcher) *QuoteChecker {
	return &QuoteChecker{fetcher: fetcher}
}

// HealthCheck fetches one quote and discards it.
func (c *QuoteChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.fetcher == nil {
		return fmt.Errorf("quote fetcher not configured")
	}

	_, err := c.fetcher.Fetch(ctx)
	return err
}
