package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubCheckable struct {
	err error
}

func (s *stubCheckable) HealthCheck(context.Context) error {
	return s.err
}

func TestChecker_AllHealthy(t *testing.T) {
	checker := NewChecker(testLogger())
	checker.AddCheck("telegram", &stubCheckable{})
	checker.AddCheck("quote", &stubCheckable{})

	results, healthy := checker.Check(context.Background())
	assert.True(t, healthy)
	assert.Equal(t, map[string]string{"telegram": "OK", "quote": "OK"}, results)
}

func TestChecker_ReportsFailingComponent(t *testing.T) {
	checker := NewChecker(testLogger())
	checker.AddCheck("telegram", &stubCheckable{})
	checker.AddCheck("quote", &stubCheckable{err: errors.New("endpoint unreachable")})

	results, healthy := checker.Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "OK", results["telegram"])
	assert.Equal(t, "endpoint unreachable", results["quote"])
}

func TestChecker_IgnoresInvalidRegistrations(t *testing.T) {
	checker := NewChecker(testLogger())
	checker.AddCheck("", &stubCheckable{})
	checker.AddCheck("nothing", nil)

	results, healthy := checker.Check(context.Background())
	assert.True(t, healthy)
	assert.Empty(t, results)
}

func TestHTTPHandler_HealthyAnswers200(t *testing.T) {
	checker := NewChecker(testLogger())
	checker.AddCheck("telegram", &stubCheckable{})

	rec := httptest.NewRecorder()
	HTTPHandler(checker).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["telegram"])
}

func TestHTTPHandler_UnhealthyAnswers503(t *testing.T) {
	checker := NewChecker(testLogger())
	checker.AddCheck("quote", &stubCheckable{err: errors.New("bad status 500")})

	rec := httptest.NewRecorder()
	HTTPHandler(checker).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad status 500", body["quote"])
}

func TestTelegramChecker_HonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	tb, err := telebot.NewBot(telebot.Settings{
		Token:   "123456:test",
		URL:     srv.URL,
		Offline: true,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = NewTelegramChecker(tb).HealthCheck(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "a stalled getMe must not hold the check")
}

func TestTelegramChecker_NotConfigured(t *testing.T) {
	var c *TelegramChecker
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestQuoteChecker_NotConfigured(t *testing.T) {
	var c *QuoteChecker
	assert.Error(t, c.HealthCheck(context.Background()))
}
