package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestShutdown_RunsAllHooks(t *testing.T) {
	s := NewShutdown(testLogger())

	var ran atomic.Int32
	for _, name := range []string{"bot", "metrics-server", "redis"} {
		s.Register(name, func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, int32(3), ran.Load())
}

func TestShutdown_AggregatesFailures(t *testing.T) {
	s := NewShutdown(testLogger())

	var ran atomic.Int32
	s.Register("redis", func(context.Context) error {
		ran.Add(1)
		return errors.New("connection already closed")
	})
	s.Register("metrics-server", func(context.Context) error {
		ran.Add(1)
		return nil
	})
	s.Register("sentry", func(context.Context) error {
		ran.Add(1)
		return errors.New("flush timed out")
	})

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
	assert.Contains(t, err.Error(), "sentry")
	assert.NotContains(t, err.Error(), "metrics-server")
	assert.Equal(t, int32(3), ran.Load(), "a failing hook must not stop the others")
}

func TestShutdown_HooksRunConcurrently(t *testing.T) {
	s := NewShutdown(testLogger())

	const hookCount = 4
	const hookSleep = 100 * time.Millisecond

	for i := 0; i < hookCount; i++ {
		s.Register("slow", func(context.Context) error {
			time.Sleep(hookSleep)
			return nil
		})
	}

	start := time.Now()
	require.NoError(t, s.Execute(context.Background()))

	assert.Less(t, time.Since(start), time.Duration(hookCount)*hookSleep,
		"hooks must not run one after another")
}

func TestShutdown_IgnoresNilHook(t *testing.T) {
	s := NewShutdown(testLogger())
	s.Register("nothing", nil)

	require.NoError(t, s.Execute(context.Background()))
}

func TestShutdown_NoHooksIsNoop(t *testing.T) {
	s := NewShutdown(testLogger())
	require.NoError(t, s.Execute(context.Background()))
}
