package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanMarqz/Cryptocat/internal/testutil"
	"github.com/DanMarqz/Cryptocat/pkg/config"
)

func TestInfoHandler(t *testing.T) {
	handler := NewInfoHandler(config.AppConfig{Name: "Cryptocat", Version: "1.2.0"})

	c := &testutil.RecordingContext{TextValue: "/info"}
	require.NoError(t, handler(c))

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "Cryptocat")
	assert.Contains(t, sent[0].Text, "1.2.0")
	assert.Contains(t, sent[0].Text, "BTC/USDT")
}

func TestHelpHandler(t *testing.T) {
	const help = "These commands are supported:\n/info — about the bot"
	handler := NewHelpHandler(help)

	c := &testutil.RecordingContext{TextValue: "/help"}
	require.NoError(t, handler(c))

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, help, sent[0].Text)
}
