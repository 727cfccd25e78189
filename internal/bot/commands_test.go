package bot

import (
	"strings"
	"testing"
)

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected Command
		ok       bool
	}{
		{name: "info", text: "/info", expected: CommandInfo, ok: true},
		{name: "help", text: "/help", expected: CommandHelp, ok: true},
		{name: "get price", text: "/getbtcprice", expected: CommandGetPrice, ok: true},
		{name: "uppercase", text: "/GetBtcPrice", expected: CommandGetPrice, ok: true},
		{name: "bot addressing", text: "/help@CryptocatBot", expected: CommandHelp, ok: true},
		{name: "trailing arguments", text: "/getbtcprice now please", expected: CommandGetPrice, ok: true},
		{name: "surrounding whitespace", text: "  /info  ", expected: CommandInfo, ok: true},
		{name: "plain text", text: "hello", expected: CommandUnknown, ok: false},
		{name: "unknown command", text: "/price", expected: CommandUnknown, ok: false},
		{name: "empty", text: "", expected: CommandUnknown, ok: false},
		{name: "bare slash", text: "/", expected: CommandUnknown, ok: false},
		{name: "command embedded in text", text: "try /help", expected: CommandUnknown, ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := ParseCommand(tc.text)
			if cmd != tc.expected || ok != tc.ok {
				t.Errorf("ParseCommand(%q) = (%v, %t), expected (%v, %t)", tc.text, cmd, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestHelpText(t *testing.T) {
	help := HelpText()

	for _, fragment := range []string{
		"/info", "About this bot.",
		"/help", "Display this text.",
		"/getbtcprice", "Get BTC/USDT price.",
	} {
		if !strings.Contains(help, fragment) {
			t.Errorf("help text missing %q:\n%s", fragment, help)
		}
	}
}
