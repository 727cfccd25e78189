package bot

import (
	"fmt"
	"strings"
)

// Command is the closed set of commands the bot understands. Dispatch goes
// through this enumeration rather than raw strings so an unknown command can
// never reach a handler.
type Command int

const (
	CommandUnknown Command = iota
	CommandInfo
	CommandHelp
	CommandGetPrice
)

type commandSpec struct {
	Name        string
	Command     Command
	Description string
}

// commandTable is the single source of truth for command names and the
// /help output.
var commandTable = []commandSpec{
	{Name: "/info", Command: CommandInfo, Description: "About this bot."},
	{Name: "/help", Command: CommandHelp, Description: "Display this text."},
	{Name: "/getbtcprice", Command: CommandGetPrice, Description: "Get BTC/USDT price."},
}

// ParseCommand maps raw message text onto a Command. It accepts the
// /command@BotName addressing form and trailing arguments, and reports ok
// as false for anything that is not a known command.
func ParseCommand(text string) (Command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return CommandUnknown, false
	}

	name := strings.Fields(text)[0]
	if at := strings.IndexByte(name, '@'); at != -1 {
		name = name[:at]
	}
	name = strings.ToLower(name)

	for _, spec := range commandTable {
		if spec.Name == name {
			return spec.Command, true
		}
	}

	return CommandUnknown, false
}

// HelpText renders the command list for the /help reply.
func HelpText() string {
	var b strings.Builder
	b.WriteString("These commands are supported:")
	for _, spec := range commandTable {
		fmt.Fprintf(&b, "\n%s — %s", spec.Name, spec.Description)
	}
	return b.String()
}
