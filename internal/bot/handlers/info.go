package handlers

import (
	"fmt"

	telebot "gopkg.in/telebot.v3"

	"github.com/DanMarqz/Cryptocat/pkg/config"
)

// NewInfoHandler returns the /info command handler. The identity strings
// come from configuration, not from the build.
func NewInfoHandler(app config.AppConfig) Handler {
	return func(c telebot.Context) error {
		return c.Send(fmt.Sprintf(
			"Meow! I am %s, version %s. I can only fetch the price of Bitcoin for now. (BTC/USDT)",
			app.Name,
			app.Version,
		))
	}
}

// NewHelpHandler returns the /help command handler. The help text is
// rendered once from the static command table.
func NewHelpHandler(helpText string) Handler {
	return func(c telebot.Context) error {
		return c.Send(helpText)
	}
}
