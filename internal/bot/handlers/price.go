package handlers

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/DanMarqz/Cryptocat/internal/bot/keyboard"
	apperrors "github.com/DanMarqz/Cryptocat/internal/errors"
	"github.com/DanMarqz/Cryptocat/internal/quote"
)

// PriceMessage renders the reply text for a fetched quote.
func PriceMessage(q *quote.Quote) string {
	return fmt.Sprintf("The price of the bitcoin is: %s", q.Format())
}

// NewPriceHandler returns the /getbtcprice command handler. On success the
// reply carries the refresh button; on failure the reply describes the
// failure and carries no button. Either way exactly one reply is sent.
func NewPriceHandler(fetcher quote.Fetcher, errHandler *apperrors.Handler, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		ctx := context.Background()

		q, err := fetcher.Fetch(ctx)
		if err != nil {
			userMsg := "Could not fetch the bitcoin price. Please try again later."
			if errHandler != nil {
				if msg, _ := errHandler.Handle(ctx, err); msg != "" {
					userMsg = msg
				}
			} else {
				log.Error("price command: fetch failed", slog.Any("error", err))
			}

			return c.Send(userMsg)
		}

		return c.Send(PriceMessage(q), keyboard.Refresh())
	}
}
