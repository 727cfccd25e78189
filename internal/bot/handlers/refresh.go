package handlers

import (
	"context"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/DanMarqz/Cryptocat/internal/bot/keyboard"
	apperrors "github.com/DanMarqz/Cryptocat/internal/errors"
	"github.com/DanMarqz/Cryptocat/internal/quote"
)

// NewRefreshHandler returns the callback handler for the refresh button.
//
// Invariant: every matching callback query is acknowledged exactly once,
// after the edit attempt settles. On fetch or edit failure the message is
// left untouched and the transient notice rides on the acknowledgment
// itself, so the button never stays in a pending state.
func NewRefreshHandler(fetcher quote.Fetcher, errHandler *apperrors.Handler, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		if cb.Message == nil {
			// no target message to edit, but the press still needs clearing
			log.Warn("refresh callback without target message", slog.String("callback_id", cb.ID))
			return acknowledge(c, "", log)
		}

		ctx := context.Background()

		q, err := fetcher.Fetch(ctx)
		if err != nil {
			notice := "Could not fetch the bitcoin price. Please try again later."
			if errHandler != nil {
				if msg, _ := errHandler.Handle(ctx, err); msg != "" {
					notice = msg
				}
			}

			return acknowledge(c, notice, log)
		}

		if err := c.Edit(PriceMessage(q), keyboard.Refresh()); err != nil {
			if errors.Is(err, telebot.ErrSameMessageContent) {
				return acknowledge(c, "The price has not changed.", log)
			}

			log.Error("refresh callback: edit failed",
				slog.String("callback_id", cb.ID),
				slog.Any("error", err),
			)
			return acknowledge(c, "Could not update the message. Please try again.", log)
		}

		return acknowledge(c, "", log)
	}
}

// acknowledge answers the callback query, optionally with a transient
// notice. Ack failures are logged and never retried; the poll loop must not
// stall on a lost acknowledgment.
func acknowledge(c telebot.Context, notice string, log *slog.Logger) error {
	resp := &telebot.CallbackResponse{}
	if notice != "" {
		resp.Text = notice
	}

	if err := c.Respond(resp); err != nil {
		ackErr := apperrors.NewAckError(err)
		log.Error("failed to acknowledge callback query", slog.Any("error", ackErr))
	}

	return nil
}
