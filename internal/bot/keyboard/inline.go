// Package keyboard builds the inline markup attached to bot replies.
package keyboard

import (
	telebot "gopkg.in/telebot.v3"
)

// RefreshAction is the callback data carried by the refresh button. The
// interaction lane filters on this exact tag.
const RefreshAction = "refresh_price"

// Button is a lightweight inline button definition consumed by the builder.
type Button struct {
	Text string
	Data string
}

// InlineBuilder accumulates rows of buttons before rendering telebot markup.
type InlineBuilder struct {
	rows [][]Button
}

// NewInline creates an empty inline keyboard builder.
func NewInline() *InlineBuilder {
	return &InlineBuilder{rows: make([][]Button, 0)}
}

// Row appends a row of buttons. Empty rows are ignored.
func (b *InlineBuilder) Row(buttons ...Button) *InlineBuilder {
	if len(buttons) == 0 {
		return b
	}

	row := make([]Button, len(buttons))
	copy(row, buttons)
	b.rows = append(b.rows, row)
	return b
}

// Markup renders the accumulated rows into telebot reply markup.
func (b *InlineBuilder) Markup() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = make([][]telebot.InlineButton, len(b.rows))

	for i, row := range b.rows {
		markup.InlineKeyboard[i] = make([]telebot.InlineButton, len(row))
		for j, btn := range row {
			markup.InlineKeyboard[i][j] = telebot.InlineButton{
				Text: btn.Text,
				Data: btn.Data,
			}
		}
	}

	return markup
}

// Refresh builds the single-button markup attached to price replies. The
// same markup is reattached on every in-place edit so the button survives
// repeated refreshes.
func Refresh() *telebot.ReplyMarkup {
	return NewInline().
		Row(Button{Text: "Update Price", Data: RefreshAction}).
		Markup()
}
