// Package testutil provides test doubles shared across package tests.
package testutil

import (
	"sync"

	telebot "gopkg.in/telebot.v3"
)

// SentMessage captures one outbound send or edit.
type SentMessage struct {
	Text   string
	Markup *telebot.ReplyMarkup
}

// RecordingContext is a telebot.Context double that records outbound calls.
// Only the methods the handlers use are implemented; anything else panics
// through the embedded nil interface, which is a test bug worth surfacing.
type RecordingContext struct {
	telebot.Context

	TextValue     string
	CallbackValue *telebot.Callback
	MessageValue  *telebot.Message
	SenderValue   *telebot.User

	SendErr    error
	EditErr    error
	RespondErr error

	mu        sync.Mutex
	sent      []SentMessage
	edits     []SentMessage
	responses []*telebot.CallbackResponse
	calls     []string
}

func (c *RecordingContext) Text() string {
	return c.TextValue
}

func (c *RecordingContext) Callback() *telebot.Callback {
	return c.CallbackValue
}

func (c *RecordingContext) Message() *telebot.Message {
	if c.MessageValue != nil {
		return c.MessageValue
	}
	if c.CallbackValue != nil {
		return c.CallbackValue.Message
	}
	return nil
}

func (c *RecordingContext) Sender() *telebot.User {
	return c.SenderValue
}

func (c *RecordingContext) Send(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, "send")
	if c.SendErr != nil {
		return c.SendErr
	}

	c.sent = append(c.sent, newSentMessage(what, opts))
	return nil
}

func (c *RecordingContext) Edit(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, "edit")
	if c.EditErr != nil {
		return c.EditErr
	}

	c.edits = append(c.edits, newSentMessage(what, opts))
	return nil
}

func (c *RecordingContext) Respond(resp ...*telebot.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, "respond")
	if c.RespondErr != nil {
		return c.RespondErr
	}

	if len(resp) > 0 {
		c.responses = append(c.responses, resp[0])
	} else {
		c.responses = append(c.responses, &telebot.CallbackResponse{})
	}
	return nil
}

// Sent returns all recorded Send calls that succeeded.
func (c *RecordingContext) Sent() []SentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SentMessage(nil), c.sent...)
}

// Edits returns all recorded Edit calls that succeeded.
func (c *RecordingContext) Edits() []SentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SentMessage(nil), c.edits...)
}

// Responses returns all recorded Respond calls that succeeded.
func (c *RecordingContext) Responses() []*telebot.CallbackResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*telebot.CallbackResponse(nil), c.responses...)
}

// Calls returns the ordered method call trace, including failed calls.
func (c *RecordingContext) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func newSentMessage(what interface{}, opts []interface{}) SentMessage {
	msg := SentMessage{}
	if text, ok := what.(string); ok {
		msg.Text = text
	}
	for _, opt := range opts {
		if markup, ok := opt.(*telebot.ReplyMarkup); ok {
			msg.Markup = markup
		}
	}
	return msg
}
