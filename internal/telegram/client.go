// Package telegram isolates the chat transport behind a small interface so
// the flows and the moderation controller can be exercised without a live
// bot connection.
package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Button is an inline action control attached to a message. Exactly one of
// URL or Data should be set.
type Button struct {
	Text string
	URL  string
	Data string // callback payload
}

// Keyboard is a grid of inline buttons.
type Keyboard [][]Button

// ReplyButton is a button on the persistent reply keyboard. RequestContact
// asks the client to share the user's own contact card.
type ReplyButton struct {
	Text           string
	RequestContact bool
}

// ReplyKeyboard is a grid of reply buttons.
type ReplyKeyboard [][]ReplyButton

// Outgoing is a message to deliver. If PhotoID is set the message is sent as
// a photo with Text as its caption, otherwise as plain text.
type Outgoing struct {
	Text        string
	PhotoID     string
	Inline      Keyboard
	Reply       ReplyKeyboard
	RemoveReply bool
}

// Client is the transport contract the workflow depends on. Implementations
// must return the transport-assigned message id from Send so published posts
// can be edited later.
type Client interface {
	Send(ctx context.Context, chatID int64, msg Outgoing) (messageID int, err error)
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
	EditCaption(ctx context.Context, chatID int64, messageID int, caption string) error
	ClearButtons(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// IsUnreachable reports whether a delivery error means the recipient cannot
// be messaged at all (user blocked the bot, bot kicked from the chat), as
// opposed to a transient or configuration failure.
func IsUnreachable(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 403
	}
	return false
}
