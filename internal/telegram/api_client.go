package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// APIClient implements Client on top of the Bot API.
type APIClient struct {
	bot *tgbotapi.BotAPI
}

// NewAPIClient authorizes against the Bot API and returns the client.
func NewAPIClient(token string) (*APIClient, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}
	fmt.Printf("Authorized on account %s\n", bot.Self.UserName)
	return &APIClient{bot: bot}, nil
}

// Updates returns the long-polling update channel.
func (c *APIClient) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return c.bot.GetUpdatesChan(u)
}

// StopPolling stops the long-polling loop; the update channel is closed.
func (c *APIClient) StopPolling() {
	c.bot.StopReceivingUpdates()
}

// Send delivers a text or photo message and returns its message id.
// The Bot API binding is synchronous; ctx is accepted for interface
// compatibility.
func (c *APIClient) Send(_ context.Context, chatID int64, msg Outgoing) (int, error) {
	if msg.PhotoID != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(msg.PhotoID))
		photo.Caption = msg.Text
		photo.ReplyMarkup = replyMarkup(msg)
		sent, err := c.bot.Send(photo)
		if err != nil {
			return 0, err
		}
		return sent.MessageID, nil
	}

	text := tgbotapi.NewMessage(chatID, msg.Text)
	text.ReplyMarkup = replyMarkup(msg)
	sent, err := c.bot.Send(text)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// EditText replaces the text of a previously sent text message. Any inline
// keyboard on the message is removed.
func (c *APIClient) EditText(_ context.Context, chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	_, err := c.bot.Send(edit)
	return err
}

// EditCaption replaces the caption of a previously sent photo message. Any
// inline keyboard on the message is removed.
func (c *APIClient) EditCaption(_ context.Context, chatID int64, messageID int, caption string) error {
	edit := tgbotapi.NewEditMessageCaption(chatID, messageID, caption)
	_, err := c.bot.Send(edit)
	return err
}

// ClearButtons strips the inline keyboard from a message, leaving its
// content untouched.
func (c *APIClient) ClearButtons(_ context.Context, chatID int64, messageID int) error {
	markup := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup)
	_, err := c.bot.Send(edit)
	return err
}

// AnswerCallback acknowledges a callback query so the client stops showing
// the loading spinner.
func (c *APIClient) AnswerCallback(_ context.Context, callbackID string) error {
	_, err := c.bot.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}

// replyMarkup converts an Outgoing's keyboard fields to the Bot API type.
// Telegram accepts at most one of: inline keyboard, reply keyboard, remove.
func replyMarkup(msg Outgoing) interface{} {
	if len(msg.Inline) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(msg.Inline))
		for _, row := range msg.Inline {
			btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				if b.URL != "" {
					btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
				} else {
					btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
				}
			}
			rows = append(rows, btns)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	if len(msg.Reply) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(msg.Reply))
		for _, row := range msg.Reply {
			btns := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, b := range row {
				if b.RequestContact {
					btns = append(btns, tgbotapi.NewKeyboardButtonContact(b.Text))
				} else {
					btns = append(btns, tgbotapi.NewKeyboardButton(b.Text))
				}
			}
			rows = append(rows, btns)
		}
		markup := tgbotapi.NewReplyKeyboard(rows...)
		markup.OneTimeKeyboard = true
		return markup
	}
	if msg.RemoveReply {
		return tgbotapi.NewRemoveKeyboard(false)
	}
	return nil
}
