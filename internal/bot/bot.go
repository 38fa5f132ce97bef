// Package bot owns the update loop: it normalizes Telegram updates, applies
// the blacklist and flood gates, routes menu presses and commands, and feeds
// everything else to the active conversation flow.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/issac-D/uni-market-bot/internal/callback"
	"github.com/issac-D/uni-market-bot/internal/config"
	"github.com/issac-D/uni-market-bot/internal/flow"
	"github.com/issac-D/uni-market-bot/internal/models"
	"github.com/issac-D/uni-market-bot/internal/render"
	"github.com/issac-D/uni-market-bot/internal/services"
	"github.com/issac-D/uni-market-bot/internal/telegram"
)

const bannedText = "🚫 You are banned from using this bot."

// Bot wires the transport to the flows and the moderation workflow.
type Bot struct {
	api          *telegram.APIClient
	client       telegram.Client
	cfg          *config.Config
	users        services.IUserService
	posts        services.IPostService
	interactions services.IInteractionService
	moderation   services.IModerationService
	flows        *flow.Manager
	limiter      *floodLimiter
	wg           sync.WaitGroup
}

// New creates the bot.
func New(api *telegram.APIClient, cfg *config.Config, users services.IUserService,
	posts services.IPostService, interactions services.IInteractionService,
	moderation services.IModerationService, flows *flow.Manager) *Bot {
	return &Bot{
		api:          api,
		client:       api,
		cfg:          cfg,
		users:        users,
		posts:        posts,
		interactions: interactions,
		moderation:   moderation,
		flows:        flows,
		limiter:      newFloodLimiter(rate.Limit(cfg.FloodRefillRate), cfg.FloodBucketSize),
	}
}

// Run consumes updates until the context is cancelled, handling each one in
// its own goroutine. It returns once in-flight handlers have finished.
func (b *Bot) Run(ctx context.Context) {
	updates := b.api.Updates()
	log.Println("Bot update loop started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopPolling()
			b.wg.Wait()
			log.Println("Bot update loop stopped")
			return
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				defer func() {
					if r := recover(); r != nil {
						log.Printf("Recovered from panic while handling update: %v", r)
					}
				}()
				b.handleUpdate(ctx, u)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	userID := msg.From.ID

	if !b.limiter.Allow(userID) {
		return
	}

	banned, err := b.users.IsBlacklisted(ctx, userID)
	if err != nil {
		log.Printf("Blacklist check failed for user %d: %v", userID, err)
		return
	}
	if banned {
		b.reply(ctx, msg.Chat.ID, telegram.Outgoing{Text: bannedText, RemoveReply: true})
		return
	}

	if b.handleAdminCommand(ctx, msg) {
		return
	}

	from := flow.Sender{ID: userID, Username: msg.From.UserName}

	switch msg.Command() {
	case "start":
		_ = b.flows.Cancel(ctx, userID)
		if payload, ok := strings.CutPrefix(msg.CommandArguments(), "contact_"); ok {
			b.handleContactStart(ctx, msg.Chat.ID, userID, payload)
			return
		}
		b.reply(ctx, msg.Chat.ID, telegram.Outgoing{
			Text: "👋 Welcome to the campus marketplace!\n\n" +
				"🛒 Buy and sell items, 🔍 report lost & found, 📝 tell us what you think.",
			Reply: flow.MainMenu(),
		})
		return
	case "cancel":
		b.cancel(ctx, msg.Chat.ID, userID)
		return
	}

	// Cancel and menu-return work from anywhere, including mid-flow.
	switch msg.Text {
	case flow.BtnCancel:
		b.cancel(ctx, msg.Chat.ID, userID)
		return
	case flow.BtnMainMenu:
		_ = b.flows.Cancel(ctx, userID)
		b.reply(ctx, msg.Chat.ID, telegram.Outgoing{Text: "🏠 Main menu:", Reply: flow.MainMenu()})
		return
	}

	in := normalize(msg)
	handled, replies, err := b.flows.HandleInput(ctx, from, in)
	if err != nil {
		log.Printf("Flow turn failed for user %d: %v", userID, err)
		b.reply(ctx, msg.Chat.ID, telegram.Outgoing{Text: "🚨 Something went wrong. Please try again."})
		return
	}
	if handled {
		b.replyAll(ctx, msg.Chat.ID, replies)
		return
	}

	b.routeMenu(ctx, msg.Chat.ID, from, msg.Text)
}

// routeMenu maps menu button presses to submenus and flow starts.
func (b *Bot) routeMenu(ctx context.Context, chatID int64, from flow.Sender, text string) {
	switch text {
	case flow.BtnMarketplace:
		b.reply(ctx, chatID, telegram.Outgoing{Text: "🛒 Marketplace — register once, then sell:", Reply: flow.MarketplaceMenu()})
	case flow.BtnLostFound:
		b.reply(ctx, chatID, telegram.Outgoing{Text: "🔍 Lost & Found — report what you lost or found:", Reply: flow.LostFoundMenu()})
	case flow.BtnFeedback:
		b.startFlow(ctx, chatID, "feedback", from)
	case flow.BtnRegister:
		b.startFlow(ctx, chatID, "registration", from)
	case flow.BtnSell:
		b.startFlow(ctx, chatID, "sell", from)
	case flow.BtnLost:
		b.startFlow(ctx, chatID, "lost", from)
	case flow.BtnFound:
		b.startFlow(ctx, chatID, "found", from)
	default:
		b.reply(ctx, chatID, telegram.Outgoing{Text: "🤔 I didn't get that. Use the menu below:", Reply: flow.MainMenu()})
	}
}

func (b *Bot) startFlow(ctx context.Context, chatID int64, name string, from flow.Sender) {
	replies, err := b.flows.Start(ctx, name, from)
	if err != nil {
		log.Printf("Failed to start %s flow for user %d: %v", name, from.ID, err)
		b.reply(ctx, chatID, telegram.Outgoing{Text: "🚨 Something went wrong. Please try again."})
		return
	}
	b.replyAll(ctx, chatID, replies)
}

// handleContactStart serves the channel's "Contact Seller" deep link: it
// records the buyer/seller interaction and hands out the seller's direct
// chat link.
func (b *Bot) handleContactStart(ctx context.Context, chatID, buyerID int64, rawPostID string) {
	postID, err := strconv.ParseInt(rawPostID, 10, 64)
	if err != nil {
		b.reply(ctx, chatID, telegram.Outgoing{Text: "🤔 That link looks broken.", Reply: flow.MainMenu()})
		return
	}

	post, err := b.posts.FindByID(ctx, postID)
	if err != nil {
		b.reply(ctx, chatID, telegram.Outgoing{Text: "🤷 That post doesn't exist anymore.", Reply: flow.MainMenu()})
		return
	}
	if post.Status != models.PostStatusApproved {
		b.reply(ctx, chatID, telegram.Outgoing{Text: "🔴 This item is no longer available.", Reply: flow.MainMenu()})
		return
	}

	if _, err := b.interactions.RecordInteraction(ctx, buyerID, post.UserID, post.ID); err != nil {
		log.Printf("Failed to record interaction on post %d: %v", post.ID, err)
	}

	b.reply(ctx, chatID, telegram.Outgoing{
		Text: fmt.Sprintf("📦 %s\n\nTap below to message the seller directly:", post.Title),
		Inline: telegram.Keyboard{{
			{Text: "👤 Open Chat", URL: render.ContactURL(post.UserID)},
		}},
	})
}

func (b *Bot) cancel(ctx context.Context, chatID, userID int64) {
	_ = b.flows.Cancel(ctx, userID)
	b.reply(ctx, chatID, telegram.Outgoing{Text: "❌ Cancelled. Nothing was saved.", Reply: flow.MainMenu()})
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if err := b.client.AnswerCallback(ctx, cb.ID); err != nil {
		log.Printf("Failed to answer callback %s: %v", cb.ID, err)
	}
	if cb.Message == nil {
		return
	}

	kind, postID, err := callback.Decode(cb.Data)
	if err != nil {
		log.Printf("Ignoring callback from user %d: %v", cb.From.ID, err)
		return
	}

	ref := services.MessageRef{
		ChatID:    cb.Message.Chat.ID,
		MessageID: cb.Message.MessageID,
		HasPhoto:  len(cb.Message.Photo) > 0,
		Body:      messageBody(cb.Message),
	}

	switch kind {
	case callback.KindApprove, callback.KindReject:
		action := services.DecisionApprove
		if kind == callback.KindReject {
			action = services.DecisionReject
		}
		err = b.moderation.HandleDecision(ctx, services.DecisionEvent{
			Action:  action,
			PostID:  postID,
			ActorID: cb.From.ID,
			Admin:   ref,
		})
	case callback.KindResolve:
		err = b.moderation.HandleResolve(ctx, services.ResolveEvent{
			PostID:  postID,
			ActorID: cb.From.ID,
			Origin:  ref,
		})
	}

	switch {
	case err == nil:
	case errors.Is(err, services.ErrPostNotFound):
		// The post was deleted between the button render and the press.
		b.editRef(ctx, ref, "⚠️ Error: Post not found.")
	case errors.Is(err, services.ErrStatusConflict):
		// Double-tap or race between moderators; the first press won.
		log.Printf("Stale %s press on post %d by user %d", kind, postID, cb.From.ID)
	case errors.Is(err, services.ErrNotAuthorized):
		log.Printf("Unauthorized %s press on post %d by user %d", kind, postID, cb.From.ID)
	default:
		log.Printf("Callback %s on post %d failed: %v", kind, postID, err)
	}
}

// editRef rewrites the message a callback button was attached to, dropping
// its buttons.
func (b *Bot) editRef(ctx context.Context, ref services.MessageRef, text string) {
	var err error
	if ref.HasPhoto {
		err = b.client.EditCaption(ctx, ref.ChatID, ref.MessageID, text)
	} else {
		err = b.client.EditText(ctx, ref.ChatID, ref.MessageID, text)
	}
	if err != nil {
		log.Printf("Failed to edit message %d in chat %d: %v", ref.MessageID, ref.ChatID, err)
	}
}

// normalize flattens a message into a flow input: contact beats photo beats
// text, and photo captions ride along as text.
func normalize(msg *tgbotapi.Message) flow.Input {
	in := flow.Input{Text: messageBody(msg)}
	if msg.Contact != nil {
		in.Contact = &flow.Contact{UserID: msg.Contact.UserID, Phone: msg.Contact.PhoneNumber}
	}
	if len(msg.Photo) > 0 {
		// Sizes are ordered small to large; keep the best one.
		in.PhotoID = msg.Photo[len(msg.Photo)-1].FileID
	}
	return in
}

func messageBody(msg *tgbotapi.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

func (b *Bot) reply(ctx context.Context, chatID int64, out telegram.Outgoing) {
	if _, err := b.client.Send(ctx, chatID, out); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) replyAll(ctx context.Context, chatID int64, replies []telegram.Outgoing) {
	for _, out := range replies {
		b.reply(ctx, chatID, out)
	}
}
