package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/issac-D/uni-market-bot/internal/telegram"
)

// handleAdminCommand processes the operator commands. Returns false when the
// message is not an admin command, so normal routing continues.
func (b *Bot) handleAdminCommand(ctx context.Context, msg *tgbotapi.Message) bool {
	cmd := msg.Command()
	switch cmd {
	case "users", "delete", "ban":
	default:
		return false
	}

	if !b.cfg.IsAdmin(msg.From.ID) {
		b.reply(ctx, msg.Chat.ID, telegram.Outgoing{Text: "🚫 This command is for moderators only."})
		return true
	}

	switch cmd {
	case "users":
		b.cmdUsers(ctx, msg.Chat.ID)
	case "delete":
		b.cmdDelete(ctx, msg.Chat.ID, msg.CommandArguments())
	case "ban":
		b.cmdBan(ctx, msg.Chat.ID, msg.CommandArguments())
	}
	return true
}

func (b *Bot) cmdUsers(ctx context.Context, chatID int64) {
	users, err := b.users.ListUsers(ctx)
	if err != nil {
		b.reply(ctx, chatID, telegram.Outgoing{Text: "🚨 Failed to load users."})
		return
	}
	if len(users) == 0 {
		b.reply(ctx, chatID, telegram.Outgoing{Text: "👥 No registered users yet."})
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 REGISTERED USERS (%d)\n\n", len(users))
	for _, u := range users {
		handle := "-"
		if u.Username != "" {
			handle = "@" + u.Username
		}
		fmt.Fprintf(&sb, "• %d — %s (%s) 📞 %s\n", u.ID, u.RealName, handle, u.Phone)
	}
	b.reply(ctx, chatID, telegram.Outgoing{Text: sb.String()})
}

func (b *Bot) cmdDelete(ctx context.Context, chatID int64, args string) {
	userID, ok := parseUserArg(args)
	if !ok {
		b.reply(ctx, chatID, telegram.Outgoing{Text: "Usage: /delete <user_id>"})
		return
	}
	if err := b.users.DeleteUserData(ctx, userID); err != nil {
		b.reply(ctx, chatID, telegram.Outgoing{Text: fmt.Sprintf("🚨 Failed to delete user %d.", userID)})
		return
	}
	b.reply(ctx, chatID, telegram.Outgoing{Text: fmt.Sprintf("🗑 User %d and their posts were deleted. They may register again.", userID)})
}

func (b *Bot) cmdBan(ctx context.Context, chatID int64, args string) {
	userID, ok := parseUserArg(args)
	if !ok {
		b.reply(ctx, chatID, telegram.Outgoing{Text: "Usage: /ban <user_id>"})
		return
	}
	if err := b.users.BanUser(ctx, userID); err != nil {
		b.reply(ctx, chatID, telegram.Outgoing{Text: fmt.Sprintf("🚨 Failed to ban user %d.", userID)})
		return
	}
	b.reply(ctx, chatID, telegram.Outgoing{Text: fmt.Sprintf("⛔️ User %d is banned and their data was removed.", userID)})
}

func parseUserArg(args string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
