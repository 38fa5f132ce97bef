// Package render builds the user-visible message texts for the three
// surfaces: admin review messages, public channel posts, and their
// closed-case edits.
package render

import (
	"fmt"
	"strings"

	"github.com/issac-D/uni-market-bot/internal/models"
)

const divider = "➖➖➖➖➖➖➖➖"

// ConditionLabel is the display form of a condition tag.
func ConditionLabel(c models.Condition) string {
	switch c {
	case models.ConditionNew:
		return "New"
	case models.ConditionUsed:
		return "Used"
	}
	return "N/A"
}

// Location resolves the display location of a post: the explicit location
// field when the report carries one, otherwise the owner's profile campus.
func Location(post *models.Post, owner *models.User) string {
	if post.Location != "" {
		return post.Location
	}
	if owner != nil {
		return owner.Location.Label()
	}
	return "Unknown"
}

// ContactURL deep-links to the submitter's Telegram identity.
func ContactURL(userID int64) string {
	return fmt.Sprintf("tg://user?id=%d", userID)
}

// BotStartURL deep-links into the bot with a start payload, so the press
// lands on the bot instead of opening a chat directly.
func BotStartURL(botHandle, payload string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", strings.TrimPrefix(botHandle, "@"), payload)
}

// PublicView is the kind-specific rendering of an approved post for the
// public channel.
type PublicView struct {
	Text          string
	ContactButton string // channel-side contact affordance
	ContactURL    string // where the contact button leads
	ResolveButton string // submitter's close-case control
}

// Public renders the channel post for an approved listing.
func Public(post *models.Post, owner *models.User, botHandle string) PublicView {
	var header, statusLine string
	var v PublicView

	switch post.Kind {
	case models.PostKindLost:
		header = fmt.Sprintf("🔴 LOST: %s", post.Title)
		statusLine = "📢 Help Needed!"
		v.ContactButton = "🙋‍♂️ I Found It"
		v.ContactURL = ContactURL(post.UserID)
		v.ResolveButton = "🎉 I Found My Item"
	case models.PostKindFound:
		header = fmt.Sprintf("🟢 FOUND: %s", post.Title)
		statusLine = "❓ Is this yours?"
		v.ContactButton = "🫵 It's Mine"
		v.ContactURL = ContactURL(post.UserID)
		v.ResolveButton = "🤝 Owner Found / Returned"
	default: // SELL
		header = fmt.Sprintf("📦 %s", post.Title)
		statusLine = fmt.Sprintf("💰 Price: %s ETB\n🛠 Condition: %s", post.Price, ConditionLabel(post.Condition))
		v.ContactButton = "📩 Contact Seller"
		// Sell contacts go through the bot so the interaction is recorded.
		v.ContactURL = BotStartURL(botHandle, fmt.Sprintf("contact_%d", post.ID))
		v.ResolveButton = "🔴 Mark as Sold"
	}

	v.Text = strings.Join([]string{
		header,
		divider,
		statusLine,
		fmt.Sprintf("⛩️ Location: %s", Location(post, owner)),
		divider,
		fmt.Sprintf("📝 %s", post.Desc),
		divider,
		fmt.Sprintf("🆔 Post ID: %d", post.ID),
		divider,
		fmt.Sprintf("%s : use this link to access the bot", botHandle),
	}, "\n")

	return v
}

// StatusLabel is the closed-case status line per kind.
func StatusLabel(kind models.PostKind) string {
	switch kind {
	case models.PostKindLost:
		return "✅ Status: FOUND (Case Closed)"
	case models.PostKindFound:
		return "🤝 Status: RETURNED (Owner Found)"
	}
	return "🔴 Status: SOLD"
}

// Closed renders the in-place edit of a published post once the submitter
// resolves it.
func Closed(post *models.Post, owner *models.User, botHandle string) string {
	return strings.Join([]string{
		fmt.Sprintf("🏁 CASE CLOSED: %s", post.Title),
		divider,
		StatusLabel(post.Kind),
		fmt.Sprintf("📍 Location: %s", Location(post, owner)),
		divider,
		fmt.Sprintf("📝 %s", post.Desc),
		divider,
		fmt.Sprintf("🆔 Post ID: %d", post.ID),
		divider,
		fmt.Sprintf("%s : use this link to access the bot", botHandle),
	}, "\n")
}

// AdminSellReview renders the admin group's decision request for a sell
// listing, including the seller's verification data.
func AdminSellReview(post *models.Post, seller *models.User) string {
	return fmt.Sprintf(
		"🚨 NEW POST APPROVAL\n\n"+
			"👤 Seller: %s\n"+
			"📞 Phone: %s\n"+
			"🆔 ID: %s\n"+
			"📍 Loc: %s\n"+
			"---------------------------\n"+
			"📦 Item: %s\n"+
			"💰 Price: %s (%s)\n"+
			"📂 Cat: %s\n"+
			"📝 Desc: %s",
		seller.RealName, seller.Phone, seller.IDValue, seller.Location.Label(),
		post.Title, post.Price, ConditionLabel(post.Condition), post.Category, post.Desc,
	)
}

// AdminReportReview renders the admin group's decision request for a
// lost/found report. reporter may be nil for guest LOST reports.
func AdminReportReview(post *models.Post, reporter *models.User) string {
	name, phone := "Guest User", "Hidden"
	if reporter != nil {
		name, phone = reporter.RealName, reporter.Phone
	}
	return fmt.Sprintf(
		"🚨 NEW %s REPORT\n"+
			"👤 User: %s (%s)\n"+
			"📦 Item: %s\n"+
			"📍 Loc: %s\n"+
			"📝 Desc: %s",
		post.Kind, name, phone, post.Title, Location(post, reporter), post.Desc,
	)
}

// Admin message annotations. The original review content is preserved
// verbatim under the marker.

func AnnotateRejected(original string) string {
	return "❌ REJECTED ❌\n\n" + original
}

func AnnotateApproved(original string) string {
	return "✅ APPROVED\n\n" + original
}

func AnnotatePublished(original string) string {
	return "✅ APPROVED & PUBLISHED\n\n" + original
}

func AnnotatePublishFailed(original string) string {
	return "⚠️ CHANNEL POST FAILED (Check Permissions)\n\n" + original
}
