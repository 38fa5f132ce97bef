package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/issac-D/uni-market-bot/internal/models"
)

func sellPost() *models.Post {
	return &models.Post{
		ID:        42,
		UserID:    100,
		Kind:      models.PostKindSell,
		Category:  "Electronics",
		Condition: models.ConditionUsed,
		Title:     "Casio fx-991",
		Desc:      "Works fine, minor scratches.",
		Price:     "500",
		Status:    models.PostStatusApproved,
	}
}

func seller() *models.User {
	return &models.User{
		ID:       100,
		IsSeller: true,
		RealName: "Abebe Kebede",
		Phone:    "+251900000000",
		IDKind:   models.IDKindUniversity,
		IDValue:  "DBU1234567",
		Location: models.CampusMain,
	}
}

func TestPublicSell(t *testing.T) {
	v := Public(sellPost(), seller(), "@dbumarketersbot")

	assert.Contains(t, v.Text, "📦 Casio fx-991")
	assert.Contains(t, v.Text, "💰 Price: 500 ETB")
	assert.Contains(t, v.Text, "🛠 Condition: Used")
	assert.Contains(t, v.Text, "⛩️ Location: 🏫 Main Campus")
	assert.Contains(t, v.Text, "🆔 Post ID: 42")
	assert.Contains(t, v.Text, "@dbumarketersbot")
	assert.Equal(t, "📩 Contact Seller", v.ContactButton)
	assert.Equal(t, "https://t.me/dbumarketersbot?start=contact_42", v.ContactURL)
	assert.Equal(t, "🔴 Mark as Sold", v.ResolveButton)
}

func TestPublicLostFound(t *testing.T) {
	post := sellPost()
	post.Kind = models.PostKindLost
	post.Location = "🏫 Main Campus - library"
	v := Public(post, nil, "@dbumarketersbot")

	assert.Contains(t, v.Text, "🔴 LOST: Casio fx-991")
	assert.Contains(t, v.Text, "📢 Help Needed!")
	assert.Contains(t, v.Text, "⛩️ Location: 🏫 Main Campus - library")
	assert.NotContains(t, v.Text, "Price")
	assert.Equal(t, "🙋‍♂️ I Found It", v.ContactButton)
	// Lost/found contacts link straight to the reporter.
	assert.Equal(t, "tg://user?id=100", v.ContactURL)

	post.Kind = models.PostKindFound
	v = Public(post, nil, "@dbumarketersbot")
	assert.Contains(t, v.Text, "🟢 FOUND: Casio fx-991")
	assert.Contains(t, v.Text, "❓ Is this yours?")
	assert.Equal(t, "🫵 It's Mine", v.ContactButton)
	assert.Equal(t, "🤝 Owner Found / Returned", v.ResolveButton)
}

func TestLocationFallback(t *testing.T) {
	post := sellPost()
	assert.Equal(t, "🏫 Main Campus", Location(post, seller()))

	post.Location = "🏥 Health Campus - gate 2"
	assert.Equal(t, "🏥 Health Campus - gate 2", Location(post, seller()))

	post.Location = ""
	assert.Equal(t, "Unknown", Location(post, nil))
}

func TestClosed(t *testing.T) {
	post := sellPost()
	post.Status = models.PostStatusSold
	text := Closed(post, seller(), "@dbumarketersbot")

	assert.Contains(t, text, "🏁 CASE CLOSED: Casio fx-991")
	assert.Contains(t, text, "🔴 Status: SOLD")
	assert.Contains(t, text, "🆔 Post ID: 42")

	assert.Equal(t, "✅ Status: FOUND (Case Closed)", StatusLabel(models.PostKindLost))
	assert.Equal(t, "🤝 Status: RETURNED (Owner Found)", StatusLabel(models.PostKindFound))
}

func TestAdminSellReview(t *testing.T) {
	text := AdminSellReview(sellPost(), seller())

	assert.Contains(t, text, "🚨 NEW POST APPROVAL")
	assert.Contains(t, text, "👤 Seller: Abebe Kebede")
	assert.Contains(t, text, "📞 Phone: +251900000000")
	assert.Contains(t, text, "🆔 ID: DBU1234567")
	assert.Contains(t, text, "💰 Price: 500 (Used)")
	assert.Contains(t, text, "📂 Cat: Electronics")
}

func TestAdminReportReview(t *testing.T) {
	post := sellPost()
	post.Kind = models.PostKindLost
	post.Location = "🏫 Main Campus - cafeteria"

	text := AdminReportReview(post, nil)
	assert.Contains(t, text, "🚨 NEW LOST REPORT")
	assert.Contains(t, text, "👤 User: Guest User (Hidden)")

	text = AdminReportReview(post, seller())
	assert.Contains(t, text, "👤 User: Abebe Kebede (+251900000000)")
	assert.Contains(t, text, "📍 Loc: 🏫 Main Campus - cafeteria")
}

func TestAnnotationsPreserveContent(t *testing.T) {
	original := "🚨 NEW POST APPROVAL\n\n👤 Seller: X"

	for _, got := range []string{
		AnnotateRejected(original),
		AnnotateApproved(original),
		AnnotatePublished(original),
		AnnotatePublishFailed(original),
	} {
		assert.Contains(t, got, original)
	}
	assert.Contains(t, AnnotateRejected(original), "❌ REJECTED ❌")
	assert.Contains(t, AnnotatePublishFailed(original), "⚠️ CHANNEL POST FAILED")
}

func TestContactURL(t *testing.T) {
	assert.Equal(t, "tg://user?id=100", ContactURL(100))
}
