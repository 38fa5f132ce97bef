package flow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/issac-D/uni-market-bot/internal/services"
	"github.com/issac-D/uni-market-bot/internal/telegram"
)

const stepFeedbackText = "feedback_text"

// FeedbackFlow collects one free-text message and relays it to the admin
// group.
type FeedbackFlow struct {
	feedback    services.IFeedbackService
	client      telegram.Client
	adminChatID int64
	maxPerDay   int
}

// NewFeedbackFlow creates the feedback flow.
func NewFeedbackFlow(feedback services.IFeedbackService, client telegram.Client, adminChatID int64, maxPerDay int) *FeedbackFlow {
	return &FeedbackFlow{feedback: feedback, client: client, adminChatID: adminChatID, maxPerDay: maxPerDay}
}

func (f *FeedbackFlow) Name() string { return "feedback" }

func (f *FeedbackFlow) Enter(ctx context.Context, from Sender) (StepResult, error) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	count, err := f.feedback.CountRecentByUser(ctx, from.ID, since)
	if err != nil {
		return StepResult{}, err
	}
	if count >= int64(f.maxPerDay) {
		return done(prompt("⏳ You've sent enough feedback for today. Thank you, we're reading it!", MainMenu())), nil
	}
	return next(NewDraft(f.Name(), stepFeedbackText),
		prompt("📝 We'd love to hear from you! Send your feedback in one message:", cancelKeyboard())), nil
}

func (f *FeedbackFlow) Advance(ctx context.Context, from Sender, draft *Draft, in Input) (StepResult, error) {
	if draft.Step != stepFeedbackText {
		return StepResult{}, fmt.Errorf("unknown feedback step %q", draft.Step)
	}
	content := strings.TrimSpace(in.Text)
	if content == "" {
		return next(draft, prompt("❌ Please send your feedback as a text message:", cancelKeyboard())), nil
	}

	entry, err := f.feedback.AddFeedback(ctx, from.ID, content)
	if err != nil {
		return StepResult{}, err
	}

	// Relay is best-effort; the stored row is what counts for the cap.
	relay := fmt.Sprintf("📬 FEEDBACK #%d\n👤 From: @%s (%d)\n\n%s",
		entry.ID, from.Username, from.ID, content)
	if _, err := f.client.Send(ctx, f.adminChatID, telegram.Outgoing{Text: relay}); err != nil {
		log.Printf("Failed to relay feedback #%d to admin group: %v", entry.ID, err)
	}

	return done(prompt("🙏 Thank you! Your feedback was sent to the team.", MainMenu())), nil
}
