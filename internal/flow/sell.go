package flow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/issac-D/uni-market-bot/internal/models"
	"github.com/issac-D/uni-market-bot/internal/render"
	"github.com/issac-D/uni-market-bot/internal/services"
	"github.com/issac-D/uni-market-bot/internal/telegram"
	"github.com/issac-D/uni-market-bot/internal/validate"
)

const (
	stepSellPhoto     = "photo"
	stepSellTitle     = "title"
	stepSellPrice     = "price"
	stepSellCondition = "condition"
	stepSellCategory  = "category"
	stepSellDesc      = "desc"
	stepSellConfirm   = "confirm"
)

// SellFlow is the guided sell-listing conversation. Entry requires a
// completed registration and an unexhausted daily post budget.
type SellFlow struct {
	users      services.IUserService
	posts      services.IPostService
	moderation services.IModerationService
	maxPerDay  int
}

// NewSellFlow creates the sell flow.
func NewSellFlow(users services.IUserService, posts services.IPostService, moderation services.IModerationService, maxPerDay int) *SellFlow {
	return &SellFlow{users: users, posts: posts, moderation: moderation, maxPerDay: maxPerDay}
}

func (f *SellFlow) Name() string { return "sell" }

func (f *SellFlow) Enter(ctx context.Context, from Sender) (StepResult, error) {
	registered, err := f.users.IsRegisteredSeller(ctx, from.ID)
	if err != nil {
		return StepResult{}, err
	}
	if !registered {
		return done(prompt("❌ You need to register before selling. Tap 📝 Register first.", MarketplaceMenu())), nil
	}

	if replies, limited, err := checkPostBudget(ctx, f.posts, from.ID, f.maxPerDay); err != nil {
		return StepResult{}, err
	} else if limited {
		return done(replies...), nil
	}

	return next(NewDraft(f.Name(), stepSellPhoto),
		prompt("📸 Let's create your listing! Send a photo of the item:", cancelKeyboard())), nil
}

func (f *SellFlow) Advance(ctx context.Context, from Sender, draft *Draft, in Input) (StepResult, error) {
	switch draft.Step {
	case stepSellPhoto:
		if in.PhotoID == "" {
			return next(draft, prompt("❌ A photo is required for sell listings. Please send one:", cancelKeyboard())), nil
		}
		draft.Fields["photo"] = in.PhotoID
		draft.Step = stepSellTitle
		return next(draft, prompt("🏷 What are you selling? Send a short title:", cancelKeyboard())), nil

	case stepSellTitle:
		if strings.TrimSpace(in.Text) == "" {
			return next(draft, prompt("❌ The title can't be empty. Try again:", cancelKeyboard())), nil
		}
		draft.Fields["title"] = strings.TrimSpace(in.Text)
		draft.Step = stepSellPrice
		return next(draft, prompt("💵 Price in ETB (numbers only):", cancelKeyboard())), nil

	case stepSellPrice:
		if err := validate.Price(in.Text); err != nil {
			return next(draft, prompt("❌ Numbers only, no currency or commas. Try again:", cancelKeyboard())), nil
		}
		draft.Fields["price"] = strings.TrimSpace(in.Text)
		draft.Step = stepSellCondition
		return next(draft, prompt("🛠 What condition is it in?", conditionKeyboard())), nil

	case stepSellCondition:
		switch in.Text {
		case BtnConditionNew:
			draft.Fields["condition"] = string(models.ConditionNew)
		case BtnConditionUsed:
			draft.Fields["condition"] = string(models.ConditionUsed)
		default:
			return next(draft, prompt("❌ Please pick one of the options below:", conditionKeyboard())), nil
		}
		draft.Step = stepSellCategory
		return next(draft, prompt("📂 Pick a category (or type your own):", categoryKeyboard())), nil

	case stepSellCategory:
		if strings.TrimSpace(in.Text) == "" {
			return next(draft, prompt("❌ Please pick or type a category:", categoryKeyboard())), nil
		}
		draft.Fields["category"] = strings.TrimSpace(in.Text)
		draft.Step = stepSellDesc
		return next(draft, prompt("📝 Describe the item (details buyers should know):", cancelKeyboard())), nil

	case stepSellDesc:
		if strings.TrimSpace(in.Text) == "" {
			return next(draft, prompt("❌ The description can't be empty. Try again:", cancelKeyboard())), nil
		}
		draft.Fields["desc"] = strings.TrimSpace(in.Text)
		draft.Step = stepSellConfirm
		return next(draft, prompt(f.summary(draft), confirmKeyboard())), nil

	case stepSellConfirm:
		if in.Text != BtnConfirm {
			return next(draft, prompt("Please tap ✅ Confirm to submit, or ❌ Cancel to discard.", confirmKeyboard())), nil
		}
		return f.commit(ctx, from, draft)

	default:
		return StepResult{}, fmt.Errorf("unknown sell step %q", draft.Step)
	}
}

func (f *SellFlow) summary(draft *Draft) string {
	return fmt.Sprintf(
		"🧾 REVIEW YOUR POST\n"+
			"➖➖➖➖➖➖➖➖\n"+
			"📦 Item: %s\n"+
			"💰 Price: %s ETB\n"+
			"🛠 Condition: %s\n"+
			"📂 Category: %s\n"+
			"📝 %s\n"+
			"➖➖➖➖➖➖➖➖\n"+
			"Submit for review?",
		draft.Fields["title"], draft.Fields["price"],
		render.ConditionLabel(models.Condition(draft.Fields["condition"])),
		draft.Fields["category"], draft.Fields["desc"])
}

func (f *SellFlow) commit(ctx context.Context, from Sender, draft *Draft) (StepResult, error) {
	post := &models.Post{
		UserID:    from.ID,
		Kind:      models.PostKindSell,
		Category:  draft.Fields["category"],
		Condition: models.Condition(draft.Fields["condition"]),
		Title:     draft.Fields["title"],
		Desc:      draft.Fields["desc"],
		PhotoID:   draft.Fields["photo"],
		Price:     draft.Fields["price"],
	}

	created, err := f.posts.CreatePost(ctx, post)
	if err != nil {
		return StepResult{}, err
	}
	if err := f.moderation.SubmitForReview(ctx, created); err != nil {
		// The post is stored PENDING either way.
		log.Printf("Failed to submit post %d for review: %v", created.ID, err)
	}

	return done(prompt("⏳ Your item has been submitted for review. You'll be notified once the moderators decide!", MainMenu())), nil
}

// checkPostBudget applies the rolling 24h submission cap shared by all post
// flows. The count includes every submission regardless of moderation
// outcome, so rejections still consume budget.
func checkPostBudget(ctx context.Context, posts services.IPostService, userID int64, maxPerDay int) ([]telegram.Outgoing, bool, error) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	count, err := posts.CountRecentByUser(ctx, userID, since)
	if err != nil {
		return nil, false, err
	}
	if count >= int64(maxPerDay) {
		return []telegram.Outgoing{prompt(
			fmt.Sprintf("⏳ You've reached the limit of %d posts per 24 hours. Please try again later.", maxPerDay),
			MainMenu())}, true, nil
	}
	return nil, false, nil
}
