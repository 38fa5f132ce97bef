package flow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/issac-D/uni-market-bot/internal/models"
	"github.com/issac-D/uni-market-bot/internal/services"
)

const (
	stepReportItem    = "item"
	stepReportCampus  = "campus"
	stepReportSpot    = "spot"
	stepReportDesc    = "rdesc"
	stepReportPhoto   = "rphoto"
	stepReportConfirm = "rconfirm"
)

// reportSteps is the shared lost/found question sequence. The campus pick and
// the free-text spot are combined into a single location string on the post.
type reportSteps struct {
	posts      services.IPostService
	moderation services.IModerationService
	kind       models.PostKind
}

func (r *reportSteps) itemPrompt() string {
	if r.kind == models.PostKindLost {
		return "😟 Sorry to hear that! What did you lose? Send the item name:"
	}
	return "🙏 Thank you for picking it up! What did you find? Send the item name:"
}

func (r *reportSteps) advance(ctx context.Context, from Sender, draft *Draft, in Input) (StepResult, error) {
	switch draft.Step {
	case stepReportItem:
		if strings.TrimSpace(in.Text) == "" {
			return next(draft, prompt("❌ The item name can't be empty. Try again:", cancelKeyboard())), nil
		}
		draft.Fields["title"] = strings.TrimSpace(in.Text)
		draft.Step = stepReportCampus
		return next(draft, prompt("📍 Which campus?", campusKeyboard())), nil

	case stepReportCampus:
		campus, ok := models.ParseCampus(in.Text)
		if !ok {
			return next(draft, prompt("❌ Please pick one of the options below:", campusKeyboard())), nil
		}
		draft.Fields["campus_label"] = campus.Label()
		draft.Step = stepReportSpot
		return next(draft, prompt("📍 Where exactly? (e.g. library, cafeteria, block 3):", cancelKeyboard())), nil

	case stepReportSpot:
		if strings.TrimSpace(in.Text) == "" {
			return next(draft, prompt("❌ Please describe the spot:", cancelKeyboard())), nil
		}
		draft.Fields["location"] = fmt.Sprintf("%s - %s", draft.Fields["campus_label"], strings.TrimSpace(in.Text))
		draft.Step = stepReportDesc
		return next(draft, prompt("📝 Describe the item (color, marks, when it happened):", cancelKeyboard())), nil

	case stepReportDesc:
		if strings.TrimSpace(in.Text) == "" {
			return next(draft, prompt("❌ The description can't be empty. Try again:", cancelKeyboard())), nil
		}
		draft.Fields["desc"] = strings.TrimSpace(in.Text)
		draft.Step = stepReportPhoto
		return next(draft, prompt("📸 Send a photo if you have one, or tap ⏭ Skip:", skipKeyboard())), nil

	case stepReportPhoto:
		switch {
		case in.PhotoID != "":
			draft.Fields["photo"] = in.PhotoID
		case in.Text == BtnSkip:
			draft.Fields["photo"] = models.PhotoSkipped
		default:
			return next(draft, prompt("❌ Send a photo or tap ⏭ Skip:", skipKeyboard())), nil
		}
		draft.Step = stepReportConfirm
		return next(draft, prompt(r.summary(draft), confirmKeyboard())), nil

	case stepReportConfirm:
		if in.Text != BtnConfirm {
			return next(draft, prompt("Please tap ✅ Confirm to submit, or ❌ Cancel to discard.", confirmKeyboard())), nil
		}
		return r.commit(ctx, from, draft)

	default:
		return StepResult{}, fmt.Errorf("unknown report step %q", draft.Step)
	}
}

func (r *reportSteps) summary(draft *Draft) string {
	header := "🔴 LOST"
	if r.kind == models.PostKindFound {
		header = "🟢 FOUND"
	}
	photo := "no"
	if draft.Fields["photo"] != models.PhotoSkipped {
		photo = "yes"
	}
	return fmt.Sprintf(
		"🧾 REVIEW YOUR REPORT\n"+
			"➖➖➖➖➖➖➖➖\n"+
			"%s: %s\n"+
			"📍 Location: %s\n"+
			"📝 %s\n"+
			"📸 Photo: %s\n"+
			"➖➖➖➖➖➖➖➖\n"+
			"Submit for review?",
		header, draft.Fields["title"], draft.Fields["location"], draft.Fields["desc"], photo)
}

func (r *reportSteps) commit(ctx context.Context, from Sender, draft *Draft) (StepResult, error) {
	post := &models.Post{
		UserID:    from.ID,
		Kind:      r.kind,
		Category:  models.CategoryLostFound,
		Condition: models.ConditionNA,
		Title:     draft.Fields["title"],
		Desc:      draft.Fields["desc"],
		Location:  draft.Fields["location"],
		PhotoID:   draft.Fields["photo"],
		Price:     models.PriceNA,
	}

	created, err := r.posts.CreatePost(ctx, post)
	if err != nil {
		return StepResult{}, err
	}
	if err := r.moderation.SubmitForReview(ctx, created); err != nil {
		log.Printf("Failed to submit post %d for review: %v", created.ID, err)
	}

	reply := "🤞 Your lost item report is under review. We hope it turns up soon!"
	if r.kind == models.PostKindFound {
		reply = "🙏 Thank you for being honest! Your report is under review."
	}
	return done(prompt(reply, MainMenu())), nil
}

// LostFlow is the lost-item report conversation. Registration is not
// required; the reporter stays a guest.
type LostFlow struct {
	report reportSteps
	posts  services.IPostService
	max    int
}

// NewLostFlow creates the lost flow.
func NewLostFlow(posts services.IPostService, moderation services.IModerationService, maxPerDay int) *LostFlow {
	return &LostFlow{
		report: reportSteps{posts: posts, moderation: moderation, kind: models.PostKindLost},
		posts:  posts,
		max:    maxPerDay,
	}
}

func (f *LostFlow) Name() string { return "lost" }

func (f *LostFlow) Enter(ctx context.Context, from Sender) (StepResult, error) {
	if replies, limited, err := checkPostBudget(ctx, f.posts, from.ID, f.max); err != nil {
		return StepResult{}, err
	} else if limited {
		return done(replies...), nil
	}
	return next(NewDraft(f.Name(), stepReportItem),
		prompt(f.report.itemPrompt(), cancelKeyboard())), nil
}

func (f *LostFlow) Advance(ctx context.Context, from Sender, draft *Draft, in Input) (StepResult, error) {
	return f.report.advance(ctx, from, draft, in)
}

// FoundFlow is the found-item report conversation. A found report requires a
// registered reporter, so unregistered users go through the registration
// questions first and land directly on the item step afterwards.
type FoundFlow struct {
	report reportSteps
	users  services.IUserService
	posts  services.IPostService
	reg    registrar
	max    int
}

// NewFoundFlow creates the found flow.
func NewFoundFlow(users services.IUserService, posts services.IPostService, moderation services.IModerationService, idPrefix string, maxPerDay int) *FoundFlow {
	return &FoundFlow{
		report: reportSteps{posts: posts, moderation: moderation, kind: models.PostKindFound},
		users:  users,
		posts:  posts,
		reg:    registrar{users: users, idPrefix: idPrefix},
		max:    maxPerDay,
	}
}

func (f *FoundFlow) Name() string { return "found" }

func (f *FoundFlow) Enter(ctx context.Context, from Sender) (StepResult, error) {
	if replies, limited, err := checkPostBudget(ctx, f.posts, from.ID, f.max); err != nil {
		return StepResult{}, err
	} else if limited {
		return done(replies...), nil
	}

	registered, err := f.users.IsRegisteredSeller(ctx, from.ID)
	if err != nil {
		return StepResult{}, err
	}
	if !registered {
		return next(NewDraft(f.Name(), stepRegPhone),
			text("🫡 Thank you for reporting a found item! We need to register you first so the owner can reach you."),
			f.reg.enterPrompt()), nil
	}
	return next(NewDraft(f.Name(), stepReportItem),
		prompt(f.report.itemPrompt(), cancelKeyboard())), nil
}

func (f *FoundFlow) Advance(ctx context.Context, from Sender, draft *Draft, in Input) (StepResult, error) {
	if strings.HasPrefix(draft.Step, "reg_") {
		replies, completed, err := f.reg.advance(ctx, from, draft, in)
		if err != nil {
			return StepResult{}, err
		}
		if completed {
			draft.Step = stepReportItem
			return next(draft,
				text("🎉 You're registered!"),
				prompt(f.report.itemPrompt(), cancelKeyboard())), nil
		}
		return next(draft, replies...), nil
	}
	return f.report.advance(ctx, from, draft, in)
}
