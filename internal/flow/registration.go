package flow

import (
	"context"
	"fmt"

	"github.com/issac-D/uni-market-bot/internal/models"
	"github.com/issac-D/uni-market-bot/internal/services"
	"github.com/issac-D/uni-market-bot/internal/telegram"
	"github.com/issac-D/uni-market-bot/internal/validate"
)

// Registration step names. The found-item flow embeds these steps when an
// unregistered user starts a report, so they are shared, not private to
// RegistrationFlow.
const (
	stepRegPhone   = "reg_phone"
	stepRegName    = "reg_name"
	stepRegCampus  = "reg_campus"
	stepRegIDKind  = "reg_id_kind"
	stepRegIDValue = "reg_id_value"
)

// registrar implements the registration question sequence over a draft. It
// mutates the draft in place; the owning flow decides what a completed
// registration leads to.
type registrar struct {
	users    services.IUserService
	idPrefix string
}

// enterPrompt is the first registration question.
func (r *registrar) enterPrompt() telegram.Outgoing {
	return prompt("📱 First, verify your phone number. Tap the button below to share your own contact:", contactKeyboard())
}

// advance consumes one turn of the registration sequence. completed is true
// once the profile has been saved.
func (r *registrar) advance(ctx context.Context, from Sender, draft *Draft, in Input) (replies []telegram.Outgoing, completed bool, err error) {
	switch draft.Step {
	case stepRegPhone:
		if in.Contact == nil {
			return []telegram.Outgoing{prompt("❌ Please use the share button below, typing a number is not accepted.", contactKeyboard())}, false, nil
		}
		if in.Contact.UserID != from.ID {
			// Forwarded third-party contact cards prove nothing.
			return []telegram.Outgoing{prompt("❌ That contact is not yours. Share your own contact using the button:", contactKeyboard())}, false, nil
		}
		draft.Fields["phone"] = in.Contact.Phone
		draft.Step = stepRegName
		return []telegram.Outgoing{prompt("👤 What is your full name?", cancelKeyboard())}, false, nil

	case stepRegName:
		if err := validate.FullName(in.Text); err != nil {
			return []telegram.Outgoing{prompt("❌ Name must be at least 3 characters. Try again:", cancelKeyboard())}, false, nil
		}
		draft.Fields["name"] = in.Text
		draft.Step = stepRegCampus
		return []telegram.Outgoing{prompt("📍 Where are you located?", campusKeyboard())}, false, nil

	case stepRegCampus:
		campus, ok := models.ParseCampus(in.Text)
		if !ok {
			return []telegram.Outgoing{prompt("❌ Please pick one of the options below:", campusKeyboard())}, false, nil
		}
		draft.Fields["campus"] = string(campus)
		draft.Step = stepRegIDKind
		return []telegram.Outgoing{prompt("🪪 Which ID will you verify with?", idKindKeyboard())}, false, nil

	case stepRegIDKind:
		switch in.Text {
		case BtnUniversityID:
			draft.Fields["id_kind"] = string(models.IDKindUniversity)
			draft.Step = stepRegIDValue
			return []telegram.Outgoing{prompt(
				fmt.Sprintf("🎓 Enter your university ID (e.g. %s1234567):", r.idPrefix), cancelKeyboard())}, false, nil
		case BtnNationalID:
			draft.Fields["id_kind"] = string(models.IDKindNational)
			draft.Step = stepRegIDValue
			return []telegram.Outgoing{prompt("🪪 Enter your 16-digit national ID number:", cancelKeyboard())}, false, nil
		default:
			return []telegram.Outgoing{prompt("❌ Please pick one of the options below:", idKindKeyboard())}, false, nil
		}

	case stepRegIDValue:
		kind := models.IDKind(draft.Fields["id_kind"])
		if kind == models.IDKindUniversity {
			if err := validate.UniversityID(in.Text, r.idPrefix); err != nil {
				return []telegram.Outgoing{prompt(
					fmt.Sprintf("❌ That doesn't look right. A university ID starts with %s and is 10 characters long. Try again:", r.idPrefix),
					cancelKeyboard())}, false, nil
			}
		} else {
			if err := validate.NationalID(in.Text); err != nil {
				return []telegram.Outgoing{prompt("❌ A national ID is exactly 16 digits. Try again:", cancelKeyboard())}, false, nil
			}
		}
		draft.Fields["id_value"] = validate.NormalizeID(in.Text)

		user := &models.User{
			ID:       from.ID,
			Username: from.Username,
			RealName: draft.Fields["name"],
			Phone:    draft.Fields["phone"],
			IDKind:   kind,
			IDValue:  draft.Fields["id_value"],
			Location: models.Campus(draft.Fields["campus"]),
		}
		if err := r.users.RegisterSeller(ctx, user); err != nil {
			return nil, false, err
		}
		return nil, true, nil

	default:
		return nil, false, fmt.Errorf("unknown registration step %q", draft.Step)
	}
}

// RegistrationFlow is the standalone seller registration conversation.
type RegistrationFlow struct {
	users services.IUserService
	reg   registrar
}

// NewRegistrationFlow creates the registration flow.
func NewRegistrationFlow(users services.IUserService, idPrefix string) *RegistrationFlow {
	return &RegistrationFlow{users: users, reg: registrar{users: users, idPrefix: idPrefix}}
}

func (f *RegistrationFlow) Name() string { return "registration" }

func (f *RegistrationFlow) Enter(ctx context.Context, from Sender) (StepResult, error) {
	registered, err := f.users.IsRegisteredSeller(ctx, from.ID)
	if err != nil {
		return StepResult{}, err
	}
	if registered {
		return done(prompt("✅ You are already registered! You can start selling right away.", MarketplaceMenu())), nil
	}
	return next(NewDraft(f.Name(), stepRegPhone), f.reg.enterPrompt()), nil
}

func (f *RegistrationFlow) Advance(ctx context.Context, from Sender, draft *Draft, in Input) (StepResult, error) {
	replies, completed, err := f.reg.advance(ctx, from, draft, in)
	if err != nil {
		return StepResult{}, err
	}
	if completed {
		return done(prompt(
			fmt.Sprintf("🎉 Registration complete, %s! You can now sell items on the marketplace.", draft.Fields["name"]),
			MarketplaceMenu())), nil
	}
	return next(draft, replies...), nil
}
