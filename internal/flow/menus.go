package flow

import (
	"github.com/issac-D/uni-market-bot/internal/models"
	"github.com/issac-D/uni-market-bot/internal/telegram"
)

// Button texts. The router matches incoming messages against these exactly,
// so they live next to the keyboards that show them.
const (
	BtnMarketplace = "🛒 Marketplace"
	BtnLostFound   = "🔍 Lost & Found"
	BtnFeedback    = "📝 Feedback"

	BtnRegister = "📝 Register"
	BtnSell     = "➕ Sell Item"

	BtnLost  = "📢 I Lost"
	BtnFound = "🙋‍♂️ I Found"

	BtnMainMenu = "🔙 Main Menu"
	BtnCancel   = "❌ Cancel"
	BtnConfirm  = "✅ Confirm"
	BtnSkip     = "⏭ Skip"

	BtnSharePhone   = "📱 Share Phone Number"
	BtnUniversityID = "🎓 University ID"
	BtnNationalID   = "🪪 National ID"

	BtnConditionNew  = "🆕 New"
	BtnConditionUsed = "👌 Used"
)

// MainMenu is the top-level reply keyboard.
func MainMenu() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{
		{{Text: BtnMarketplace}, {Text: BtnLostFound}},
		{{Text: BtnFeedback}},
	}
}

// MarketplaceMenu is the selling submenu.
func MarketplaceMenu() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{
		{{Text: BtnRegister}, {Text: BtnSell}},
		{{Text: BtnMainMenu}},
	}
}

// LostFoundMenu is the lost & found submenu.
func LostFoundMenu() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{
		{{Text: BtnLost}, {Text: BtnFound}},
		{{Text: BtnMainMenu}},
	}
}

// cancelRow is appended to every in-flow keyboard.
func cancelRow() []telegram.ReplyButton {
	return []telegram.ReplyButton{{Text: BtnCancel}}
}

// cancelKeyboard is the keyboard for free-text steps.
func cancelKeyboard() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{cancelRow()}
}

// campusKeyboard offers the four campus tags.
func campusKeyboard() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{
		{{Text: models.CampusMain.Label()}, {Text: models.CampusHealth.Label()}},
		{{Text: models.CampusMehal.Label()}, {Text: models.CampusOutside.Label()}},
		cancelRow(),
	}
}

// contactKeyboard asks for the user's own contact card.
func contactKeyboard() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{
		{{Text: BtnSharePhone, RequestContact: true}},
		cancelRow(),
	}
}

// idKindKeyboard offers the two accepted identity documents.
func idKindKeyboard() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{
		{{Text: BtnUniversityID}, {Text: BtnNationalID}},
		cancelRow(),
	}
}

// conditionKeyboard offers the item condition tags.
func conditionKeyboard() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{
		{{Text: BtnConditionNew}, {Text: BtnConditionUsed}},
		cancelRow(),
	}
}

// categoryKeyboard suggests the common sell categories; free text is also
// accepted.
func categoryKeyboard() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{
		{{Text: "📱 Electronics"}, {Text: "👕 Clothing"}},
		{{Text: "📚 Books"}, {Text: "🍔 Food"}},
		{{Text: "🧢 Other"}},
		cancelRow(),
	}
}

// confirmKeyboard asks for the final go-ahead.
func confirmKeyboard() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{
		{{Text: BtnConfirm}, {Text: BtnCancel}},
	}
}

// skipKeyboard is shown on the optional photo step.
func skipKeyboard() telegram.ReplyKeyboard {
	return telegram.ReplyKeyboard{
		{{Text: BtnSkip}},
		cancelRow(),
	}
}
