// Package flow implements the guided multi-step conversations: seller
// registration, sell listing, lost/found reports and feedback. Each flow is a
// small state machine whose progress lives in a Draft, stored per user in a
// session store with a TTL, so abandoned conversations expire on their own.
package flow

import (
	"context"

	"github.com/issac-D/uni-market-bot/internal/telegram"
)

// Sender identifies the user driving a conversation.
type Sender struct {
	ID       int64
	Username string
}

// Input is one normalized user turn. At most one field is set.
type Input struct {
	Text    string
	Contact *Contact
	PhotoID string
}

// Contact is a shared contact card. UserID is the id of the contact's owner,
// which must match the sender for self-verification.
type Contact struct {
	UserID int64
	Phone  string
}

// Draft is the serializable state of an in-progress conversation.
type Draft struct {
	Flow   string            `json:"flow"`
	Step   string            `json:"step"`
	Fields map[string]string `json:"fields"`
}

// NewDraft starts a draft at the given step.
func NewDraft(flow, step string) *Draft {
	return &Draft{Flow: flow, Step: step, Fields: map[string]string{}}
}

// StepResult is the outcome of one flow turn. When Done is true the draft is
// discarded; otherwise Draft is persisted for the next turn.
type StepResult struct {
	Draft   *Draft
	Replies []telegram.Outgoing
	Done    bool
}

// done builds a terminal result with the given replies.
func done(replies ...telegram.Outgoing) StepResult {
	return StepResult{Done: true, Replies: replies}
}

// next builds a continuing result.
func next(d *Draft, replies ...telegram.Outgoing) StepResult {
	return StepResult{Draft: d, Replies: replies}
}

// Flow is one guided conversation.
type Flow interface {
	Name() string
	// Enter runs the flow's entry gates and produces the first prompt. A
	// result with Done set means the flow refused to start.
	Enter(ctx context.Context, from Sender) (StepResult, error)
	// Advance consumes one user turn.
	Advance(ctx context.Context, from Sender, draft *Draft, in Input) (StepResult, error)
}

// text is shorthand for a plain reply.
func text(s string) telegram.Outgoing {
	return telegram.Outgoing{Text: s}
}

// prompt is a reply with a one-time reply keyboard.
func prompt(s string, kb telegram.ReplyKeyboard) telegram.Outgoing {
	return telegram.Outgoing{Text: s, Reply: kb}
}
