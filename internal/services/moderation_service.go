package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/issac-D/uni-market-bot/internal/callback"
	"github.com/issac-D/uni-market-bot/internal/config"
	"github.com/issac-D/uni-market-bot/internal/models"
	"github.com/issac-D/uni-market-bot/internal/render"
	"github.com/issac-D/uni-market-bot/internal/telegram"
)

// ErrNotAuthorized is returned when the acting user may not perform the
// requested moderation or resolve action.
var ErrNotAuthorized = errors.New("not authorized")

// MessageRef locates a previously sent message so it can be edited in place.
// HasPhoto selects between a text edit and a caption edit; Body carries the
// current content for annotations that must preserve it.
type MessageRef struct {
	ChatID    int64
	MessageID int
	HasPhoto  bool
	Body      string
}

// DecisionAction is an admin verdict on a pending post.
type DecisionAction string

const (
	DecisionApprove DecisionAction = "approve"
	DecisionReject  DecisionAction = "reject"
)

// DecisionEvent is a decoded admin button press on a review message.
type DecisionEvent struct {
	Action  DecisionAction
	PostID  int64
	ActorID int64
	Admin   MessageRef // the review message carrying the buttons
}

// ResolveEvent is a decoded submitter button press closing a published post.
type ResolveEvent struct {
	PostID  int64
	ActorID int64
	Origin  MessageRef // the submitter's control message
}

// IModerationService defines the interface for the moderation lifecycle.
type IModerationService interface {
	SubmitForReview(ctx context.Context, post *models.Post) error
	HandleDecision(ctx context.Context, ev DecisionEvent) error
	HandleResolve(ctx context.Context, ev ResolveEvent) error
}

// moderationService implements IModerationService.
type moderationService struct {
	posts  IPostService
	users  IUserService
	client telegram.Client
	cfg    *config.Config
}

// NewModerationService creates a new ModerationService.
func NewModerationService(posts IPostService, users IUserService, client telegram.Client, cfg *config.Config) IModerationService {
	return &moderationService{posts: posts, users: users, client: client, cfg: cfg}
}

// SubmitForReview sends the admin group a review message for a newly created
// post, with approve/reject buttons. The post must already be stored in
// PENDING status.
func (s *moderationService) SubmitForReview(ctx context.Context, post *models.Post) error {
	submitter := s.findOwner(ctx, post)

	var body string
	if post.Kind == models.PostKindSell {
		if submitter == nil {
			return fmt.Errorf("sell post %d has no registered seller", post.ID)
		}
		body = render.AdminSellReview(post, submitter)
	} else {
		body = render.AdminReportReview(post, submitter)
	}

	out := telegram.Outgoing{
		Text: body,
		Inline: telegram.Keyboard{{
			{Text: "✅ Approve", Data: callback.Encode(callback.KindApprove, post.ID)},
			{Text: "❌ Reject", Data: callback.Encode(callback.KindReject, post.ID)},
		}},
	}
	if post.HasPhoto() {
		out.PhotoID = post.PhotoID
	}

	if _, err := s.client.Send(ctx, s.cfg.AdminChatID, out); err != nil {
		return fmt.Errorf("failed to submit post %d for review: %w", post.ID, err)
	}
	return nil
}

// HandleDecision applies an admin verdict. The status transition commits
// first; every message side effect after it is best-effort, so a failed edit
// or an unreachable submitter never rolls back a decision.
func (s *moderationService) HandleDecision(ctx context.Context, ev DecisionEvent) error {
	if !s.cfg.IsAdmin(ev.ActorID) {
		return ErrNotAuthorized
	}

	post, err := s.posts.FindByID(ctx, ev.PostID)
	if err != nil {
		return err
	}

	switch ev.Action {
	case DecisionReject:
		if err := s.posts.UpdateStatus(ctx, post.ID, models.PostStatusPending, models.PostStatusRejected); err != nil {
			return err
		}
		s.runEffects(post.ID, []effect{
			{"annotate review message", func() error {
				return s.editInPlace(ctx, ev.Admin, render.AnnotateRejected(ev.Admin.Body))
			}},
			{"notify submitter", func() error {
				_, err := s.client.Send(ctx, post.UserID, telegram.Outgoing{Text: rejectedText(post)})
				return err
			}},
		})
		return nil

	case DecisionApprove:
		if err := s.posts.UpdateStatus(ctx, post.ID, models.PostStatusPending, models.PostStatusApproved); err != nil {
			return err
		}
		return s.publish(ctx, post, ev.Admin)

	default:
		return fmt.Errorf("unknown decision action %q", ev.Action)
	}
}

// publish pushes an approved post to the public channel and fans out the
// follow-up messages. A channel delivery failure is surfaced on the review
// message as a warning; the post stays APPROVED.
func (s *moderationService) publish(ctx context.Context, post *models.Post, admin MessageRef) error {
	owner := s.findOwner(ctx, post)
	view := render.Public(post, owner, s.cfg.BotHandle)

	out := telegram.Outgoing{
		Text: view.Text,
		Inline: telegram.Keyboard{{
			{Text: view.ContactButton, URL: view.ContactURL},
		}},
	}
	if post.HasPhoto() {
		out.PhotoID = post.PhotoID
	}

	messageID, pubErr := s.client.Send(ctx, s.cfg.ChannelID, out)
	if pubErr != nil {
		log.Printf("Failed to publish post %d to channel: %v", post.ID, pubErr)
		s.runEffects(post.ID, []effect{
			{"annotate review message", func() error {
				return s.editInPlace(ctx, admin, render.AnnotatePublishFailed(admin.Body))
			}},
		})
		return nil
	}

	s.runEffects(post.ID, []effect{
		{"store channel message id", func() error {
			return s.posts.SetChannelMessageID(ctx, post.ID, messageID)
		}},
		{"annotate review message", func() error {
			return s.editInPlace(ctx, admin, render.AnnotatePublished(admin.Body))
		}},
		{"notify submitter", func() error {
			_, err := s.client.Send(ctx, post.UserID, telegram.Outgoing{
				Text: approvedText(post, s.cfg.ChannelHandle),
				Inline: telegram.Keyboard{{
					{Text: view.ResolveButton, Data: callback.Encode(callback.KindResolve, post.ID)},
				}},
			})
			return err
		}},
	})
	return nil
}

// HandleResolve closes a published post. Only the submitter (or an admin) may
// close it. The status transition commits first; the channel edit and the
// confirmation are best-effort.
func (s *moderationService) HandleResolve(ctx context.Context, ev ResolveEvent) error {
	post, err := s.posts.FindByID(ctx, ev.PostID)
	if err != nil {
		return err
	}
	if ev.ActorID != post.UserID && !s.cfg.IsAdmin(ev.ActorID) {
		return ErrNotAuthorized
	}

	if err := s.posts.UpdateStatus(ctx, post.ID, models.PostStatusApproved, models.PostStatusSold); err != nil {
		return err
	}

	effects := []effect{}
	if post.ChannelMessageID != 0 {
		effects = append(effects, effect{"edit channel post", func() error {
			owner := s.findOwner(ctx, post)
			closed := render.Closed(post, owner, s.cfg.BotHandle)
			if post.HasPhoto() {
				return s.client.EditCaption(ctx, s.cfg.ChannelID, post.ChannelMessageID, closed)
			}
			return s.client.EditText(ctx, s.cfg.ChannelID, post.ChannelMessageID, closed)
		}})
	}
	effects = append(effects, effect{"confirm to submitter", func() error {
		return s.editInPlace(ctx, ev.Origin, resolvedText(post))
	}})

	s.runEffects(post.ID, effects)
	return nil
}

// findOwner loads the post's submitter, or nil for guest reports.
func (s *moderationService) findOwner(ctx context.Context, post *models.Post) *models.User {
	owner, err := s.users.FindByID(ctx, post.UserID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Printf("Failed to load owner of post %d: %v", post.ID, err)
		}
		return nil
	}
	return owner
}

// editInPlace rewrites a message's content, dropping any inline keyboard.
func (s *moderationService) editInPlace(ctx context.Context, ref MessageRef, text string) error {
	if ref.HasPhoto {
		return s.client.EditCaption(ctx, ref.ChatID, ref.MessageID, text)
	}
	return s.client.EditText(ctx, ref.ChatID, ref.MessageID, text)
}

// effect is one best-effort side effect of a committed transition.
type effect struct {
	name string
	run  func() error
}

// runEffects executes side effects in order, logging failures instead of
// aborting. A 403 means the recipient is unreachable, which is expected when
// a user has blocked the bot.
func (s *moderationService) runEffects(postID int64, effects []effect) {
	for _, e := range effects {
		if err := e.run(); err != nil {
			if telegram.IsUnreachable(err) {
				log.Printf("Post %d: %s skipped, recipient unreachable", postID, e.name)
				continue
			}
			log.Printf("Post %d: %s failed: %v", postID, e.name, err)
		}
	}
}

func approvedText(post *models.Post, channelHandle string) string {
	return fmt.Sprintf(
		"🎉 Congratulations! Your post \"%s\" has been APPROVED and published to %s.\n\n"+
			"Tap the button below once it is resolved.",
		post.Title, channelHandle)
}

func rejectedText(post *models.Post) string {
	return fmt.Sprintf(
		"😔 Unfortunately your post \"%s\" was REJECTED by the moderators.\n\n"+
			"Please review the posting rules and try again.",
		post.Title)
}

func resolvedText(post *models.Post) string {
	switch post.Kind {
	case models.PostKindLost:
		return fmt.Sprintf("🎉 Great news! \"%s\" is marked as found and the case is closed.", post.Title)
	case models.PostKindFound:
		return fmt.Sprintf("🤝 Owner found! The case for \"%s\" is closed.", post.Title)
	}
	return fmt.Sprintf("🏁 Done! \"%s\" is now marked as SOLD.", post.Title)
}
