package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/issac-D/uni-market-bot/internal/config"
	"github.com/issac-D/uni-market-bot/internal/models"
	"github.com/issac-D/uni-market-bot/internal/services"
	"github.com/issac-D/uni-market-bot/internal/telegram"
)

// modMock is a mock implementation of services.IModerationService.
type modMock struct {
	mock.Mock
}

func (m *modMock) SubmitForReview(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *modMock) HandleDecision(ctx context.Context, ev services.DecisionEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *modMock) HandleResolve(ctx context.Context, ev services.ResolveEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// clientMock is a mock implementation of telegram.Client.
type clientMock struct {
	mock.Mock
}

func (m *clientMock) Send(ctx context.Context, chatID int64, msg telegram.Outgoing) (int, error) {
	args := m.Called(ctx, chatID, msg)
	return args.Int(0), args.Error(1)
}

func (m *clientMock) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	args := m.Called(ctx, chatID, messageID, text)
	return args.Error(0)
}

func (m *clientMock) EditCaption(ctx context.Context, chatID int64, messageID int, caption string) error {
	args := m.Called(ctx, chatID, messageID, caption)
	return args.Error(0)
}

func (m *clientMock) ClearButtons(ctx context.Context, chatID int64, messageID int) error {
	args := m.Called(ctx, chatID, messageID)
	return args.Error(0)
}

func (m *clientMock) AnswerCallback(ctx context.Context, callbackID string) error {
	args := m.Called(ctx, callbackID)
	return args.Error(0)
}

// postsMock is a mock implementation of services.IPostService.
type postsMock struct {
	mock.Mock
}

func (m *postsMock) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	args := m.Called(ctx, post)
	if p, ok := args.Get(0).(*models.Post); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *postsMock) FindByID(ctx context.Context, postID int64) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if p, ok := args.Get(0).(*models.Post); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *postsMock) UpdateStatus(ctx context.Context, postID int64, from, to models.PostStatus) error {
	args := m.Called(ctx, postID, from, to)
	return args.Error(0)
}

func (m *postsMock) SetChannelMessageID(ctx context.Context, postID int64, messageID int) error {
	args := m.Called(ctx, postID, messageID)
	return args.Error(0)
}

func (m *postsMock) CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

// usersMock is a mock implementation of services.IUserService.
type usersMock struct {
	mock.Mock
}

func (m *usersMock) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *usersMock) RegisterSeller(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *usersMock) IsRegisteredSeller(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *usersMock) IsBlacklisted(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *usersMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if u, ok := args.Get(0).([]models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *usersMock) DeleteUserData(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *usersMock) BanUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// interactionsMock is a mock implementation of services.IInteractionService.
type interactionsMock struct {
	mock.Mock
}

func (m *interactionsMock) RecordInteraction(ctx context.Context, buyerID, sellerID, postID int64) (*models.Interaction, error) {
	args := m.Called(ctx, buyerID, sellerID, postID)
	if i, ok := args.Get(0).(*models.Interaction); ok {
		return i, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ telegram.Client = (*clientMock)(nil)
var _ services.IModerationService = (*modMock)(nil)
var _ services.IPostService = (*postsMock)(nil)
var _ services.IUserService = (*usersMock)(nil)
var _ services.IInteractionService = (*interactionsMock)(nil)

func TestNormalizeText(t *testing.T) {
	in := normalize(&tgbotapi.Message{Text: "hello"})
	assert.Equal(t, "hello", in.Text)
	assert.Nil(t, in.Contact)
	assert.Empty(t, in.PhotoID)
}

func TestNormalizePhotoWithCaption(t *testing.T) {
	in := normalize(&tgbotapi.Message{
		Caption: "my item",
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small"},
			{FileID: "large"},
		},
	})
	assert.Equal(t, "large", in.PhotoID, "largest size wins")
	assert.Equal(t, "my item", in.Text)
}

func TestNormalizeContact(t *testing.T) {
	in := normalize(&tgbotapi.Message{
		Contact: &tgbotapi.Contact{UserID: 100, PhoneNumber: "+251900000000"},
	})
	require.NotNil(t, in.Contact)
	assert.Equal(t, int64(100), in.Contact.UserID)
	assert.Equal(t, "+251900000000", in.Contact.Phone)
}

func TestContactStartRecordsInteraction(t *testing.T) {
	posts := new(postsMock)
	interactions := new(interactionsMock)
	client := new(clientMock)
	b := &Bot{client: client, cfg: &config.Config{}, posts: posts, interactions: interactions}

	post := &models.Post{ID: 42, UserID: 100, Kind: models.PostKindSell, Title: "Casio fx-991", Status: models.PostStatusApproved}
	posts.On("FindByID", mock.Anything, int64(42)).Return(post, nil)
	interactions.On("RecordInteraction", mock.Anything, int64(555), int64(100), int64(42)).
		Return(&models.Interaction{ID: 1}, nil)
	client.On("Send", mock.Anything, int64(555), mock.MatchedBy(func(out telegram.Outgoing) bool {
		return strings.Contains(out.Text, "Casio fx-991") &&
			out.Inline[0][0].URL == "tg://user?id=100"
	})).Return(1, nil)

	b.handleContactStart(context.Background(), 555, 555, "42")

	interactions.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestContactStartSoldItem(t *testing.T) {
	posts := new(postsMock)
	interactions := new(interactionsMock)
	client := new(clientMock)
	b := &Bot{client: client, cfg: &config.Config{}, posts: posts, interactions: interactions}

	post := &models.Post{ID: 42, UserID: 100, Status: models.PostStatusSold}
	posts.On("FindByID", mock.Anything, int64(42)).Return(post, nil)
	client.On("Send", mock.Anything, int64(555), mock.MatchedBy(func(out telegram.Outgoing) bool {
		return strings.Contains(out.Text, "no longer available")
	})).Return(1, nil)

	b.handleContactStart(context.Background(), 555, 555, "42")

	interactions.AssertNotCalled(t, "RecordInteraction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestCallbackRouting(t *testing.T) {
	moderation := new(modMock)
	client := new(clientMock)
	b := &Bot{
		client:     client,
		cfg:        &config.Config{AdminIDs: []int64{777}},
		moderation: moderation,
	}

	client.On("AnswerCallback", mock.Anything, "cb1").Return(nil)
	moderation.On("HandleDecision", mock.Anything, mock.MatchedBy(func(ev services.DecisionEvent) bool {
		return ev.Action == services.DecisionApprove &&
			ev.PostID == 42 &&
			ev.ActorID == 777 &&
			ev.Admin.MessageID == 10 &&
			ev.Admin.HasPhoto &&
			ev.Admin.Body == "review body"
	})).Return(nil)

	b.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:   "cb1",
		Data: "approve_42",
		From: &tgbotapi.User{ID: 777},
		Message: &tgbotapi.Message{
			MessageID: 10,
			Chat:      &tgbotapi.Chat{ID: -100200},
			Photo:     []tgbotapi.PhotoSize{{FileID: "f"}},
			Caption:   "review body",
		},
	})

	moderation.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestCallbackIgnoresMalformedData(t *testing.T) {
	moderation := new(modMock)
	client := new(clientMock)
	b := &Bot{client: client, cfg: &config.Config{}, moderation: moderation}

	client.On("AnswerCallback", mock.Anything, "cb2").Return(nil)

	b.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:   "cb2",
		Data: "delete_42",
		From: &tgbotapi.User{ID: 777},
		Message: &tgbotapi.Message{
			MessageID: 10,
			Chat:      &tgbotapi.Chat{ID: -100200},
		},
	})

	moderation.AssertNotCalled(t, "HandleDecision", mock.Anything, mock.Anything)
	moderation.AssertNotCalled(t, "HandleResolve", mock.Anything, mock.Anything)
}

func TestBlacklistedUserDenied(t *testing.T) {
	users := new(usersMock)
	posts := new(postsMock)
	moderation := new(modMock)
	client := new(clientMock)
	b := &Bot{
		client:     client,
		cfg:        &config.Config{},
		users:      users,
		posts:      posts,
		moderation: moderation,
		limiter:    newFloodLimiter(rate.Limit(1), 4),
	}

	users.On("IsBlacklisted", mock.Anything, int64(666)).Return(true, nil)
	client.On("Send", mock.Anything, int64(666), mock.MatchedBy(func(out telegram.Outgoing) bool {
		return strings.Contains(out.Text, "banned")
	})).Return(1, nil)

	b.handleMessage(context.Background(), &tgbotapi.Message{
		Text: "🛒 Marketplace",
		From: &tgbotapi.User{ID: 666},
		Chat: &tgbotapi.Chat{ID: 666},
	})

	users.AssertExpectations(t)
	client.AssertExpectations(t)
	posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "RegisterSeller", mock.Anything, mock.Anything)
	moderation.AssertNotCalled(t, "SubmitForReview", mock.Anything, mock.Anything)
}

func TestCallbackPostNotFound(t *testing.T) {
	moderation := new(modMock)
	client := new(clientMock)
	b := &Bot{
		client:     client,
		cfg:        &config.Config{AdminIDs: []int64{777}},
		moderation: moderation,
	}

	client.On("AnswerCallback", mock.Anything, "cb4").Return(nil)
	moderation.On("HandleDecision", mock.Anything, mock.Anything).Return(services.ErrPostNotFound)
	client.On("EditText", mock.Anything, int64(-100200), 10, "⚠️ Error: Post not found.").Return(nil)

	b.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:   "cb4",
		Data: "approve_42",
		From: &tgbotapi.User{ID: 777},
		Message: &tgbotapi.Message{
			MessageID: 10,
			Chat:      &tgbotapi.Chat{ID: -100200},
			Text:      "review body",
		},
	})

	client.AssertExpectations(t)
}

func TestResolveCallback(t *testing.T) {
	moderation := new(modMock)
	client := new(clientMock)
	b := &Bot{client: client, cfg: &config.Config{}, moderation: moderation}

	client.On("AnswerCallback", mock.Anything, "cb3").Return(nil)
	moderation.On("HandleResolve", mock.Anything, mock.MatchedBy(func(ev services.ResolveEvent) bool {
		return ev.PostID == 42 && ev.ActorID == 100 && ev.Origin.MessageID == 60
	})).Return(nil)

	b.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:   "cb3",
		Data: "sold_42",
		From: &tgbotapi.User{ID: 100},
		Message: &tgbotapi.Message{
			MessageID: 60,
			Chat:      &tgbotapi.Chat{ID: 100},
			Text:      "approved notice",
		},
	})

	moderation.AssertExpectations(t)
}
