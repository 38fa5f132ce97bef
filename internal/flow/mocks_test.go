package flow

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/issac-D/uni-market-bot/internal/models"
	"github.com/issac-D/uni-market-bot/internal/services"
	"github.com/issac-D/uni-market-bot/internal/telegram"
)

// mockUserService is a mock implementation of services.IUserService.
type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) RegisterSeller(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserService) IsRegisteredSeller(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) IsBlacklisted(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if u, ok := args.Get(0).([]models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) DeleteUserData(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockUserService) BanUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// mockPostService is a mock implementation of services.IPostService.
type mockPostService struct {
	mock.Mock
}

func (m *mockPostService) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	args := m.Called(ctx, post)
	if p, ok := args.Get(0).(*models.Post); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostService) FindByID(ctx context.Context, postID int64) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if p, ok := args.Get(0).(*models.Post); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostService) UpdateStatus(ctx context.Context, postID int64, from, to models.PostStatus) error {
	args := m.Called(ctx, postID, from, to)
	return args.Error(0)
}

func (m *mockPostService) SetChannelMessageID(ctx context.Context, postID int64, messageID int) error {
	args := m.Called(ctx, postID, messageID)
	return args.Error(0)
}

func (m *mockPostService) CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

// mockModerationService is a mock implementation of services.IModerationService.
type mockModerationService struct {
	mock.Mock
}

func (m *mockModerationService) SubmitForReview(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockModerationService) HandleDecision(ctx context.Context, ev services.DecisionEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *mockModerationService) HandleResolve(ctx context.Context, ev services.ResolveEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// mockFeedbackService is a mock implementation of services.IFeedbackService.
type mockFeedbackService struct {
	mock.Mock
}

func (m *mockFeedbackService) AddFeedback(ctx context.Context, userID int64, content string) (*models.FeedbackEntry, error) {
	args := m.Called(ctx, userID, content)
	if e, ok := args.Get(0).(*models.FeedbackEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFeedbackService) CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

// mockClient is a mock implementation of telegram.Client.
type mockClient struct {
	mock.Mock
}

func (m *mockClient) Send(ctx context.Context, chatID int64, msg telegram.Outgoing) (int, error) {
	args := m.Called(ctx, chatID, msg)
	return args.Int(0), args.Error(1)
}

func (m *mockClient) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	args := m.Called(ctx, chatID, messageID, text)
	return args.Error(0)
}

func (m *mockClient) EditCaption(ctx context.Context, chatID int64, messageID int, caption string) error {
	args := m.Called(ctx, chatID, messageID, caption)
	return args.Error(0)
}

func (m *mockClient) ClearButtons(ctx context.Context, chatID int64, messageID int) error {
	args := m.Called(ctx, chatID, messageID)
	return args.Error(0)
}

func (m *mockClient) AnswerCallback(ctx context.Context, callbackID string) error {
	args := m.Called(ctx, callbackID)
	return args.Error(0)
}
