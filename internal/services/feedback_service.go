package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/issac-D/uni-market-bot/internal/db"
	"github.com/issac-D/uni-market-bot/internal/models"
)

// IFeedbackService defines the interface for feedback-related operations.
type IFeedbackService interface {
	AddFeedback(ctx context.Context, userID int64, content string) (*models.FeedbackEntry, error)
	CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int64, error)
}

// feedbackService implements IFeedbackService.
type feedbackService struct {
	db *mongo.Database
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(db *mongo.Database) IFeedbackService {
	return &feedbackService{db: db}
}

// AddFeedback stores a feedback row. The row exists for rate-limit counting;
// the relay to the admin group happens at the flow layer.
func (s *feedbackService) AddFeedback(ctx context.Context, userID int64, content string) (*models.FeedbackEntry, error) {
	var entry *models.FeedbackEntry

	operation := func() error {
		id, err := db.NextSequence(ctx, s.db, "feedback_id")
		if err != nil {
			return err
		}
		entry = &models.FeedbackEntry{
			ID:        id,
			UserID:    userID,
			Content:   content,
			CreatedAt: time.Now().UTC(),
		}
		_, insertErr := s.db.Collection(db.FeedbackCollection).InsertOne(ctx, entry)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to store feedback from user %d: %w", userID, err)
	}
	return entry, nil
}

// CountRecentByUser counts the user's feedback entries created at or after
// the given time. Used for the daily feedback cap.
func (s *feedbackService) CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int64, error) {
	count, err := s.db.Collection(db.FeedbackCollection).CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": since},
	})
	if err != nil {
		return 0, fmt.Errorf("error counting recent feedback for user %d: %w", userID, err)
	}
	return count, nil
}
