package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/issac-D/uni-market-bot/internal/db"
	"github.com/issac-D/uni-market-bot/internal/models"
)

var (
	// ErrPostNotFound is returned when no post with the given id exists.
	ErrPostNotFound = errors.New("post not found")
	// ErrStatusConflict is returned when a transition's precondition status no
	// longer holds, i.e. another actor already moved the post.
	ErrStatusConflict = errors.New("post status already changed")
)

// IPostService defines the interface for post-related operations.
type IPostService interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, postID int64) (*models.Post, error)
	UpdateStatus(ctx context.Context, postID int64, from, to models.PostStatus) error
	SetChannelMessageID(ctx context.Context, postID int64, messageID int) error
	CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int64, error)
}

// postService implements IPostService.
type postService struct {
	db *mongo.Database
}

// NewPostService creates a new PostService.
func NewPostService(db *mongo.Database) IPostService {
	return &postService{db: db}
}

// CreatePost assigns the next sequential post id and inserts the post in
// PENDING status. The id counter and the insert are not atomic together, so a
// duplicate key from a concurrent writer is resolved by fetching a fresh id
// and retrying.
func (s *postService) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	collection := s.db.Collection(db.PostsCollection)
	post.Status = models.PostStatusPending
	post.CreatedAt = time.Now().UTC()

	operation := func() error {
		id, err := db.NextSequence(ctx, s.db, "post_id")
		if err != nil {
			return err
		}
		post.ID = id
		_, insertErr := collection.InsertOne(ctx, post)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert new post for user %d (last attempted post ID: %d) after multiple retries: %w",
			post.UserID, post.ID, err)
	}
	return post, nil
}

// FindByID finds a post by its id.
func (s *postService) FindByID(ctx context.Context, postID int64) (*models.Post, error) {
	var post models.Post
	err := s.db.Collection(db.PostsCollection).FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("error finding post %d: %w", postID, err)
	}
	return &post, nil
}

// UpdateStatus moves a post from one status to another. The source status is
// part of the filter, so a decision that raced with another one fails with
// ErrStatusConflict instead of overwriting it.
func (s *postService) UpdateStatus(ctx context.Context, postID int64, from, to models.PostStatus) error {
	collection := s.db.Collection(db.PostsCollection)
	filter := bson.M{"_id": postID, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating status of post %d: %w", postID, err)
	}
	if result.MatchedCount == 0 {
		// Diagnose: missing post vs. status race.
		count, countErr := collection.CountDocuments(ctx, bson.M{"_id": postID})
		if countErr == nil && count == 0 {
			return ErrPostNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

// SetChannelMessageID records the Telegram message id of the published
// channel post, enabling the later closed-case edit.
func (s *postService) SetChannelMessageID(ctx context.Context, postID int64, messageID int) error {
	_, err := s.db.Collection(db.PostsCollection).UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{"message_id": messageID}})
	if err != nil {
		return fmt.Errorf("error storing channel message id for post %d: %w", postID, err)
	}
	return nil
}

// CountRecentByUser counts the user's posts created at or after the given
// time, regardless of moderation outcome. Used for the daily submission cap.
func (s *postService) CountRecentByUser(ctx context.Context, userID int64, since time.Time) (int64, error) {
	count, err := s.db.Collection(db.PostsCollection).CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": since},
	})
	if err != nil {
		return 0, fmt.Errorf("error counting recent posts for user %d: %w", userID, err)
	}
	return count, nil
}
