package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/issac-D/uni-market-bot/internal/db"
	"github.com/issac-D/uni-market-bot/internal/models"
)

// IUserService defines the interface for user-related operations.
type IUserService interface {
	FindByID(ctx context.Context, userID int64) (*models.User, error)
	RegisterSeller(ctx context.Context, user *models.User) error
	IsRegisteredSeller(ctx context.Context, userID int64) (bool, error)
	IsBlacklisted(ctx context.Context, userID int64) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUserData(ctx context.Context, userID int64) error
	BanUser(ctx context.Context, userID int64) error
}

// userService implements IUserService.
type userService struct {
	db *mongo.Database
}

// NewUserService creates a new UserService.
func NewUserService(db *mongo.Database) IUserService {
	return &userService{db: db}
}

// FindByID finds a user by their Telegram id. Returns mongo.ErrNoDocuments
// when no registration record exists.
func (s *userService) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := s.db.Collection(db.UsersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding user %d: %w", userID, err)
	}
	return &user, nil
}

// RegisterSeller stores a completed registration. Re-registering overwrites
// the previous profile; the operation is an upsert keyed on the Telegram id.
func (s *userService) RegisterSeller(ctx context.Context, user *models.User) error {
	if user.JoinedAt.IsZero() {
		user.JoinedAt = time.Now().UTC()
	}
	user.IsSeller = true

	update := bson.M{
		"$set": bson.M{
			"username":     user.Username,
			"is_seller":    true,
			"real_name":    user.RealName,
			"phone_number": user.Phone,
			"id_kind":      user.IDKind,
			"id_number":    user.IDValue,
			"location":     user.Location,
			"is_blocked":   false,
		},
		"$setOnInsert": bson.M{
			"joined_at": user.JoinedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.db.Collection(db.UsersCollection).UpdateOne(ctx, bson.M{"_id": user.ID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to register user %d: %w", user.ID, err)
	}
	return nil
}

// IsRegisteredSeller reports whether the user has completed registration.
func (s *userService) IsRegisteredSeller(ctx context.Context, userID int64) (bool, error) {
	count, err := s.db.Collection(db.UsersCollection).CountDocuments(ctx,
		bson.M{"_id": userID, "is_seller": true})
	if err != nil {
		return false, fmt.Errorf("error checking registration for user %d: %w", userID, err)
	}
	return count > 0, nil
}

// IsBlacklisted reports whether the user has a permanent ban record. The
// check is independent of whether a user document still exists.
func (s *userService) IsBlacklisted(ctx context.Context, userID int64) (bool, error) {
	count, err := s.db.Collection(db.BlacklistCollection).CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return false, fmt.Errorf("error checking blacklist for user %d: %w", userID, err)
	}
	return count > 0, nil
}

// ListUsers returns all registered users, newest first.
func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: -1}})
	cursor, err := s.db.Collection(db.UsersCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	return users, nil
}

// DeleteUserData removes the user's registration record and all of their
// posts. The user may register again afterwards.
func (s *userService) DeleteUserData(ctx context.Context, userID int64) error {
	if _, err := s.db.Collection(db.UsersCollection).DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	res, err := s.db.Collection(db.PostsCollection).DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete posts of user %d: %w", userID, err)
	}
	log.Printf("Deleted user %d and %d of their posts", userID, res.DeletedCount)
	return nil
}

// BanUser deletes the user's data and records a permanent blacklist entry.
// Re-banning an already banned user is a no-op.
func (s *userService) BanUser(ctx context.Context, userID int64) error {
	if err := s.DeleteUserData(ctx, userID); err != nil {
		return err
	}

	entry := models.BlacklistEntry{UserID: userID, BannedAt: time.Now().UTC()}
	_, err := s.db.Collection(db.BlacklistCollection).InsertOne(ctx, entry)
	if err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil // already banned
		}
		return fmt.Errorf("failed to blacklist user %d: %w", userID, err)
	}
	return nil
}
