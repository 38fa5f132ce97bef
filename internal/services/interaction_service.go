package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/issac-D/uni-market-bot/internal/db"
	"github.com/issac-D/uni-market-bot/internal/models"
)

// IInteractionService defines the interface for buyer/seller contact records.
type IInteractionService interface {
	RecordInteraction(ctx context.Context, buyerID, sellerID, postID int64) (*models.Interaction, error)
}

// interactionService implements IInteractionService.
type interactionService struct {
	db *mongo.Database
}

// NewInteractionService creates a new InteractionService.
func NewInteractionService(db *mongo.Database) IInteractionService {
	return &interactionService{db: db}
}

// RecordInteraction stores a contact event between a buyer and a post's
// seller. Nothing consumes these rows yet.
func (s *interactionService) RecordInteraction(ctx context.Context, buyerID, sellerID, postID int64) (*models.Interaction, error) {
	var interaction *models.Interaction

	operation := func() error {
		id, err := db.NextSequence(ctx, s.db, "interaction_id")
		if err != nil {
			return err
		}
		interaction = &models.Interaction{
			ID:        id,
			BuyerID:   buyerID,
			SellerID:  sellerID,
			PostID:    postID,
			Status:    models.InteractionStatusPending,
			CreatedAt: time.Now().UTC(),
		}
		_, insertErr := s.db.Collection(db.InteractionsCollection).InsertOne(ctx, interaction)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to record interaction for post %d: %w", postID, err)
	}
	return interaction, nil
}
