package models

import (
	"time"
)

// InteractionStatus tracks a buyer/seller contact. Currently only recorded.
type InteractionStatus string

const (
	InteractionStatusPending InteractionStatus = "PENDING"
)

// Interaction links a buyer to a seller's post. The moderation workflow does
// not consume these yet; the relation exists so future contact tracking does
// not need a schema change.
type Interaction struct {
	ID        int64             `bson:"_id" json:"interaction_id"`
	BuyerID   int64             `bson:"buyer_id" json:"buyer_id"`
	SellerID  int64             `bson:"seller_id" json:"seller_id"`
	PostID    int64             `bson:"post_id" json:"post_id"`
	Status    InteractionStatus `bson:"status" json:"status"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}
