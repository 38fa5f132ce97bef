package models

import (
	"time"
)

// PostKind distinguishes the three listing types.
type PostKind string

const (
	PostKindSell  PostKind = "SELL"
	PostKindLost  PostKind = "LOST"
	PostKindFound PostKind = "FOUND"
)

// PostStatus tracks a post through the moderation lifecycle.
// PENDING -> APPROVED | REJECTED; SOLD is reachable only from APPROVED;
// REJECTED is terminal.
type PostStatus string

const (
	PostStatusPending  PostStatus = "PENDING"
	PostStatusApproved PostStatus = "APPROVED"
	PostStatusRejected PostStatus = "REJECTED"
	PostStatusSold     PostStatus = "SOLD"
)

// Condition of a sell item. Lost/found reports carry ConditionNA.
type Condition string

const (
	ConditionNew  Condition = "NEW"
	ConditionUsed Condition = "USED"
	ConditionNA   Condition = "N/A"
)

// PhotoSkipped is the sentinel stored when the user explicitly skipped the
// optional photo step. It is distinct from any real Telegram file id so
// downstream code can branch on HasPhoto without null checks.
const PhotoSkipped = "skipped"

// PriceNA is stored for lost/found reports, which have no price.
const PriceNA = "N/A"

// CategoryLostFound is the fixed category tag for lost/found reports.
const CategoryLostFound = "LostFound"

// Post is a persisted listing subject to moderation.
type Post struct {
	ID        int64      `bson:"_id" json:"post_id"`
	UserID    int64      `bson:"user_id" json:"user_id"`
	Kind      PostKind   `bson:"type" json:"type"`
	Category  string     `bson:"category" json:"category"`
	Condition Condition  `bson:"condition" json:"condition"`
	Title     string     `bson:"title" json:"title"`
	Desc      string     `bson:"description" json:"description"`
	Location  string     `bson:"location,omitempty" json:"location,omitempty"` // set for lost/found; empty for sell
	PhotoID   string     `bson:"photo_id" json:"photo_id"`
	Price     string     `bson:"price" json:"price"`
	Status    PostStatus `bson:"status" json:"status"`

	// ChannelMessageID is the Telegram message id of the published channel
	// post. Zero until the post is APPROVED and the publish succeeds.
	ChannelMessageID int `bson:"message_id,omitempty" json:"message_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasPhoto reports whether the post carries a real photo reference.
func (p *Post) HasPhoto() bool {
	return p.PhotoID != "" && p.PhotoID != PhotoSkipped
}
