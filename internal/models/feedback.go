package models

import (
	"time"
)

// FeedbackEntry is a free-text message relayed to the admin group. Stored
// rows exist only for rate-limit counting.
type FeedbackEntry struct {
	ID        int64     `bson:"_id" json:"id"`
	UserID    int64     `bson:"user_id" json:"user_id"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
