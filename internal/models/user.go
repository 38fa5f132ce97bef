package models

import (
	"time"
)

// IDKind defines which document a seller used for identity verification.
type IDKind string

const (
	IDKindUniversity IDKind = "UNIVERSITY_ID"
	IDKindNational   IDKind = "NATIONAL_ID"
)

// Campus is one of the four fixed location tags users register under.
type Campus string

const (
	CampusMain    Campus = "main"
	CampusHealth  Campus = "health"
	CampusMehal   Campus = "mehal_meda"
	CampusOutside Campus = "outside"
)

// Label returns the user-facing form of the campus tag, as shown on keyboards
// and in published posts.
func (c Campus) Label() string {
	switch c {
	case CampusMain:
		return "🏫 Main Campus"
	case CampusHealth:
		return "🏥 Health Campus"
	case CampusMehal:
		return "🏗️ Mehal Meda"
	case CampusOutside:
		return "🏠 Outside"
	}
	return string(c)
}

// ParseCampus maps a keyboard button press back to a campus tag.
// Returns false if the text is not one of the four options.
func ParseCampus(text string) (Campus, bool) {
	for _, c := range []Campus{CampusMain, CampusHealth, CampusMehal, CampusOutside} {
		if text == c.Label() {
			return c, true
		}
	}
	return "", false
}

// User represents a bot user. The ID is the immutable Telegram user id.
// A user record exists only after registration completes; registration is an
// idempotent overwrite (upsert), and the record is removed only by the admin
// delete/ban operations.
type User struct {
	ID       int64  `bson:"_id" json:"id"`
	Username string `bson:"username" json:"username"`
	IsSeller bool   `bson:"is_seller" json:"is_seller"`
	RealName string `bson:"real_name" json:"real_name"`
	Phone    string `bson:"phone_number" json:"phone_number"`
	IDKind   IDKind `bson:"id_kind" json:"id_kind"`
	IDValue  string `bson:"id_number" json:"id_number"`
	Location Campus `bson:"location" json:"location"`

	JoinedAt time.Time `bson:"joined_at" json:"joined_at"`
	Blocked  bool      `bson:"is_blocked" json:"is_blocked"`
}

// BlacklistEntry is a permanent ban record, independent of whether a User
// document still exists.
type BlacklistEntry struct {
	UserID   int64     `bson:"_id" json:"user_id"`
	BannedAt time.Time `bson:"banned_at" json:"banned_at"`
}
