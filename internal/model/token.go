package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RefreshToken is a document in the `refresh_tokens` collection. One record
// is inserted per login and the token string is stored exactly as handed to
// the client: rotation looks the record up by that string and re-derives
// the subject from the token itself, so no hash indirection is possible.
// Expired records are ignored at use time rather than swept.
type RefreshToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    string        `bson:"user_id"`
	Token     string        `bson:"token"`
	ExpiresAt time.Time     `bson:"expires_at"`
}
