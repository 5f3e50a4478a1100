package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a document in the users collection. PasswordHash is
// empty for accounts created through Google login that were never given
// a local password.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username            string             `bson:"username" json:"username"`
	Email               string             `bson:"email" json:"email"`
	PasswordHash        string             `bson:"password_hash,omitempty" json:"-"`
	GoogleID            string             `bson:"google_id,omitempty" json:"-"`
	ProfilePic          string             `bson:"profile_pic,omitempty" json:"profile_pic,omitempty"`
	RefreshTokenHash    string             `bson:"refresh_token_hash,omitempty" json:"-"`
	FailedLoginAttempts int                `bson:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time         `bson:"locked_until,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
}

// HasLocalPassword reports whether the user can authenticate with a password.
func (u *User) HasLocalPassword() bool {
	return u.PasswordHash != ""
}
