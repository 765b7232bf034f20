// Package models contains data structures for the engagement ledger's domain models.
package models

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// DefaultAvatarURL is assigned to users who never uploaded an avatar.
const DefaultAvatarURL = "https://res.cloudinary.com/epicfails/image/upload/v1/EF_Users/default-avatar.png"

// User represents a member of the EpicFails community.
type User struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	Username              string     `gorm:"uniqueIndex;not null" bson:"username" json:"username"`
	Email                 string     `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash          string     `gorm:"not null" bson:"passwordHash" json:"-"`
	AuthToken             string     `gorm:"uniqueIndex;not null" bson:"authToken" json:"-"`
	HasAcceptedGuidelines bool       `gorm:"not null;default:false" bson:"hasAcceptedGuidelines" json:"has_accepted_guidelines"`
	SignupDate            time.Time  `gorm:"not null" bson:"signupDate" json:"signup_date"`
	AvatarURL             string     `bson:"avatarUrl" json:"avatar_url"`
	Interests             []Category `gorm:"serializer:json;type:text" bson:"interests" json:"interests"`
	ReportCount           int        `gorm:"not null;default:0" bson:"reportCount" json:"report_count"`
	ResetCode             string     `bson:"resetCode,omitempty" json:"-"`
}

// Summary returns the public profile fragment embedded in stats and comments.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		Email:     u.Email,
		Interests: u.Interests,
	}
}

// PublicSummary omits contact details and interests, for records other users see.
func (u *User) PublicSummary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// UserSummary is the subset of a user exposed alongside other records.
type UserSummary struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	AvatarURL string     `json:"avatar_url"`
	Email     string     `json:"email,omitempty"`
	Interests []Category `json:"interests,omitempty"`
}

// NewAuthToken returns a random URL-safe opaque token.
func NewAuthToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
