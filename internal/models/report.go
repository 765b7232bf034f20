package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxReportsPerUser caps how many reports one user may file.
const MaxReportsPerUser = 2

// Report is a user's moderation flag on a post.
type Report struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" bson:"userId" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" bson:"postId" json:"post_id"`
	Reasons   []string  `gorm:"serializer:json;type:text;not null" bson:"reasons" json:"reasons"`
	CreatedAt time.Time `gorm:"not null" bson:"createdAt" json:"created_at"`
}
