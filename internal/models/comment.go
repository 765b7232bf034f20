package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxCommentLength bounds comment text in bytes.
const MaxCommentLength = 10000

// Comment represents a comment on a post.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" bson:"userId" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" bson:"postId" json:"post_id"`
	Text      string    `gorm:"type:text;not null" bson:"text" json:"text"`
	CreatedAt time.Time `gorm:"not null" bson:"createdAt" json:"created_at"`
}

// CommentView is a comment with its author's public profile.
type CommentView struct {
	Comment
	Author *UserSummary `json:"author,omitempty"`
}
