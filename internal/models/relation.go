package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationKind names a toggleable user-to-post relation.
type RelationKind string

const (
	RelationLike     RelationKind = "like"
	RelationBookmark RelationKind = "bookmark"
)

// Valid reports whether k is a known relation kind.
func (k RelationKind) Valid() bool {
	return k == RelationLike || k == RelationBookmark
}

// Like records that a user liked a post. At most one per (UserID, PostID).
type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post" bson:"userId" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post;index" bson:"postId" json:"post_id"`
	CreatedAt time.Time `gorm:"not null" bson:"createdAt" json:"created_at"`
}

// Bookmark records that a user saved a post. At most one per (UserID, PostID).
type Bookmark struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_post" bson:"userId" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_post;index" bson:"postId" json:"post_id"`
	CreatedAt time.Time `gorm:"not null" bson:"createdAt" json:"created_at"`
}

// ToggleResult is the state of a relation after a toggle.
type ToggleResult struct {
	Kind       RelationKind `json:"kind"`
	PostID     uuid.UUID    `json:"post_id"`
	Active     bool         `json:"active"`
	CountAfter int64        `json:"count"`
}
