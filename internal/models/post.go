package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a single shared fail.
type Post struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	AuthorID         uuid.UUID `gorm:"type:uuid;not null;index" bson:"authorId" json:"author_id"`
	Title            string    `gorm:"not null" bson:"title" json:"title"`
	Category         Category  `gorm:"type:varchar(32);not null;index" bson:"category" json:"category"`
	Description      string    `gorm:"type:text" bson:"description,omitempty" json:"description,omitempty"`
	ExpectedPhotoURL string    `bson:"expectedPhotoUrl,omitempty" json:"expected_photo_url,omitempty"`
	ActualPhotoURL   string    `gorm:"not null" bson:"actualPhotoUrl" json:"actual_photo_url"`
	CreatedAt        time.Time `gorm:"not null;index" bson:"createdAt" json:"created_at"`
}

// PostView is a post enriched with its engagement counts and the viewer's own relations.
type PostView struct {
	Post
	Author        *UserSummary `json:"author,omitempty"`
	LikesCount    int64        `json:"likes_count"`
	BookmarkCount int64        `json:"bookmarks_count"`
	CommentsCount int64        `json:"comments_count"`
	Liked         bool         `json:"liked"`
	Bookmarked    bool         `json:"bookmarked"`
	Commented     bool         `json:"commented"`
}
