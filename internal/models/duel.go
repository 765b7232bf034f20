package models

import (
	"time"

	"github.com/google/uuid"
)

// PodiumSize is the number of slots a podium holds.
const PodiumSize = 3

// Duel records a judged match between two posts of one category. Duels are immutable.
type Duel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" bson:"userId" json:"user_id"`
	Category     Category  `gorm:"type:varchar(32);not null;index" bson:"category" json:"category"`
	Post1ID      uuid.UUID `gorm:"type:uuid;not null;index" bson:"post1Id" json:"post1_id"`
	Post2ID      uuid.UUID `gorm:"type:uuid;not null;index" bson:"post2Id" json:"post2_id"`
	WinnerPostID uuid.UUID `gorm:"type:uuid;not null;index" bson:"winnerPostId" json:"winner_post_id"`
	CreatedAt    time.Time `gorm:"not null" bson:"createdAt" json:"created_at"`
}

// WinTally aggregates the duels a post won within a category.
type WinTally struct {
	PostID     uuid.UUID `bson:"_id"`
	Wins       int64     `bson:"wins"`
	FirstWonAt time.Time `bson:"firstWonAt"`
}

// PodiumSlot is one ranked entry of a category podium. NotFound marks a
// winner post that no longer exists; Error then carries NOT_FOUND/Post.
type PodiumSlot struct {
	Rank     int            `json:"rank"`
	PostID   uuid.UUID      `json:"post_id"`
	Wins     int64          `json:"wins"`
	Post     *Post          `json:"post,omitempty"`
	NotFound bool           `json:"not_found,omitempty"`
	Error    *ErrorResponse `json:"error,omitempty"`
}

// Err returns the slot's resolution error, if any.
func (s PodiumSlot) Err() error {
	if s.NotFound {
		return NewNotFoundError("Post", s.PostID)
	}
	return nil
}

// MarkMissing flags the slot's post as gone and attaches the error to the slot.
func (s *PodiumSlot) MarkMissing() {
	s.Post = nil
	s.NotFound = true
	resp := NewErrorResponse(s.Err())
	s.Error = &resp
}
