package models

import "github.com/google/uuid"

// CascadeReport counts what a post deletion removed.
type CascadeReport struct {
	PostID         uuid.UUID `json:"post_id"`
	Likes          int64     `json:"likes"`
	Bookmarks      int64     `json:"bookmarks"`
	Comments       int64     `json:"comments"`
	WonDuels       int64     `json:"won_duels"`
	DuelReferences int64     `json:"duel_references"`
}
