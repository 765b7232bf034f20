package models

import (
	"time"

	"github.com/google/uuid"
)

// Stamp assigns a fresh ID and creation time to a record about to be inserted,
// leaving values the caller already set untouched.
func Stamp(id *uuid.UUID, createdAt *time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}
