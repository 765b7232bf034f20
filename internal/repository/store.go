// Package repository defines the entity store contracts and their GORM implementation.
package repository

import (
	"context"

	"epicfails/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByToken(ctx context.Context, token string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error)
	SetGuidelinesAccepted(ctx context.Context, id uuid.UUID) error
	IncrementReportCount(ctx context.Context, id uuid.UUID) error
}

// PostFilter narrows post listings. Zero values mean "any".
type PostFilter struct {
	Category models.Category
	AuthorID uuid.UUID
	Limit    int
	Offset   int
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// RelationRepository persists one kind of (user, post) relation.
// Insert returns models.ErrDuplicateRelation when the pair already exists.
type RelationRepository interface {
	Kind() models.RelationKind
	Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	Insert(ctx context.Context, userID, postID uuid.UUID) error
	Remove(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
	// CountByPosts counts relations per post. Posts without any are absent.
	CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	// ExistingForUser reports which of postIDs the user holds this relation on.
	ExistingForUser(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// CountOnAuthorPosts counts relations on the author's posts made by anyone but the author.
	CountOnAuthorPosts(ctx context.Context, authorID uuid.UUID) (int64, error)
	DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
	CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	ExistingForUser(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ExistsForUser(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	CountOnAuthorPosts(ctx context.Context, authorID uuid.UUID) (int64, error)
	DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

// DuelRepository defines persistence operations for duels.
type DuelRepository interface {
	Create(ctx context.Context, duel *models.Duel) error
	CountWinsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	// WinTallies groups the category's duels by winner post. Order is unspecified.
	WinTallies(ctx context.Context, category models.Category) ([]models.WinTally, error)
	DeleteByWinner(ctx context.Context, postID uuid.UUID) (int64, error)
	DeleteByContender(ctx context.Context, postID uuid.UUID) (int64, error)
}

// ReportRepository defines persistence operations for moderation reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Store bundles every collection of one backing database.
type Store struct {
	Users     UserRepository
	Posts     PostRepository
	Likes     RelationRepository
	Bookmarks RelationRepository
	Comments  CommentRepository
	Duels     DuelRepository
	Reports   ReportRepository

	// Tx runs fn against a store bound to one unit of work. Nil runs fn on
	// this store directly.
	Tx func(ctx context.Context, fn func(tx *Store) error) error
	// Pinger checks store liveness. Nil means always healthy.
	Pinger func(ctx context.Context) error
}

// Relations returns the repository for kind, or nil for an unknown kind.
func (s *Store) Relations(kind models.RelationKind) RelationRepository {
	switch kind {
	case models.RelationLike:
		return s.Likes
	case models.RelationBookmark:
		return s.Bookmarks
	default:
		return nil
	}
}

// Atomic runs fn as a single unit of work when the backing store supports it.
func (s *Store) Atomic(ctx context.Context, fn func(tx *Store) error) error {
	if s.Tx == nil {
		return fn(s)
	}
	return s.Tx(ctx, fn)
}

// Ping reports whether the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.Pinger == nil {
		return nil
	}
	return s.Pinger(ctx)
}
