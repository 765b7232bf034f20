package repository

import (
	"context"
	"errors"
	"strings"

	"epicfails/internal/database"
	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

// NewStore wires every GORM repository over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:     NewUserRepository(db),
		Posts:     NewPostRepository(db),
		Likes:     NewLikeRepository(db),
		Bookmarks: NewBookmarkRepository(db),
		Comments:  NewCommentRepository(db),
		Duels:     NewDuelRepository(db),
		Reports:   NewReportRepository(db),
		Tx: func(ctx context.Context, fn func(tx *Store) error) error {
			return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return fn(NewStore(tx))
			})
		},
		Pinger: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	}
}

// isUniqueViolation recognizes duplicate-key failures from translated GORM
// errors, raw Postgres errors and driver messages.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, uniqueViolationCode)
}

// notFoundOr maps a missing row to NOT_FOUND and anything else to a store failure.
func notFoundOr(err error, entity string, id interface{}, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(entity, id)
	}
	return models.NewStoreError(op, err)
}

type postCount struct {
	PostID uuid.UUID
	N      int64
}

// countByPosts counts model rows per post over postIDs with a single GROUP BY.
// A non-nil userID restricts the count to that user's rows.
func countByPosts(ctx context.Context, db *gorm.DB, model interface{}, table string, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	defer observability.TrackQuery("count_by_posts", table)()

	q := db.WithContext(ctx).Model(model).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs)
	if userID != uuid.Nil {
		q = q.Where("user_id = ?", userID)
	}

	var rows []postCount
	if err := q.Group("post_id").Scan(&rows).Error; err != nil {
		return nil, models.NewStoreError(table+".count_by_posts", err)
	}
	for _, row := range rows {
		counts[row.PostID] = row.N
	}
	return counts, nil
}

func heldPosts(counts map[uuid.UUID]int64) map[uuid.UUID]bool {
	held := make(map[uuid.UUID]bool, len(counts))
	for id, n := range counts {
		held[id] = n > 0
	}
	return held
}
