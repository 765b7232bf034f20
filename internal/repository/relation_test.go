package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"epicfails/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationRepository_InsertRemoveCount(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "author")
	fan := mustUser(t, s, "fan")
	post := mustPost(t, s, author, models.CategoryCooking)

	for _, repo := range []RelationRepository{s.Likes, s.Bookmarks} {
		t.Run(string(repo.Kind()), func(t *testing.T) {
			exists, err := repo.Exists(ctx, fan.ID, post.ID)
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, repo.Insert(ctx, fan.ID, post.ID))
			require.NoError(t, repo.Insert(ctx, author.ID, post.ID))

			exists, err = repo.Exists(ctx, fan.ID, post.ID)
			require.NoError(t, err)
			assert.True(t, exists)

			n, err := repo.CountByPost(ctx, post.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)

			n, err = repo.CountByUser(ctx, fan.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			n, err = repo.CountOnAuthorPosts(ctx, author.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n, "the author's own relation is not community activity")

			removed, err := repo.Remove(ctx, fan.ID, post.ID)
			require.NoError(t, err)
			assert.True(t, removed)

			removed, err = repo.Remove(ctx, fan.ID, post.ID)
			require.NoError(t, err)
			assert.False(t, removed)

			deleted, err := repo.DeleteByPost(ctx, post.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), deleted)
		})
	}
}

func TestRelationRepository_DuplicateInsertIsConflict(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "author")
	post := mustPost(t, s, author, models.CategoryArt)

	require.NoError(t, s.Likes.Insert(ctx, author.ID, post.ID))
	err := s.Likes.Insert(ctx, author.ID, post.ID)
	assert.True(t, errors.Is(err, models.ErrDuplicateRelation))

	n, err := s.Likes.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.Bookmarks.Insert(ctx, author.ID, post.ID), "likes and bookmarks are independent")
}

func TestRelationRepository_PostgresErrors(t *testing.T) {
	userID, postID := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		dbErr   error
		checkFn func(t *testing.T, err error)
	}{
		{
			name:  "unique violation",
			dbErr: &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"},
			checkFn: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, models.ErrDuplicateRelation))
			},
		},
		{
			name:  "connection failure",
			dbErr: errors.New("connection refused"),
			checkFn: func(t *testing.T, err error) {
				appErr, ok := models.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, models.CodeStoreUnavailable, appErr.Code)
				assert.Equal(t, "likes.insert", appErr.Reason)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, sqlDB := setupMockDB(t)
			defer sqlDB.Close()

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "likes"`)).WillReturnError(tt.dbErr)
			mock.ExpectRollback()

			err := NewLikeRepository(db).Insert(context.Background(), userID, postID)
			tt.checkFn(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRelationRepository_CountOnAuthorPostsQuery(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()
	authorID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bookmarks" JOIN posts ON posts.id = bookmarks.post_id WHERE posts.author_id = $1 AND bookmarks.user_id <> $2`)).
		WithArgs(authorID, authorID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := NewBookmarkRepository(db).CountOnAuthorPosts(context.Background(), authorID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: likes.user_id, likes.post_id")))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
	assert.False(t, isUniqueViolation(nil))
}

func TestBatchedCountsByPosts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "author")
	fan := mustUser(t, s, "fan")
	p1 := mustPost(t, s, author, models.CategoryCooking)
	p2 := mustPost(t, s, author, models.CategoryArt)
	p3 := mustPost(t, s, author, models.CategoryDIY)
	ids := []uuid.UUID{p1.ID, p2.ID, p3.ID}

	require.NoError(t, s.Likes.Insert(ctx, fan.ID, p1.ID))
	require.NoError(t, s.Likes.Insert(ctx, author.ID, p1.ID))
	require.NoError(t, s.Likes.Insert(ctx, author.ID, p2.ID))
	require.NoError(t, s.Comments.Create(ctx, &models.Comment{UserID: fan.ID, PostID: p2.ID, Text: "oof"}))
	require.NoError(t, s.Comments.Create(ctx, &models.Comment{UserID: fan.ID, PostID: p2.ID, Text: "again"}))

	likes, err := s.Likes.CountByPosts(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{p1.ID: 2, p2.ID: 1}, likes)

	liked, err := s.Likes.ExistingForUser(ctx, fan.ID, ids)
	require.NoError(t, err)
	assert.True(t, liked[p1.ID])
	assert.False(t, liked[p2.ID])
	assert.False(t, liked[p3.ID])

	comments, err := s.Comments.CountByPosts(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{p2.ID: 2}, comments)

	commented, err := s.Comments.ExistingForUser(ctx, fan.ID, ids)
	require.NoError(t, err)
	assert.True(t, commented[p2.ID])
	assert.False(t, commented[p1.ID])

	empty, err := s.Bookmarks.CountByPosts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCountByPosts_SingleGroupedQuery(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer func() { _ = sqlDB.Close() }()
	repo := NewLikeRepository(db)
	p1, p2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) AS n FROM "likes" WHERE post_id IN \(\$1,\$2\) GROUP BY "?post_id"?`).
		WithArgs(p1, p2).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "n"}).AddRow(p1, 3))

	counts, err := repo.CountByPosts(context.Background(), []uuid.UUID{p1, p2})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{p1: 3}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}
