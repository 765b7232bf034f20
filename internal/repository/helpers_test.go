package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"epicfails/internal/database"
	"epicfails/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewStore(db), db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, db
}

func mustUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     name,
		Email:        name + "@epicfails.test",
		PasswordHash: "x",
		AuthToken:    "token-" + name,
	}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func mustPost(t *testing.T, s *Store, author *models.User, category models.Category) *models.Post {
	t.Helper()
	p := &models.Post{
		AuthorID:       author.ID,
		Title:          fmt.Sprintf("fail by %s", author.Username),
		Category:       category,
		ActualPhotoURL: "https://img.test/actual.jpg",
	}
	require.NoError(t, s.Posts.Create(context.Background(), p))
	return p
}

func mustDuel(t *testing.T, s *Store, by *models.User, category models.Category, p1, p2, winner uuid.UUID, at time.Time) *models.Duel {
	t.Helper()
	d := &models.Duel{
		UserID:       by.ID,
		Category:     category,
		Post1ID:      p1,
		Post2ID:      p2,
		WinnerPostID: winner,
		CreatedAt:    at,
	}
	require.NoError(t, s.Duels.Create(context.Background(), d))
	return d
}
