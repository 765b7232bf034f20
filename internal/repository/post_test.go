package repository

import (
	"context"
	"testing"
	"time"

	"epicfails/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ListNewestFirstWithFilters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mk := func(author *models.User, cat models.Category, offset time.Duration) *models.Post {
		p := &models.Post{
			AuthorID:       author.ID,
			Title:          "t",
			Category:       cat,
			ActualPhotoURL: "https://img.test/a.jpg",
			CreatedAt:      base.Add(offset),
		}
		require.NoError(t, s.Posts.Create(ctx, p))
		return p
	}
	oldest := mk(alice, models.CategoryCooking, 0)
	middle := mk(bob, models.CategoryCooking, time.Hour)
	newest := mk(alice, models.CategoryBugs, 2*time.Hour)

	all, err := s.Posts.List(ctx, PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	cooking, err := s.Posts.List(ctx, PostFilter{Category: models.CategoryCooking})
	require.NoError(t, err)
	assert.Len(t, cooking, 2)

	byAlice, err := s.Posts.List(ctx, PostFilter{AuthorID: alice.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, byAlice, 1)
	assert.Equal(t, newest.ID, byAlice[0].ID)

	page2, err := s.Posts.List(ctx, PostFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, oldest.ID, page2[0].ID)

	n, err := s.Posts.CountByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestPostRepository_GetAndDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "author")
	post := mustPost(t, s, author, models.CategoryDIY)

	got, err := s.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, models.CategoryDIY, got.Category)

	many, err := s.Posts.GetByIDs(ctx, []uuid.UUID{post.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, many, 1)

	deleted, err := s.Posts.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = s.Posts.GetByID(ctx, post.ID)
	assert.True(t, models.IsNotFound(err, "Post"))
}
