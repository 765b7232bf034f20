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

func TestCommentRepository_Lifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	author := mustUser(t, s, "author")
	fan := mustUser(t, s, "fan")
	post := mustPost(t, s, author, models.CategorySewing)

	first := &models.Comment{UserID: fan.ID, PostID: post.ID, Text: "ouch", CreatedAt: time.Now().UTC().Add(-time.Minute)}
	second := &models.Comment{UserID: author.ID, PostID: post.ID, Text: "yes it hurt"}
	require.NoError(t, s.Comments.Create(ctx, first))
	require.NoError(t, s.Comments.Create(ctx, second))

	list, err := s.Comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	n, err := s.Comments.CountOnAuthorPosts(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Comments.CountByUser(ctx, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	commented, err := s.Comments.ExistsForUser(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, commented)

	require.NoError(t, s.Comments.Delete(ctx, first.ID))
	assert.True(t, models.IsNotFound(s.Comments.Delete(ctx, first.ID), "Comment"))

	_, err = s.Comments.GetByID(ctx, uuid.New())
	assert.True(t, models.IsNotFound(err, "Comment"))

	deleted, err := s.Comments.DeleteByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	n, err = s.Comments.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
