package service

import (
	"context"
	"testing"

	"epicfails/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_CommunityScenario(t *testing.T) {
	store := newTestStore(t)
	fx := applyScenario(t, store, "community_stats")
	svc := NewStatsService(store)
	ctx := context.Background()

	stats, err := svc.ComputeStats(ctx, fx.Users["u1"].ID)
	require.NoError(t, err)

	assert.Equal(t, "u1", stats.User.Username)
	assert.EqualValues(t, 2, stats.FromUser.NbPosts)
	assert.EqualValues(t, 0, stats.FromUser.NbLikes)
	assert.EqualValues(t, 2, stats.FromCommunity.NbLikes)
	assert.EqualValues(t, 1, stats.FromCommunity.NbComments)
	assert.EqualValues(t, 0, stats.FromCommunity.NbWonDuels)
	assert.EqualValues(t, 20, stats.Points.FromUser)
	assert.EqualValues(t, 8, stats.Points.FromCommunity)
	assert.EqualValues(t, 28, stats.Points.Total)
	assert.EqualValues(t, 0, stats.Points.Tier)
	assert.Equal(t, "Fail Rookie", stats.Points.Status)

	// u2 only acted on someone else's posts.
	other, err := svc.ComputeStats(ctx, fx.Users["u2"].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, other.FromUser.NbLikes)
	assert.EqualValues(t, 1, other.FromUser.NbComments)
	assert.EqualValues(t, 4, other.Points.Total)
}

func TestStatsService_ExcludesSelfEngagementAndCountsWins(t *testing.T) {
	store := newTestStore(t)
	fx := applyScenario(t, store, "cooking_podium")
	svc := NewStatsService(store)
	ctx := context.Background()

	chef := fx.Users["chef"]
	require.NoError(t, store.Likes.Insert(ctx, chef.ID, fx.Posts["A"].ID))

	stats, err := svc.ComputeStats(ctx, chef.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.FromUser.NbLikes)
	assert.EqualValues(t, 0, stats.FromCommunity.NbLikes)
	assert.EqualValues(t, 5, stats.FromCommunity.NbWonDuels)
	assert.EqualValues(t, 2*10+1+5*20, stats.Points.Total)
	assert.Equal(t, "Professional Flop", stats.Points.Status)
}

func TestStatsService_Deterministic(t *testing.T) {
	store := newTestStore(t)
	fx := applyScenario(t, store, "demo")
	svc := NewStatsService(store)
	ctx := context.Background()

	first, err := svc.ComputeStats(ctx, fx.Users["clumsy_carla"].ID)
	require.NoError(t, err)
	second, err := svc.ComputeStats(ctx, fx.Users["clumsy_carla"].ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStatsService_UnknownUser(t *testing.T) {
	svc := NewStatsService(newTestStore(t))
	_, err := svc.ComputeStats(context.Background(), uuid.New())
	assertAppError(t, err, models.CodeNotFound, "User")
}
