package service

import (
	"context"
	"testing"
	"time"

	"epicfails/internal/cache"
	"epicfails/internal/models"
	"epicfails/internal/notifications"
	"epicfails/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuelService_CreateDuel_Validation(t *testing.T) {
	store := newTestStore(t)
	fx := applyScenario(t, store, "cooking_podium")
	svc := NewDuelService(store, nil, 0, nil)
	ctx := context.Background()

	judge, a, b := fx.Users["judge"].ID, fx.Posts["A"].ID, fx.Posts["B"].ID

	tests := []struct {
		name   string
		input  CreateDuelInput
		code   string
		reason string
	}{
		{"bad category", CreateDuelInput{UserID: judge, Category: "Baking", Post1ID: a, Post2ID: b, WinnerPostID: a}, models.CodeValidation, "BadCategory"},
		{"same post", CreateDuelInput{UserID: judge, Category: "Cooking", Post1ID: a, Post2ID: a, WinnerPostID: a}, models.CodeValidation, "SamePost"},
		{"bad winner", CreateDuelInput{UserID: judge, Category: "Cooking", Post1ID: a, Post2ID: b, WinnerPostID: uuid.New()}, models.CodeValidation, "BadWinner"},
		{"unknown user", CreateDuelInput{UserID: uuid.New(), Category: "Cooking", Post1ID: a, Post2ID: b, WinnerPostID: a}, models.CodeNotFound, "User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDuel(ctx, tt.input)
			assertAppError(t, err, tt.code, tt.reason)
		})
	}

	missing := uuid.New()
	_, err := svc.CreateDuel(ctx, CreateDuelInput{UserID: judge, Category: "Cooking", Post1ID: a, Post2ID: missing, WinnerPostID: missing})
	assertAppError(t, err, models.CodeNotFound, "Post")
}

func TestDuelService_PodiumScenario(t *testing.T) {
	store := newTestStore(t)
	fx := applyScenario(t, store, "cooking_podium")
	svc := NewDuelService(store, nil, 0, nil)

	slots, err := svc.Podium(context.Background(), "Cooking")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, fx.Posts["A"].ID, slots[0].PostID)
	assert.EqualValues(t, 3, slots[0].Wins)
	assert.Equal(t, 1, slots[0].Rank)
	assert.Equal(t, fx.Posts["B"].ID, slots[1].PostID)
	assert.EqualValues(t, 2, slots[1].Wins)
	require.NotNil(t, slots[1].Post)

	empty, err := svc.Podium(context.Background(), "Art")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.Podium(context.Background(), "Baking")
	assertAppError(t, err, models.CodeValidation, "BadCategory")
}

func TestDuelService_PodiumTieBreaksOnFirstWin(t *testing.T) {
	store := newTestStore(t)
	fx := applyScenario(t, store, "cooking_podium")
	ctx := context.Background()
	svc := NewDuelService(store, nil, 0, nil)

	// Give B an earlier win so both have three, B first.
	early := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, store.Duels.Create(ctx, &models.Duel{
		UserID:       fx.Users["judge"].ID,
		Category:     models.CategoryCooking,
		Post1ID:      fx.Posts["A"].ID,
		Post2ID:      fx.Posts["B"].ID,
		WinnerPostID: fx.Posts["B"].ID,
		CreatedAt:    early,
	}))

	slots, err := svc.Podium(ctx, "Cooking")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, fx.Posts["B"].ID, slots[0].PostID)
	assert.Equal(t, fx.Posts["A"].ID, slots[1].PostID)
}

func TestDuelService_PodiumMarksMissingPost(t *testing.T) {
	store := newTestStore(t)
	fx := applyScenario(t, store, "cooking_podium")
	ctx := context.Background()
	svc := NewDuelService(store, nil, 0, nil)

	// Remove B without the cascade so its wins dangle.
	_, err := store.Posts.Delete(ctx, fx.Posts["B"].ID)
	require.NoError(t, err)

	slots, err := svc.Podium(ctx, "Cooking")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.False(t, slots[0].NotFound)
	assert.True(t, slots[1].NotFound)
	assert.Nil(t, slots[1].Post)
	assertAppError(t, slots[1].Err(), models.CodeNotFound, "Post")
}

func TestDuelService_PodiumCache(t *testing.T) {
	store := newTestStore(t)
	fx := applyScenario(t, store, "cooking_podium")
	ctx := context.Background()
	c, mr := newTestCache(t)
	events := &testutil.EventRecorder{}
	svc := NewDuelService(store, c, time.Minute, events)

	first, err := svc.Podium(ctx, "cooking")
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.PodiumKey(models.CategoryCooking)))

	cached, err := svc.Podium(ctx, "Cooking")
	require.NoError(t, err)
	require.Len(t, cached, len(first))
	assert.Equal(t, first[0].PostID, cached[0].PostID)

	// Two more wins for B take it to the top once the cache is invalidated.
	for i := 0; i < 2; i++ {
		_, err := svc.CreateDuel(ctx, CreateDuelInput{
			UserID:       fx.Users["judge"].ID,
			Category:     "Cooking",
			Post1ID:      fx.Posts["A"].ID,
			Post2ID:      fx.Posts["B"].ID,
			WinnerPostID: fx.Posts["B"].ID,
		})
		require.NoError(t, err)
	}
	assert.False(t, mr.Exists(cache.PodiumKey(models.CategoryCooking)))

	fresh, err := svc.Podium(ctx, "Cooking")
	require.NoError(t, err)
	assert.Equal(t, fx.Posts["B"].ID, fresh[0].PostID)
	assert.EqualValues(t, 4, fresh[0].Wins)
	assert.Equal(t, []string{notifications.EventDuelCreated, notifications.EventDuelCreated}, events.Types())
}
