package server

import (
	"context"
	"net/http"
	"testing"

	"epicfails/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPodium(t *testing.T) {
	ts := newTestServer(t, Deps{})
	fx := ts.applyScenario(t, "cooking_podium")

	resp := ts.do(t, http.MethodGet, "/api/duels/podium/Cooking", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var slots []models.PodiumSlot
	decode(t, resp, &slots)
	require.Len(t, slots, 2)
	assert.Equal(t, fx.Posts["A"].ID, slots[0].PostID)
	assert.EqualValues(t, 3, slots[0].Wins)
	assert.Equal(t, fx.Posts["B"].ID, slots[1].PostID)
	assert.EqualValues(t, 2, slots[1].Wins)

	resp = ts.do(t, http.MethodGet, "/api/duels/podium/Gardening", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &slots)
	assert.Empty(t, slots)

	resp = ts.do(t, http.MethodGet, "/api/duels/podium/Knitting", "", nil)
	assertErrorResponse(t, resp, fiber.StatusBadRequest, models.CodeValidation, "BadCategory")
}

func TestCreateDuelHandler(t *testing.T) {
	ts := newTestServer(t, Deps{})
	fx := ts.applyScenario(t, "cooking_podium")
	a := fx.Posts["A"].ID.String()
	b := fx.Posts["B"].ID.String()

	resp := ts.do(t, http.MethodPost, "/api/duels", "token-judge", map[string]string{
		"category": "Cooking", "post1_id": a, "post2_id": b, "winner_post_id": b,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var duel models.Duel
	decode(t, resp, &duel)
	assert.Equal(t, fx.Posts["B"].ID, duel.WinnerPostID)
	assert.Equal(t, fx.Users["judge"].ID, duel.UserID)

	resp = ts.do(t, http.MethodPost, "/api/duels", "token-judge", map[string]string{
		"category": "Cooking", "post1_id": a, "post2_id": a, "winner_post_id": a,
	})
	assertErrorResponse(t, resp, fiber.StatusBadRequest, models.CodeValidation, "SamePost")

	resp = ts.do(t, http.MethodPost, "/api/duels", "token-judge", map[string]string{
		"category": "Cooking", "post1_id": a, "post2_id": "bogus", "winner_post_id": a,
	})
	assertErrorResponse(t, resp, fiber.StatusBadRequest, models.CodeValidation, "BadID")

	// B now has three wins; A keeps first place on its earlier first win.
	resp = ts.do(t, http.MethodGet, "/api/duels/podium/Cooking", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var slots []models.PodiumSlot
	decode(t, resp, &slots)
	require.Len(t, slots, 2)
	assert.Equal(t, fx.Posts["A"].ID, slots[0].PostID)
	assert.EqualValues(t, 3, slots[1].Wins)
}

func TestGetPodiumMissingWinner(t *testing.T) {
	ts := newTestServer(t, Deps{})
	fx := ts.applyScenario(t, "cooking_podium")

	// Drop B without the cascade so its wins dangle.
	_, err := ts.store.Posts.Delete(context.Background(), fx.Posts["B"].ID)
	require.NoError(t, err)

	resp := ts.do(t, http.MethodGet, "/api/duels/podium/Cooking", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var slots []models.PodiumSlot
	decode(t, resp, &slots)
	require.Len(t, slots, 2)

	assert.Nil(t, slots[0].Error)
	assert.True(t, slots[1].NotFound)
	assert.Nil(t, slots[1].Post)
	require.NotNil(t, slots[1].Error)
	assert.Equal(t, models.CodeNotFound, slots[1].Error.Code)
	assert.Equal(t, "Post", slots[1].Error.Reason)
}
