package server

import (
	"net/http"
	"strings"
	"testing"

	"epicfails/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentHandlers(t *testing.T) {
	ts := newTestServer(t, Deps{})
	fx := ts.applyScenario(t, "community_stats")
	commentsPath := "/api/posts/" + fx.Posts["p2"].ID.String() + "/comments"

	resp := ts.do(t, http.MethodPost, commentsPath, "token-u1", map[string]string{"text": "   "})
	assertErrorResponse(t, resp, fiber.StatusBadRequest, models.CodeValidation, "EmptyText")

	resp = ts.do(t, http.MethodPost, commentsPath, "token-u1", map[string]string{
		"text": strings.Repeat("x", models.MaxCommentLength+1),
	})
	assertErrorResponse(t, resp, fiber.StatusBadRequest, models.CodeValidation, "TextTooLong")

	resp = ts.do(t, http.MethodPost, commentsPath, "token-u1", map[string]string{"text": "Measure twice"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created models.CommentView
	decode(t, resp, &created)
	assert.Equal(t, "Measure twice", created.Text)
	require.NotNil(t, created.Author)
	assert.Equal(t, "u1", created.Author.Username)
	assert.Empty(t, created.Author.Email)

	resp = ts.do(t, http.MethodGet, commentsPath, "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var listed []models.CommentView
	decode(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	deletePath := "/api/comments/" + created.ID.String()
	resp = ts.do(t, http.MethodDelete, deletePath, "token-u2", nil)
	assertErrorResponse(t, resp, fiber.StatusForbidden, models.CodeForbidden, models.ReasonNotAuthor)

	resp = ts.do(t, http.MethodDelete, deletePath, "token-u1", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = ts.do(t, http.MethodDelete, deletePath, "token-u1", nil)
	assertErrorResponse(t, resp, fiber.StatusNotFound, models.CodeNotFound, "Comment")
}
