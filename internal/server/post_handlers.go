package server

import (
	"epicfails/internal/models"
	"epicfails/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListPosts handles GET /api/posts
// @Summary List posts
// @Description Newest posts first, optionally filtered by category.
// @Tags posts
// @Produce json
// @Param category query string false "Category filter"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Category: c.Query("category"),
		Limit:    page.Limit,
		Offset:   page.Offset,
		ViewerID: viewerID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Description Post with engagement counts. Viewer flags are set when a token is supplied.
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.PostView
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.UserContext(), id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{title=string,category=string,description=string,expected_photo_url=string,actual_photo_url=string} true "Post"
// @Success 201 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title            string `json:"title"`
		Category         string `json:"category"`
		Description      string `json:"description"`
		ExpectedPhotoURL string `json:"expected_photo_url"`
		ActualPhotoURL   string `json:"actual_photo_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("BadBody", "Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:           currentUserID(c),
		Title:            req.Title,
		Category:         req.Category,
		Description:      req.Description,
		ExpectedPhotoURL: req.ExpectedPhotoURL,
		ActualPhotoURL:   req.ActualPhotoURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Description Deletes the post with its likes, bookmarks, comments and the duels it won.
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.CascadeReport
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	report, err := s.postService.DeletePost(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(report)
}

// ToggleLike handles POST /api/posts/:id/like
// @Summary Toggle like
// @Tags engagement
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.ToggleResult
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	return s.toggle(c, models.RelationLike)
}

// ToggleBookmark handles POST /api/posts/:id/bookmark
// @Summary Toggle bookmark
// @Tags engagement
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.ToggleResult
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/bookmark [post]
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	return s.toggle(c, models.RelationBookmark)
}

func (s *Server) toggle(c *fiber.Ctx, kind models.RelationKind) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.Toggle(c.UserContext(), kind, currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
