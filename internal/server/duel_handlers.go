package server

import (
	"epicfails/internal/models"
	"epicfails/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateDuel handles POST /api/duels
// @Summary Record a duel
// @Description Records which of two posts won a head-to-head in a category.
// @Tags duels
// @Accept json
// @Produce json
// @Param request body object{category=string,post1_id=string,post2_id=string,winner_post_id=string} true "Duel"
// @Success 201 {object} models.Duel
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /duels [post]
func (s *Server) CreateDuel(c *fiber.Ctx) error {
	var req struct {
		Category     string `json:"category"`
		Post1ID      string `json:"post1_id"`
		Post2ID      string `json:"post2_id"`
		WinnerPostID string `json:"winner_post_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("BadBody", "Invalid request body"))
	}

	post1ID, err := parseBodyID(req.Post1ID, "post1Id")
	if err != nil {
		return respondServiceError(c, err)
	}
	post2ID, err := parseBodyID(req.Post2ID, "post2Id")
	if err != nil {
		return respondServiceError(c, err)
	}
	winnerID, err := parseBodyID(req.WinnerPostID, "winnerPostId")
	if err != nil {
		return respondServiceError(c, err)
	}

	duel, err := s.duelService.CreateDuel(c.UserContext(), service.CreateDuelInput{
		UserID:       currentUserID(c),
		Category:     req.Category,
		Post1ID:      post1ID,
		Post2ID:      post2ID,
		WinnerPostID: winnerID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(duel)
}

// GetPodium handles GET /api/duels/podium/:category
// @Summary Category podium
// @Description Top three duel winners of a category. Slots whose post is gone carry not_found and a NOT_FOUND error.
// @Tags duels
// @Produce json
// @Param category path string true "Category"
// @Success 200 {array} models.PodiumSlot
// @Failure 400 {object} models.ErrorResponse
// @Router /duels/podium/{category} [get]
func (s *Server) GetPodium(c *fiber.Ctx) error {
	slots, err := s.duelService.Podium(c.UserContext(), c.Params("category"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(slots)
}
