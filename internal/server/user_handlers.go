package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetMyStats handles GET /api/users/me/stats
// @Summary Engagement stats and score
// @Description Activity counts, points, tier and status for the authenticated user.
// @Tags users
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me/stats [get]
func (s *Server) GetMyStats(c *fiber.Ctx) error {
	stats, err := s.statsService.ComputeStats(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// AcceptGuidelines handles POST /api/users/me/guidelines
func (s *Server) AcceptGuidelines(c *fiber.Ctx) error {
	user, err := s.userService.AcceptGuidelines(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetMyFeatureFlags handles GET /api/users/me/feature-flags
func (s *Server) GetMyFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Snapshot(currentUserID(c).String()),
	})
}
