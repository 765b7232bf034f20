package server

import (
	"epicfails/internal/models"
	"epicfails/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportPost handles POST /api/reports
// @Summary Report a post
// @Description Files a moderation report and notifies the admin. Each user may file two reports.
// @Tags moderation
// @Accept json
// @Produce json
// @Param request body object{post_id=string,reasons=[]string} true "Report"
// @Success 201 {object} models.Report
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /reports [post]
func (s *Server) ReportPost(c *fiber.Ctx) error {
	var req struct {
		PostID  string   `json:"post_id"`
		Reasons []string `json:"reasons"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("BadBody", "Invalid request body"))
	}

	postID, err := parseBodyID(req.PostID, "postId")
	if err != nil {
		return respondServiceError(c, err)
	}

	report, err := s.reportService.ReportPost(c.UserContext(), service.ReportPostInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Reasons: req.Reasons,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}
