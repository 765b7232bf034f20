package server

import (
	"io"

	"epicfails/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadPhoto handles POST /api/photos/upload/:photoType
// @Summary Upload a photo
// @Description Stores the multipart "photo" file and returns its public URL.
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param photoType path string true "user or fail"
// @Param photo formData file true "Image file"
// @Success 201 {object} object{url=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /photos/upload/{photoType} [post]
func (s *Server) UploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("EmptyPhoto", "No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("EmptyPhoto", "Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("EmptyPhoto", "Unable to read uploaded file"))
	}

	url, err := s.photoService.Upload(c.UserContext(), c.Params("photoType"), content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
