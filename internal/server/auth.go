package server

import (
	"strings"

	"epicfails/internal/middleware"
	"epicfails/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// bearerToken extracts the opaque auth token from the Authorization header,
// falling back to the token query parameter when allowQuery is set.
func bearerToken(c *fiber.Ctx, allowQuery bool) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if allowQuery {
		return c.Query("token")
	}
	return ""
}

// AuthRequired returns the authentication middleware. The token is looked up
// through the user service; an unknown token is a 401, never a 404.
// Only the Authorization header is accepted.
func (s *Server) AuthRequired() fiber.Handler {
	return s.authenticate(false)
}

// FeedAuthRequired authenticates the live feed. Browsers cannot set headers on
// a websocket handshake, so the token query parameter is accepted here only.
func (s *Server) FeedAuthRequired() fiber.Handler {
	return s.authenticate(true)
}

func (s *Server) authenticate(allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c, allowQuery)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		user, err := s.userService.ResolveToken(c.UserContext(), token)
		if err != nil {
			if models.IsNotFound(err, "User") || models.HasCode(err, models.CodeUnauthorized) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired token"))
			}
			return respondServiceError(c, err)
		}

		// Store user ID in context
		c.Locals("userID", user.ID)
		// Sync to UserContext for logging and downstream services
		c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))

		return c.Next()
	}
}

// optionalUserID resolves the Authorization header when present but never rejects.
func (s *Server) optionalUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	token := bearerToken(c, false)
	if token == "" {
		return uuid.Nil, false
	}
	user, err := s.userService.ResolveToken(c.UserContext(), token)
	if err != nil {
		return uuid.Nil, false
	}
	return user.ID, true
}
