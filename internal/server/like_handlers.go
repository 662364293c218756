package server

import (
	"flymagine/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	result, err := s.likeService.ToggleLike(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, result)
}

// ListLikes handles GET /api/posts/:id/likes
func (s *Server) ListLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	likes, err := s.likeService.ListLikes(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, likes)
}
