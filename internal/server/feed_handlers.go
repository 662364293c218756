package server

import (
	"flymagine/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed: the caller's posts and those of the users they follow.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, pageSize, err := s.parsePage(c)
	if err != nil {
		return nil
	}
	feed, err := s.feedService.ComposeFeed(c.UserContext(), currentUserID(c), page, pageSize)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, feed)
}
