package server

import (
	"flymagine/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SetUserTags handles PUT /api/posts/:id/user-tags. The body replaces the whole set;
// a missing or null user_ids is rejected rather than treated as a clear.
func (s *Server) SetUserTags(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		UserIDs *[]uint `json:"user_ids"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.UserIDs == nil {
		return s.respondError(c, models.NewValidationError("user_ids is required"))
	}

	tags, err := s.tagService.SetUserTags(c.UserContext(), id, *req.UserIDs)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, tags)
}

// GetUserTags handles GET /api/posts/:id/user-tags
func (s *Server) GetUserTags(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	tags, err := s.tagService.GetUserTags(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, tags)
}

// SetHashtags handles PUT /api/posts/:id/hashtags
func (s *Server) SetHashtags(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Hashtags *[]string `json:"hashtags"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Hashtags == nil {
		return s.respondError(c, models.NewValidationError("hashtags is required"))
	}

	tags, err := s.tagService.SetHashtags(c.UserContext(), id, *req.Hashtags)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, tags)
}

// GetHashtags handles GET /api/posts/:id/hashtags
func (s *Server) GetHashtags(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	tags, err := s.tagService.GetHashtags(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, tags)
}
