package server

import (
	"flymagine/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateFollow handles POST /api/follows
func (s *Server) CreateFollow(c *fiber.Ctx) error {
	var req struct {
		FollowedID uint `json:"followed_id"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	follow, created, err := s.followService.Follow(c.UserContext(), currentUserID(c), req.FollowedID)
	if err != nil {
		return s.respondError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return models.RespondWithData(c, status, follow)
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, pageSize, err := s.parsePage(c)
	if err != nil {
		return nil
	}
	users, err := s.followService.Followers(c.UserContext(), id, page, pageSize)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, users)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, pageSize, err := s.parsePage(c)
	if err != nil {
		return nil
	}
	users, err := s.followService.Following(c.UserContext(), id, page, pageSize)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, users)
}

// CreateFavorite handles POST /api/favorites
func (s *Server) CreateFavorite(c *fiber.Ctx) error {
	var req struct {
		PostID uint `json:"post_id"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	favorite, created, err := s.favoriteService.AddFavorite(c.UserContext(), currentUserID(c), req.PostID)
	if err != nil {
		return s.respondError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return models.RespondWithData(c, status, favorite)
}
