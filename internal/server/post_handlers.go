package server

import (
	"flymagine/internal/models"
	"flymagine/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Year           int    `json:"year"`
	Genre          string `json:"genre"`
	Image          string `json:"image"`
	LinkSoundcloud string `json:"link_soundcloud"`
	LinkYoutube    string `json:"link_youtube"`
	LinkSpotify    string `json:"link_spotify"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:         currentUserID(c),
		Title:          req.Title,
		Description:    req.Description,
		Year:           req.Year,
		Genre:          req.Genre,
		Image:          req.Image,
		LinkSoundcloud: req.LinkSoundcloud,
		LinkYoutube:    req.LinkYoutube,
		LinkSpotify:    req.LinkSpotify,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, post)
}

// ListPosts handles GET /api/posts
func (s *Server) ListPosts(c *fiber.Ctx) error {
	page, pageSize, err := s.parsePage(c)
	if err != nil {
		return nil
	}
	posts, err := s.postService.ListPosts(c.UserContext(), currentUserID(c), page, pageSize)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Title          *string `json:"title"`
		Description    *string `json:"description"`
		Year           *int    `json:"year"`
		Genre          *string `json:"genre"`
		LinkSoundcloud *string `json:"link_soundcloud"`
		LinkYoutube    *string `json:"link_youtube"`
		LinkSpotify    *string `json:"link_spotify"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:         currentUserID(c),
		PostID:         id,
		Title:          req.Title,
		Description:    req.Description,
		Year:           req.Year,
		Genre:          req.Genre,
		LinkSoundcloud: req.LinkSoundcloud,
		LinkYoutube:    req.LinkYoutube,
		LinkSpotify:    req.LinkSpotify,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), currentUserID(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPostImage handles PUT /api/posts/:id/image
func (s *Server) SetPostImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req imageRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	post, err := s.postService.SetImage(c.UserContext(), currentUserID(c), id, req.Image)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post)
}

// GetHashtagPosts handles GET /api/hashtags/:tag/posts
func (s *Server) GetHashtagPosts(c *fiber.Ctx) error {
	page, pageSize, err := s.parsePage(c)
	if err != nil {
		return nil
	}
	posts, err := s.postService.ListByHashtag(c.UserContext(), c.Params("tag"), currentUserID(c), page, pageSize)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, posts)
}
