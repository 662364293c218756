package server

import (
	"time"

	"flymagine/internal/models"
	"flymagine/internal/service"

	"github.com/gofiber/fiber/v2"
)

type imageRequest struct {
	Image string `json:"image"`
}

// ListUsers handles GET /api/users
func (s *Server) ListUsers(c *fiber.Ctx) error {
	page, pageSize, err := s.parsePage(c)
	if err != nil {
		return nil
	}
	users, err := s.userService.ListUsers(c.UserContext(), page, pageSize)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, users)
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user)
}

// UpdateUser handles PUT /api/users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		FirstName *string    `json:"first_name"`
		LastName  *string    `json:"last_name"`
		Gender    *string    `json:"gender"`
		Birthday  *time.Time `json:"birthday"`
		Phone     *string    `json:"phone"`
		Email     *string    `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateUser(c.UserContext(), service.UpdateUserInput{
		ActorID:   currentUserID(c),
		UserID:    id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Birthday:  req.Birthday,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.userService.DeleteUser(c.UserContext(), currentUserID(c), id); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangePassword handles PUT /api/users/:id/password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	err = s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		ActorID:     currentUserID(c),
		UserID:      id,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{"password_changed": true})
}

// SetProfileImage handles PUT /api/users/:id/image
func (s *Server) SetProfileImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req imageRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	user, err := s.userService.SetProfileImage(c.UserContext(), currentUserID(c), id, req.Image)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user)
}

// GetProfileImage handles GET /api/users/:id/image
func (s *Server) GetProfileImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	image, err := s.userService.GetProfileImage(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, imageRequest{Image: image})
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, pageSize, err := s.parsePage(c)
	if err != nil {
		return nil
	}
	posts, err := s.postService.ListByUser(c.UserContext(), id, currentUserID(c), page, pageSize)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, posts)
}

// GetUserFavorites handles GET /api/users/:id/favorites
func (s *Server) GetUserFavorites(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, pageSize, err := s.parsePage(c)
	if err != nil {
		return nil
	}
	posts, err := s.favoriteService.ListFavorites(c.UserContext(), id, currentUserID(c), page, pageSize)
	if err != nil {
		return s.respondError(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, posts)
}
