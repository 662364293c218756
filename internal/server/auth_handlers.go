package server

import (
	"fmt"
	"strconv"
	"time"

	"flymagine/internal/cache"
	"flymagine/internal/middleware"
	"flymagine/internal/models"
	"flymagine/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type signupRequest struct {
	Username  string     `json:"username"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Gender    string     `json:"gender"`
	Birthday  *time.Time `json:"birthday"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Birthday:  req.Birthday,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}
	return models.RespondWithData(c, fiber.StatusCreated, authResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return s.respondError(c, models.NewInternalError(err))
	}
	return models.RespondWithData(c, fiber.StatusOK, authResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout by revoking the presented token until it expires.
func (s *Server) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals("jti").(string)
	if jti == "" {
		return s.respondError(c, models.NewUnauthorizedError("Token cannot be revoked"))
	}
	if s.redis == nil {
		return s.respondError(c, errRevocationUnavailable(nil))
	}

	ttl := tokenTTL
	if exp, ok := c.Locals("tokenExpiresAt").(time.Time); ok {
		ttl = time.Until(exp)
	}
	if ttl <= 0 {
		return models.RespondWithData(c, fiber.StatusOK, fiber.Map{"logged_out": true})
	}

	if err := s.redis.Set(c.UserContext(), cache.BlacklistKey(jti), "1", ttl).Err(); err != nil {
		return s.respondError(c, errRevocationUnavailable(err))
	}
	middleware.Logger.InfoContext(c.UserContext(), "token revoked", "user_id", currentUserID(c))
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{"logged_out": true})
}

func errRevocationUnavailable(cause error) *models.AppError {
	return &models.AppError{
		Code:      models.CodeUnexpected,
		Message:   "Token revocation is unavailable, please retry",
		Retryable: true,
		Err:       cause,
	}
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
