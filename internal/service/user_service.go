package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"flymagine/internal/middleware"
	"flymagine/internal/models"
	"flymagine/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
	media    MediaResolver
	limits   PageLimits
}

type RegisterInput struct {
	Username  string     `validate:"required,username"`
	FirstName string     `validate:"max=100"`
	LastName  string     `validate:"max=100"`
	Gender    string     `validate:"max=20"`
	Birthday  *time.Time `validate:"omitempty"`
	Phone     string     `validate:"max=30"`
	Email     string     `validate:"required,email"`
	Password  string     `validate:"required,min=8,max=72"`
}

// UpdateUserInput carries profile changes; nil fields are left untouched.
type UpdateUserInput struct {
	ActorID   uint
	UserID    uint
	FirstName *string    `validate:"omitempty,max=100"`
	LastName  *string    `validate:"omitempty,max=100"`
	Gender    *string    `validate:"omitempty,max=20"`
	Birthday  *time.Time `validate:"omitempty"`
	Phone     *string    `validate:"omitempty,max=30"`
	Email     *string    `validate:"omitempty,email"`
}

type ChangePasswordInput struct {
	ActorID     uint
	UserID      uint
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,min=8,max=72"`
}

func NewUserService(userRepo repository.UserRepository, media MediaResolver, limits PageLimits) *UserService {
	return &UserService{userRepo: userRepo, media: media, limits: limits}
}

// Register creates a user with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Gender:    strings.TrimSpace(in.Gender),
		Birthday:  in.Birthday,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     in.Email,
		Password:  string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if models.IsCode(err, models.CodeConflict) {
			return nil, models.NewConflictError("Username or email already taken")
		}
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "user registered", "user_id", user.ID)

	user.Password = ""
	return user, nil
}

// Authenticate checks a username and password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) (*models.Page[models.User], error) {
	if err := s.limits.check(page, pageSize); err != nil {
		return nil, err
	}
	users, total, err := s.userRepo.List(ctx, pageSize, offset(page, pageSize))
	if err != nil {
		return nil, err
	}
	return models.NewPage(users, page, pageSize, total), nil
}

func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	if err := requireSelf(in.ActorID, in.UserID); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	set("first_name", in.FirstName)
	set("last_name", in.LastName)
	set("gender", in.Gender)
	set("phone", in.Phone)
	if in.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Birthday != nil {
		fields["birthday"] = *in.Birthday
	}
	if len(fields) == 0 {
		return nil, models.NewValidationError("No fields to update")
	}

	if err := s.userRepo.Update(ctx, in.UserID, fields); err != nil {
		if models.IsCode(err, models.CodeConflict) {
			return nil, models.NewConflictError("Email already taken")
		}
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.UserID)
}

// DeleteUser soft-deletes the caller's own account.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uint) error {
	if err := requireSelf(actorID, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "user deleted", "user_id", userID)
	return nil
}

// ChangePassword requires the current password and a different new one.
func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if err := requireSelf(in.ActorID, in.UserID); err != nil {
		return err
	}
	if err := validateInput(in); err != nil {
		return err
	}
	if in.OldPassword == in.NewPassword {
		return models.NewValidationError("New password must differ from the current one")
	}

	user, err := s.userRepo.GetWithCredentials(ctx, in.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return models.NewUnauthorizedError("Current password is incorrect")
		}
		return models.NewInternalError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.Update(ctx, in.UserID, map[string]any{"password": string(hash)})
}

func (s *UserService) SetProfileImage(ctx context.Context, actorID, userID uint, ref string) (*models.User, error) {
	if err := requireSelf(actorID, userID); err != nil {
		return nil, err
	}
	image, err := s.media.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, userID, map[string]any{"profile_image": image}); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) GetProfileImage(ctx context.Context, userID uint) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.ProfileImage, nil
}

func requireSelf(actorID, userID uint) error {
	if actorID == 0 {
		return models.NewUnauthorizedError("Authentication required")
	}
	if actorID != userID {
		return models.NewForbiddenError("You can only modify your own account")
	}
	return nil
}
