package service

import (
	"context"
	"testing"

	"flymagine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestUserService_RegisterValidation(t *testing.T) {
	t.Parallel()

	valid := RegisterInput{Username: "ana_l", Email: "ana@example.com", Password: "secret123"}

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"short username", func(in *RegisterInput) { in.Username = "an" }},
		{"username with spaces", func(in *RegisterInput) { in.Username = "ana l" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewUserService(&userRepoStub{}, NewBaseURLResolver(""), DefaultPageLimits)
			in := valid
			tt.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			assertAppErrorCode(t, err, models.CodeInvalidArgument)
		})
	}
}

func TestUserService_RegisterHashesPassword(t *testing.T) {
	t.Parallel()

	var stored *models.User
	repo := &userRepoStub{createFn: func(_ context.Context, u *models.User) error {
		u.ID = 1
		cp := *u
		stored = &cp
		return nil
	}}
	svc := NewUserService(repo, NewBaseURLResolver(""), DefaultPageLimits)

	user, err := svc.Register(context.Background(), RegisterInput{Username: "ana_l", Email: " Ana@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Empty(t, user.Password)
	assert.Equal(t, "ana@example.com", stored.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestUserService_RegisterConflict(t *testing.T) {
	t.Parallel()

	repo := &userRepoStub{createFn: func(context.Context, *models.User) error {
		return models.NewConflictError("duplicate")
	}}
	svc := NewUserService(repo, NewBaseURLResolver(""), DefaultPageLimits)
	_, err := svc.Register(context.Background(), RegisterInput{Username: "ana_l", Email: "ana@example.com", Password: "secret123"})
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	hash := hashed(t, "secret123")
	repo := &userRepoStub{getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
		if username != "ana" {
			return nil, models.NewNotFoundError("User", username)
		}
		return &models.User{ID: 1, Username: "ana", Password: hash}, nil
	}}
	svc := NewUserService(repo, NewBaseURLResolver(""), DefaultPageLimits)

	user, err := svc.Authenticate(context.Background(), "ana", "secret123")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Empty(t, user.Password)

	_, err = svc.Authenticate(context.Background(), "ana", "wrong-password")
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	_, err = svc.Authenticate(context.Background(), "bob", "secret123")
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	_, err = svc.Authenticate(context.Background(), "", "")
	assertAppErrorCode(t, err, models.CodeInvalidArgument)
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Parallel()

	hash := hashed(t, "secret123")
	var updated map[string]any
	repo := &userRepoStub{
		getWithCredsFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Password: hash}, nil
		},
		updateFn: func(_ context.Context, _ uint, fields map[string]any) error {
			updated = fields
			return nil
		},
	}
	svc := NewUserService(repo, NewBaseURLResolver(""), DefaultPageLimits)

	tests := []struct {
		name     string
		in       ChangePasswordInput
		wantCode string
	}{
		{"other user", ChangePasswordInput{ActorID: 2, UserID: 1, OldPassword: "secret123", NewPassword: "another123"}, models.CodeUnauthorized},
		{"same password", ChangePasswordInput{ActorID: 1, UserID: 1, OldPassword: "secret123", NewPassword: "secret123"}, models.CodeInvalidArgument},
		{"wrong old password", ChangePasswordInput{ActorID: 1, UserID: 1, OldPassword: "nope12345", NewPassword: "another123"}, models.CodeUnauthorized},
		{"too short", ChangePasswordInput{ActorID: 1, UserID: 1, OldPassword: "secret123", NewPassword: "short"}, models.CodeInvalidArgument},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(context.Background(), tt.in)
			assertAppErrorCode(t, err, tt.wantCode)
		})
	}
	assert.Nil(t, updated)

	require.NoError(t, svc.ChangePassword(context.Background(), ChangePasswordInput{
		ActorID: 1, UserID: 1, OldPassword: "secret123", NewPassword: "another123",
	}))
	newHash, ok := updated["password"].(string)
	require.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("another123")))
}

func TestUserService_UpdateUserOnlySelf(t *testing.T) {
	t.Parallel()

	name := "Ana"
	svc := NewUserService(existingUsers(1, 2), NewBaseURLResolver(""), DefaultPageLimits)
	_, err := svc.UpdateUser(context.Background(), UpdateUserInput{ActorID: 2, UserID: 1, FirstName: &name})
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	_, err = svc.UpdateUser(context.Background(), UpdateUserInput{ActorID: 1, UserID: 1})
	assertAppErrorCode(t, err, models.CodeInvalidArgument)

	err = svc.DeleteUser(context.Background(), 2, 1)
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func TestUserService_SetProfileImage(t *testing.T) {
	t.Parallel()

	image := ""
	repo := &userRepoStub{
		updateFn: func(_ context.Context, _ uint, fields map[string]any) error {
			image = fields["profile_image"].(string)
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, ProfileImage: image}, nil
		},
	}
	svc := NewUserService(repo, NewBaseURLResolver("http://media.test"), DefaultPageLimits)

	user, err := svc.SetProfileImage(context.Background(), 1, 1, "me.jpg")
	require.NoError(t, err)
	assert.Equal(t, "http://media.test/me.jpg", user.ProfileImage)

	got, err := svc.GetProfileImage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "http://media.test/me.jpg", got)
}
