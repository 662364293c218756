package service

import (
	"context"
	"errors"
	"testing"

	"flymagine/internal/models"
	"flymagine/internal/repository"

	"github.com/stretchr/testify/require"
)

var errUnexpectedCall = errors.New("unexpected call")

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getWithCredsFn  func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	listFn          func(context.Context, int, int) ([]models.User, int64, error)
	updateFn        func(context.Context, uint, map[string]any) error
	deleteFn        func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createFn == nil {
		return errUnexpectedCall
	}
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetWithCredentials(ctx context.Context, id uint) (*models.User, error) {
	if s.getWithCredsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.getWithCredsFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getByUsernameFn == nil {
		return nil, errUnexpectedCall
	}
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	if s.listFn == nil {
		return nil, 0, errUnexpectedCall
	}
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Update(ctx context.Context, id uint, fields map[string]any) error {
	if s.updateFn == nil {
		return errUnexpectedCall
	}
	return s.updateFn(ctx, id, fields)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return errUnexpectedCall
	}
	return s.deleteFn(ctx, id)
}

// existingUsers returns a stub that knows exactly the given ids.
func existingUsers(ids ...uint) *userRepoStub {
	known := make(map[uint]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			if !known[id] {
				return nil, models.NewNotFoundError("User", id)
			}
			return &models.User{ID: id}, nil
		},
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn      func(context.Context, uint, uint) (*models.Follow, bool, error)
	followedIDsFn func(context.Context, uint) ([]uint, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followedID uint) (*models.Follow, bool, error) {
	if s.createFn == nil {
		return nil, false, errUnexpectedCall
	}
	return s.createFn(ctx, followerID, followedID)
}
func (s *followRepoStub) FollowedIDs(ctx context.Context, followerID uint) ([]uint, error) {
	if s.followedIDsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.followedIDsFn(ctx, followerID)
}
func (s *followRepoStub) ListFollowers(context.Context, uint, int, int) ([]models.User, int64, error) {
	return nil, 0, errUnexpectedCall
}
func (s *followRepoStub) ListFollowing(context.Context, uint, int, int) ([]models.User, int64, error) {
	return nil, 0, errUnexpectedCall
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleFn       func(context.Context, uint, uint) (*models.LikeToggleResult, error)
	countActiveFn  func(context.Context, []uint) (map[uint]int64, error)
	likedPostIDsFn func(context.Context, uint, []uint) (map[uint]bool, error)
	listActiveFn   func(context.Context, uint) ([]models.Like, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, postID, userID uint) (*models.LikeToggleResult, error) {
	if s.toggleFn == nil {
		return nil, errUnexpectedCall
	}
	return s.toggleFn(ctx, postID, userID)
}
func (s *likeRepoStub) CountActive(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	if s.countActiveFn == nil {
		return nil, errUnexpectedCall
	}
	return s.countActiveFn(ctx, postIDs)
}
func (s *likeRepoStub) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	if s.likedPostIDsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.likedPostIDsFn(ctx, userID, postIDs)
}
func (s *likeRepoStub) ListActive(ctx context.Context, postID uint) ([]models.Like, error) {
	if s.listActiveFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listActiveFn(ctx, postID)
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint) (*models.Post, error)
	ensureActiveFn func(context.Context, uint) error
	listFn         func(context.Context, repository.PostFilter, int, int) ([]models.Post, int64, error)
	updateFn       func(context.Context, uint, map[string]any) error
	deleteFn       func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	if s.createFn == nil {
		return errUnexpectedCall
	}
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	if s.getByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) EnsureActive(ctx context.Context, id uint) error {
	if s.ensureActiveFn == nil {
		return errUnexpectedCall
	}
	return s.ensureActiveFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]models.Post, int64, error) {
	if s.listFn == nil {
		return nil, 0, errUnexpectedCall
	}
	return s.listFn(ctx, filter, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, id uint, fields map[string]any) error {
	if s.updateFn == nil {
		return errUnexpectedCall
	}
	return s.updateFn(ctx, id, fields)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return errUnexpectedCall
	}
	return s.deleteFn(ctx, id)
}

// ownedPost returns a stub that serves a single post owned by ownerID.
func ownedPost(postID, ownerID uint) *postRepoStub {
	return &postRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			if id != postID {
				return nil, models.NewNotFoundError("Post", id)
			}
			return &models.Post{ID: postID, UserID: ownerID, User: models.User{ID: ownerID, Username: "owner"}}, nil
		},
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	setUserTagsFn func(context.Context, uint, []uint) (*models.UserTag, error)
	setHashtagsFn func(context.Context, uint, []string) (*models.PostTag, error)
}

func (s *tagRepoStub) SetUserTags(ctx context.Context, postID uint, userIDs []uint) (*models.UserTag, error) {
	if s.setUserTagsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.setUserTagsFn(ctx, postID, userIDs)
}
func (s *tagRepoStub) SetHashtags(ctx context.Context, postID uint, hashtags []string) (*models.PostTag, error) {
	if s.setHashtagsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.setHashtagsFn(ctx, postID, hashtags)
}
func (s *tagRepoStub) GetUserTags(context.Context, uint) (*models.UserTag, error) {
	return nil, errUnexpectedCall
}
func (s *tagRepoStub) GetHashtags(context.Context, uint) (*models.PostTag, error) {
	return nil, errUnexpectedCall
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, "unexpected code for %v", err)
}
