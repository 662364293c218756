package service

import (
	"context"

	"flymagine/internal/middleware"
	"flymagine/internal/models"
	"flymagine/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	limits     PageLimits
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, limits PageLimits) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo, limits: limits}
}

// Follow creates the follower -> followed edge. Following twice returns the existing edge.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint) (*models.Follow, bool, error) {
	if followerID == 0 {
		return nil, false, models.NewUnauthorizedError("Authentication required")
	}
	if followedID == 0 {
		return nil, false, models.NewValidationError("followed_id is required")
	}
	if followerID == followedID {
		return nil, false, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return nil, false, err
	}

	follow, created, err := s.followRepo.Create(ctx, followerID, followedID)
	if err != nil {
		return nil, false, err
	}
	if created {
		middleware.Logger.InfoContext(ctx, "follow created", "follower_id", followerID, "followed_id", followedID)
	}
	return follow, created, nil
}

func (s *FollowService) Followers(ctx context.Context, userID uint, page, pageSize int) (*models.Page[models.User], error) {
	return s.listEdges(ctx, userID, page, pageSize, s.followRepo.ListFollowers)
}

func (s *FollowService) Following(ctx context.Context, userID uint, page, pageSize int) (*models.Page[models.User], error) {
	return s.listEdges(ctx, userID, page, pageSize, s.followRepo.ListFollowing)
}

func (s *FollowService) listEdges(
	ctx context.Context,
	userID uint,
	page, pageSize int,
	list func(context.Context, uint, int, int) ([]models.User, int64, error),
) (*models.Page[models.User], error) {
	if err := s.limits.check(page, pageSize); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, total, err := list(ctx, userID, pageSize, offset(page, pageSize))
	if err != nil {
		return nil, err
	}
	return models.NewPage(users, page, pageSize, total), nil
}
