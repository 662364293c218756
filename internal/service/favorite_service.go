package service

import (
	"context"

	"flymagine/internal/models"
	"flymagine/internal/repository"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	userRepo     repository.UserRepository
	feed         *FeedService
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, userRepo repository.UserRepository, feed *FeedService) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, userRepo: userRepo, feed: feed}
}

// AddFavorite bookmarks an active post. Adding it twice returns the existing favorite.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, postID uint) (*models.Favorite, bool, error) {
	if userID == 0 {
		return nil, false, models.NewUnauthorizedError("Authentication required")
	}
	if postID == 0 {
		return nil, false, models.NewValidationError("post_id is required")
	}
	return s.favoriteRepo.Create(ctx, userID, postID)
}

// ListFavorites returns the posts userID bookmarked, enriched for viewerID.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID, viewerID uint, page, pageSize int) (*models.PostPage, error) {
	if err := s.feed.Limits().check(page, pageSize); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	posts, total, err := s.favoriteRepo.ListPosts(ctx, userID, pageSize, offset(page, pageSize))
	if err != nil {
		return nil, err
	}
	return s.feed.ComposePosts(ctx, posts, total, viewerID, page, pageSize)
}
