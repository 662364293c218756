package service

import (
	"context"

	"flymagine/internal/middleware"
	"flymagine/internal/models"
	"flymagine/internal/observability"
	"flymagine/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// LikeNotifier delivers like events to post authors.
type LikeNotifier interface {
	PublishLike(ctx context.Context, authorID, actorID, postID uint, likeCount int64) error
}

// LikeService flips the like state of a (post, user) pair.
type LikeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
	notifier LikeNotifier
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository, notifier LikeNotifier) *LikeService {
	return &LikeService{likeRepo: likeRepo, postRepo: postRepo, notifier: notifier}
}

// ToggleLike likes the post if the user has no active like on it, otherwise revokes the like.
func (s *LikeService) ToggleLike(ctx context.Context, postID, userID uint) (result *models.LikeToggleResult, err error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	ctx, span := observability.StartSpan(ctx, "LikeService.ToggleLike",
		attribute.Int64("post.id", int64(postID)),
		attribute.Int64("user.id", int64(userID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	result, err = s.likeRepo.Toggle(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	middleware.LikeToggles.WithLabelValues(result.Action).Inc()
	span.SetAttributes(attribute.String("like.action", result.Action))

	if result.Action == models.LikeActionLiked {
		s.notifyAuthor(ctx, result, userID)
	}
	return result, nil
}

// notifyAuthor is best effort; a failed publish never fails the toggle.
func (s *LikeService) notifyAuthor(ctx context.Context, result *models.LikeToggleResult, actorID uint) {
	if s.notifier == nil {
		return
	}
	post, err := s.postRepo.GetByID(ctx, result.PostID)
	if err != nil || post.UserID == actorID {
		return
	}
	if err := s.notifier.PublishLike(ctx, post.UserID, actorID, result.PostID, result.LikeCount); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish like notification",
			"post_id", result.PostID, "author_id", post.UserID, "error", err)
	}
}

// ListLikes returns the active likes of an active post.
func (s *LikeService) ListLikes(ctx context.Context, postID uint) ([]models.Like, error) {
	if err := s.postRepo.EnsureActive(ctx, postID); err != nil {
		return nil, err
	}
	return s.likeRepo.ListActive(ctx, postID)
}
