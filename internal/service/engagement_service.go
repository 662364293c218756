package service

import (
	"context"
	"fmt"

	"flymagine/internal/models"
	"flymagine/internal/repository"

	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

// EngagementService computes like counts and viewer like state for posts.
type EngagementService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
}

func NewEngagementService(postRepo repository.PostRepository, likeRepo repository.LikeRepository) *EngagementService {
	return &EngagementService{postRepo: postRepo, likeRepo: likeRepo}
}

// Aggregate returns the engagement of one post. A viewerID of 0 means no viewer.
func (s *EngagementService) Aggregate(ctx context.Context, postID, viewerID uint) (models.Engagement, error) {
	if err := s.postRepo.EnsureActive(ctx, postID); err != nil {
		return models.Engagement{}, err
	}
	stats, err := s.AggregateMany(ctx, []uint{postID}, viewerID)
	if err != nil {
		return models.Engagement{}, err
	}
	return stats[postID], nil
}

// AggregateMany returns engagement for every id in postIDs using two batched queries.
func (s *EngagementService) AggregateMany(ctx context.Context, postIDs []uint, viewerID uint) (map[uint]models.Engagement, error) {
	out := make(map[uint]models.Engagement, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	var (
		counts map[uint]int64
		liked  map[uint]bool
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.likeRepo.CountActive(gCtx, postIDs)
		return err
	})
	g.Go(func() error {
		if viewerID == 0 {
			liked = map[uint]bool{}
			return nil
		}
		var err error
		liked, err = s.likeRepo.LikedPostIDs(gCtx, viewerID, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, id := range postIDs {
		out[id] = models.Engagement{LikeCount: counts[id], IsLiked: liked[id]}
	}
	return out, nil
}

// Enrich attaches the author summary and engagement to each post, preserving order.
func (s *EngagementService) Enrich(ctx context.Context, posts []models.Post, viewerID uint) ([]models.EnrichedPost, error) {
	enriched := make([]models.EnrichedPost, 0, len(posts))
	if len(posts) == 0 {
		return enriched, nil
	}

	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	stats, err := s.AggregateMany(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		author, err := authorSummary(&posts[i].User)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, models.EnrichedPost{
			Post:       posts[i],
			Author:     author,
			Engagement: stats[posts[i].ID],
		})
	}
	return enriched, nil
}

func authorSummary(u *models.User) (models.AuthorSummary, error) {
	if u == nil {
		return models.AuthorSummary{}, models.NewInternalError(fmt.Errorf("project author: no author loaded"))
	}
	var summary models.AuthorSummary
	if err := copier.Copy(&summary, u); err != nil {
		return models.AuthorSummary{}, models.NewInternalError(fmt.Errorf("project author: %w", err))
	}
	summary.DisplayName = u.DisplayName()
	return summary, nil
}
