package service

import (
	"context"
	"time"

	"flymagine/internal/middleware"
	"flymagine/internal/models"
	"flymagine/internal/observability"
	"flymagine/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Listing names, used as the metrics label of a composed page.
const (
	ListingFeed    = "feed"
	ListingAll     = "all"
	ListingAuthor  = "author"
	ListingHashtag = "hashtag"
)

// FeedService composes pages of enriched posts.
type FeedService struct {
	graph      *FollowGraph
	postRepo   repository.PostRepository
	engagement *EngagementService
	limits     PageLimits
}

// ListPostsInput selects one page of a post listing.
type ListPostsInput struct {
	Filter   repository.PostFilter
	ViewerID uint
	Page     int
	PageSize int
	Listing  string
}

func NewFeedService(
	graph *FollowGraph,
	postRepo repository.PostRepository,
	engagement *EngagementService,
	limits PageLimits,
) *FeedService {
	return &FeedService{
		graph:      graph,
		postRepo:   postRepo,
		engagement: engagement,
		limits:     limits,
	}
}

// Limits returns the paging bounds the composer enforces.
func (s *FeedService) Limits() PageLimits {
	return s.limits
}

// ComposeFeed returns the viewer's personalised feed: their own posts and posts of the
// users they follow, newest first.
func (s *FeedService) ComposeFeed(ctx context.Context, viewerID uint, page, pageSize int) (*models.PostPage, error) {
	if err := s.limits.check(page, pageSize); err != nil {
		return nil, err
	}
	authors, err := s.graph.EligibleAuthors(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.Compose(ctx, ListPostsInput{
		Filter:   repository.PostFilter{AuthorIDs: authors},
		ViewerID: viewerID,
		Page:     page,
		PageSize: pageSize,
		Listing:  ListingFeed,
	})
}

// Compose fetches one page of posts matching the filter and enriches it for the viewer.
func (s *FeedService) Compose(ctx context.Context, in ListPostsInput) (page *models.PostPage, err error) {
	if err := s.limits.check(in.Page, in.PageSize); err != nil {
		return nil, err
	}
	if in.Listing == "" {
		in.Listing = ListingAll
	}

	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "FeedService.Compose",
		attribute.String("listing", in.Listing),
		attribute.Int("page", in.Page),
		attribute.Int("page_size", in.PageSize),
	)
	defer func() {
		observability.EndSpan(span, err)
		middleware.FeedComposeDuration.WithLabelValues(in.Listing).Observe(time.Since(start).Seconds())
	}()

	posts, total, err := s.postRepo.List(ctx, in.Filter, in.PageSize, offset(in.Page, in.PageSize))
	if err != nil {
		return nil, err
	}
	items, err := s.engagement.Enrich(ctx, posts, in.ViewerID)
	if err != nil {
		return nil, err
	}
	return models.NewPage(items, in.Page, in.PageSize, total), nil
}

// ComposePosts enriches an already fetched page of posts.
func (s *FeedService) ComposePosts(ctx context.Context, posts []models.Post, total int64, viewerID uint, page, pageSize int) (*models.PostPage, error) {
	items, err := s.engagement.Enrich(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return models.NewPage(items, page, pageSize, total), nil
}
