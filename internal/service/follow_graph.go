package service

import (
	"context"

	"flymagine/internal/models"
	"flymagine/internal/observability"
	"flymagine/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FollowGraph resolves which authors a viewer's feed draws from.
type FollowGraph struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewFollowGraph(userRepo repository.UserRepository, followRepo repository.FollowRepository) *FollowGraph {
	return &FollowGraph{userRepo: userRepo, followRepo: followRepo}
}

// EligibleAuthors returns the viewer plus every active user the viewer follows.
// The viewer is always first and ids are never repeated.
func (g *FollowGraph) EligibleAuthors(ctx context.Context, viewerID uint) (ids []uint, err error) {
	ctx, span := observability.StartSpan(ctx, "FollowGraph.EligibleAuthors",
		attribute.Int64("viewer.id", int64(viewerID)))
	defer func() { observability.EndSpan(span, err) }()

	if viewerID == 0 {
		return nil, models.NewNotFoundError("User", viewerID)
	}
	if _, err := g.userRepo.GetByID(ctx, viewerID); err != nil {
		return nil, err
	}

	followed, err := g.followRepo.FollowedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	ids = make([]uint, 0, len(followed)+1)
	seen := map[uint]struct{}{viewerID: {}}
	ids = append(ids, viewerID)
	for _, id := range followed {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	span.SetAttributes(attribute.Int("authors.count", len(ids)))
	return ids, nil
}
