package service

import (
	"context"
	"fmt"
	"strings"

	"flymagine/internal/models"
	"flymagine/internal/repository"
)

// TagService replaces and reads the user tags and hashtags of a post.
type TagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// SetUserTags replaces the users tagged on a post. An empty slice clears them.
func (s *TagService) SetUserTags(ctx context.Context, postID uint, userIDs []uint) (*models.UserTag, error) {
	if userIDs == nil {
		return nil, models.NewValidationError("user_ids is required")
	}
	for _, id := range userIDs {
		if id == 0 {
			return nil, models.NewValidationError("user_ids must contain positive ids")
		}
	}
	return s.tagRepo.SetUserTags(ctx, postID, userIDs)
}

// SetHashtags replaces the hashtags of a post. Tags are stored without the leading '#',
// in first-seen order, without duplicates.
func (s *TagService) SetHashtags(ctx context.Context, postID uint, hashtags []string) (*models.PostTag, error) {
	if hashtags == nil {
		return nil, models.NewValidationError("hashtags is required")
	}
	normalized, err := NormalizeHashtags(hashtags)
	if err != nil {
		return nil, err
	}
	return s.tagRepo.SetHashtags(ctx, postID, normalized)
}

func (s *TagService) GetUserTags(ctx context.Context, postID uint) (*models.UserTag, error) {
	return s.tagRepo.GetUserTags(ctx, postID)
}

func (s *TagService) GetHashtags(ctx context.Context, postID uint) (*models.PostTag, error) {
	return s.tagRepo.GetHashtags(ctx, postID)
}

// NormalizeHashtags trims, strips one leading '#', validates and dedupes tags.
func NormalizeHashtags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag, err := NormalizeHashtag(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out, nil
}

// NormalizeHashtag validates a single hashtag and returns it lower-cased without the leading '#'.
func NormalizeHashtag(raw string) (string, error) {
	tag := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if !hashtagPattern.MatchString(tag) {
		return "", models.NewValidationError(fmt.Sprintf("invalid hashtag %q", raw))
	}
	return tag, nil
}
