package service

import (
	"context"
	"strings"

	"flymagine/internal/middleware"
	"flymagine/internal/models"
	"flymagine/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	feed     *FeedService
	media    MediaResolver
}

type CreatePostInput struct {
	UserID         uint   `validate:"required"`
	Title          string `validate:"required,max=200"`
	Description    string `validate:"required,min=1,max=1024"`
	Year           int    `validate:"min=0,max=9999"`
	Genre          string `validate:"required,min=1,max=100"`
	Image          string
	LinkSoundcloud string `validate:"omitempty,url"`
	LinkYoutube    string `validate:"omitempty,url"`
	LinkSpotify    string `validate:"omitempty,url"`
}

// UpdatePostInput carries the fields to change; nil fields are left untouched.
type UpdatePostInput struct {
	UserID         uint    `validate:"required"`
	PostID         uint    `validate:"required"`
	Title          *string `validate:"omitempty,min=1,max=200"`
	Description    *string `validate:"omitempty,min=1,max=1024"`
	Year           *int    `validate:"omitempty,min=0,max=9999"`
	Genre          *string `validate:"omitempty,min=1,max=100"`
	LinkSoundcloud *string `validate:"omitempty,url"`
	LinkYoutube    *string `validate:"omitempty,url"`
	LinkSpotify    *string `validate:"omitempty,url"`
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	feed *FeedService,
	media MediaResolver,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		feed:     feed,
		media:    media,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.EnrichedPost, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Genre = strings.TrimSpace(in.Genre)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:         in.UserID,
		Title:          in.Title,
		Description:    in.Description,
		Year:           in.Year,
		Genre:          in.Genre,
		LinkSoundcloud: in.LinkSoundcloud,
		LinkYoutube:    in.LinkYoutube,
		LinkSpotify:    in.LinkSpotify,
	}
	if strings.TrimSpace(in.Image) != "" {
		image, err := s.media.Resolve(in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = image
	}

	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "post created", "post_id", post.ID, "user_id", in.UserID)

	return s.GetPost(ctx, post.ID, in.UserID)
}

// GetPost returns one active post enriched for viewerID.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.EnrichedPost, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	items, err := s.feed.engagement.Enrich(ctx, []models.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *PostService) ListPosts(ctx context.Context, viewerID uint, page, pageSize int) (*models.PostPage, error) {
	return s.feed.Compose(ctx, ListPostsInput{
		ViewerID: viewerID,
		Page:     page,
		PageSize: pageSize,
		Listing:  ListingAll,
	})
}

func (s *PostService) ListByUser(ctx context.Context, authorID, viewerID uint, page, pageSize int) (*models.PostPage, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	return s.feed.Compose(ctx, ListPostsInput{
		Filter:   repository.PostFilter{AuthorIDs: []uint{authorID}},
		ViewerID: viewerID,
		Page:     page,
		PageSize: pageSize,
		Listing:  ListingAuthor,
	})
}

func (s *PostService) ListByHashtag(ctx context.Context, hashtag string, viewerID uint, page, pageSize int) (*models.PostPage, error) {
	tag, err := NormalizeHashtag(hashtag)
	if err != nil {
		return nil, err
	}
	return s.feed.Compose(ctx, ListPostsInput{
		Filter:   repository.PostFilter{Hashtag: tag},
		ViewerID: viewerID,
		Page:     page,
		PageSize: pageSize,
		Listing:  ListingHashtag,
	})
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.EnrichedPost, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	setTrimmed := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	setTrimmed("title", in.Title)
	setTrimmed("description", in.Description)
	setTrimmed("genre", in.Genre)
	setTrimmed("link_soundcloud", in.LinkSoundcloud)
	setTrimmed("link_youtube", in.LinkYoutube)
	setTrimmed("link_spotify", in.LinkSpotify)
	if in.Year != nil {
		fields["year"] = *in.Year
	}
	for _, column := range []string{"title", "description", "genre"} {
		if v, ok := fields[column]; ok && v == "" {
			return nil, models.NewValidationError(column + " cannot be blank")
		}
	}
	if len(fields) == 0 {
		return nil, models.NewValidationError("No fields to update")
	}

	if err := s.requireOwner(ctx, in.PostID, in.UserID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, in.PostID, fields); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, in.PostID, in.UserID)
}

// SetImage stores the resolved media URL as the post image.
func (s *PostService) SetImage(ctx context.Context, userID, postID uint, ref string) (*models.EnrichedPost, error) {
	image, err := s.media.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, postID, userID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, postID, map[string]any{"image": image}); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, postID, userID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	if err := s.requireOwner(ctx, postID, userID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "post deleted", "post_id", postID, "user_id", userID)
	return nil
}

func (s *PostService) requireOwner(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("Not authorized to modify this post")
	}
	return nil
}
