package repository

import (
	"context"
	"encoding/json"
	"strings"

	"flymagine/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing. A non-nil AuthorIDs restricts results to those authors,
// an empty non-nil slice matches nothing.
type PostFilter struct {
	AuthorIDs []uint
	Hashtag   string
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	EnsureActive(ctx context.Context, id uint) error
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, int64, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	store *Store
}

// NewPostRepository creates a new post repository
func NewPostRepository(store *Store) PostRepository {
	return &postRepository{store: store}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	return storeError(db.Create(post).Error, "Post", post.Title)
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	var post models.Post
	err := db.Model(&models.Post{}).
		Scopes(activeAuthor).
		Preload("User").
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, storeError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) EnsureActive(ctx context.Context, id uint) error {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	return activePost(db, id)
}

// List returns active posts of active authors, newest first with id as tie-breaker.
func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, int64, error) {
	posts := []models.Post{}
	if filter.AuthorIDs != nil && len(filter.AuthorIDs) == 0 {
		return posts, 0, nil
	}

	db, cancel := r.store.conn(ctx)
	defer cancel()

	scope := postFilterScope(filter)

	var total int64
	if err := db.Model(&models.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, storeError(err, "Post", "list")
	}
	if total == 0 {
		return posts, 0, nil
	}

	err := db.Model(&models.Post{}).
		Scopes(scope).
		Preload("User").
		Order("posts.created_at DESC").
		Order("posts.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, storeError(err, "Post", "list")
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	res := db.Model(&models.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return storeError(res.Error, "Post", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	res := db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return storeError(res.Error, "Post", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func postFilterScope(filter PostFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = activeAuthor(db)
		if filter.AuthorIDs != nil {
			db = db.Where("posts.user_id IN ?", filter.AuthorIDs)
		}
		if filter.Hashtag != "" {
			db = db.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
				Where(`post_tags.hashtags LIKE ? ESCAPE '\'`, hashtagPattern(filter.Hashtag))
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// hashtagPattern matches one element of the JSON-encoded hashtag array.
func hashtagPattern(tag string) string {
	encoded, _ := json.Marshal(tag)
	return "%" + likeEscaper.Replace(string(encoded)) + "%"
}
