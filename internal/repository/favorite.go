package repository

import (
	"context"

	"flymagine/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines the interface for favorite operations
type FavoriteRepository interface {
	Create(ctx context.Context, userID, postID uint) (*models.Favorite, bool, error)
	ListPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, int64, error)
}

type favoriteRepository struct {
	store *Store
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(store *Store) FavoriteRepository {
	return &favoriteRepository{store: store}
}

// Create favorites an active post, reporting whether a new row was written.
func (r *favoriteRepository) Create(ctx context.Context, userID, postID uint) (*models.Favorite, bool, error) {
	var favorite models.Favorite
	created := false

	err := r.store.lifecycle(ctx, func(tx *gorm.DB) error {
		if err := activePost(tx, postID); err != nil {
			return err
		}

		row := models.Favorite{UserID: userID, PostID: postID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return storeError(res.Error, "Favorite", postID)
		}
		created = res.RowsAffected > 0

		return storeError(tx.Where("user_id = ? AND post_id = ?", userID, postID).
			First(&favorite).Error, "Favorite", postID)
	})
	if err != nil {
		return nil, false, err
	}
	return &favorite, created, nil
}

// ListPosts returns the user's favorited active posts, most recently favorited first.
func (r *favoriteRepository) ListPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, int64, error) {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	scope := func(q *gorm.DB) *gorm.DB {
		return activeAuthor(q).
			Joins("JOIN favorites ON favorites.post_id = posts.id").
			Where("favorites.user_id = ?", userID)
	}

	var total int64
	if err := db.Model(&models.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, storeError(err, "Favorite", userID)
	}

	posts := []models.Post{}
	err := db.Model(&models.Post{}).
		Scopes(scope).
		Preload("User").
		Order("favorites.created_at DESC").
		Order("posts.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, storeError(err, "Favorite", userID)
	}
	return posts, total, nil
}
