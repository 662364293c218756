package repository

import (
	"context"
	"fmt"
	"time"

	"flymagine/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like state operations
type LikeRepository interface {
	Toggle(ctx context.Context, postID, userID uint) (*models.LikeToggleResult, error)
	CountActive(ctx context.Context, postIDs []uint) (map[uint]int64, error)
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
	ListActive(ctx context.Context, postID uint) ([]models.Like, error)
}

type likeRepository struct {
	store *Store
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(store *Store) LikeRepository {
	return &likeRepository{store: store}
}

func likeStateChanged(postID uint) error {
	return models.NewConflictError(fmt.Sprintf("like state for post %d changed concurrently, retry", postID))
}

// Toggle moves the (post, user) pair through NoRecord -> Active -> Revoked -> Active.
// Every write is conditional on the state that was read, so a concurrent toggle yields Conflict
// instead of a duplicate row or a lost update.
func (r *likeRepository) Toggle(ctx context.Context, postID, userID uint) (*models.LikeToggleResult, error) {
	result := &models.LikeToggleResult{PostID: postID}

	err := r.store.lifecycle(ctx, func(tx *gorm.DB) error {
		if err := activePost(tx, postID); err != nil {
			return err
		}

		lookup := tx.Unscoped().Where("post_id = ? AND user_id = ?", postID, userID)
		if r.store.lockRows() {
			lookup = lookup.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var existing []models.Like
		if err := lookup.Limit(1).Find(&existing).Error; err != nil {
			return storeError(err, "Like", postID)
		}

		now := time.Now()
		var res *gorm.DB
		switch {
		case len(existing) == 0:
			res = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).Create(&models.Like{PostID: postID, UserID: userID})
			result.Action = models.LikeActionLiked
		case existing[0].Active():
			res = tx.Unscoped().Model(&models.Like{}).
				Where("id = ? AND deleted_at IS NULL", existing[0].ID).
				Updates(map[string]any{"deleted_at": now, "updated_at": now})
			result.Action = models.LikeActionUnliked
		default:
			res = tx.Unscoped().Model(&models.Like{}).
				Where("id = ? AND deleted_at IS NOT NULL", existing[0].ID).
				Updates(map[string]any{"deleted_at": nil, "updated_at": now})
			result.Action = models.LikeActionLiked
		}
		if res.Error != nil {
			return storeError(res.Error, "Like", postID)
		}
		if res.RowsAffected == 0 {
			return likeStateChanged(postID)
		}

		if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&result.LikeCount).Error; err != nil {
			return storeError(err, "Like", postID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.IsLiked = result.Action == models.LikeActionLiked
	return result, nil
}

// CountActive returns the active like count for every requested post, zero included.
func (r *likeRepository) CountActive(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	for _, id := range postIDs {
		counts[id] = 0
	}

	db, cancel := r.store.conn(ctx)
	defer cancel()

	var rows []struct {
		PostID    uint
		LikeCount int64
	}
	err := db.Model(&models.Like{}).
		Select("post_id, COUNT(*) AS like_count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError(err, "Like", postIDs)
	}

	for _, row := range rows {
		counts[row.PostID] = row.LikeCount
	}
	return counts, nil
}

// LikedPostIDs returns the subset of postIDs the user actively likes.
func (r *likeRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if userID == 0 || len(postIDs) == 0 {
		return liked, nil
	}

	db, cancel := r.store.conn(ctx)
	defer cancel()

	var ids []uint
	err := db.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, storeError(err, "Like", postIDs)
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// ListActive returns the active likes of a post, oldest first.
func (r *likeRepository) ListActive(ctx context.Context, postID uint) ([]models.Like, error) {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	if err := activePost(db, postID); err != nil {
		return nil, err
	}

	likes := []models.Like{}
	if err := db.Where("post_id = ?", postID).Order("created_at ASC").Order("id ASC").Find(&likes).Error; err != nil {
		return nil, storeError(err, "Like", postID)
	}
	return likes, nil
}
