package repository

import (
	"context"

	"flymagine/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository stores the per-post tag records. Set operations replace the stored collection.
type TagRepository interface {
	SetUserTags(ctx context.Context, postID uint, userIDs []uint) (*models.UserTag, error)
	SetHashtags(ctx context.Context, postID uint, hashtags []string) (*models.PostTag, error)
	GetUserTags(ctx context.Context, postID uint) (*models.UserTag, error)
	GetHashtags(ctx context.Context, postID uint) (*models.PostTag, error)
}

type tagRepository struct {
	store *Store
}

// NewTagRepository creates a new tag repository
func NewTagRepository(store *Store) TagRepository {
	return &tagRepository{store: store}
}

// upsertByPost writes record keyed by post_id in a single statement, overwriting column on conflict.
func upsertByPost(tx *gorm.DB, record any, column string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(record).Error
}

func (r *tagRepository) SetUserTags(ctx context.Context, postID uint, userIDs []uint) (*models.UserTag, error) {
	ids := uniqueIDs(userIDs)
	var stored models.UserTag

	err := r.store.lifecycle(ctx, func(tx *gorm.DB) error {
		if err := activePost(tx, postID); err != nil {
			return err
		}

		if len(ids) > 0 {
			count, err := countActiveUsers(tx, ids)
			if err != nil {
				return err
			}
			if count != int64(len(ids)) {
				return models.NewValidationError("user_ids must reference existing users")
			}
		}

		if err := upsertByPost(tx, &models.UserTag{PostID: postID, UserIDs: ids}, "user_ids"); err != nil {
			return storeError(err, "UserTag", postID)
		}
		return storeError(tx.Where("post_id = ?", postID).First(&stored).Error, "UserTag", postID)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *tagRepository) SetHashtags(ctx context.Context, postID uint, hashtags []string) (*models.PostTag, error) {
	tags := hashtags
	if tags == nil {
		tags = []string{}
	}
	var stored models.PostTag

	err := r.store.lifecycle(ctx, func(tx *gorm.DB) error {
		if err := activePost(tx, postID); err != nil {
			return err
		}
		if err := upsertByPost(tx, &models.PostTag{PostID: postID, Hashtags: tags}, "hashtags"); err != nil {
			return storeError(err, "PostTag", postID)
		}
		return storeError(tx.Where("post_id = ?", postID).First(&stored).Error, "PostTag", postID)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetUserTags returns the post's tag record, or an empty one when none has been set.
func (r *tagRepository) GetUserTags(ctx context.Context, postID uint) (*models.UserTag, error) {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	if err := activePost(db, postID); err != nil {
		return nil, err
	}

	var rows []models.UserTag
	if err := db.Where("post_id = ?", postID).Limit(1).Find(&rows).Error; err != nil {
		return nil, storeError(err, "UserTag", postID)
	}
	if len(rows) == 0 {
		return &models.UserTag{PostID: postID, UserIDs: []uint{}}, nil
	}
	if rows[0].UserIDs == nil {
		rows[0].UserIDs = []uint{}
	}
	return &rows[0], nil
}

// GetHashtags returns the post's hashtag record, or an empty one when none has been set.
func (r *tagRepository) GetHashtags(ctx context.Context, postID uint) (*models.PostTag, error) {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	if err := activePost(db, postID); err != nil {
		return nil, err
	}

	var rows []models.PostTag
	if err := db.Where("post_id = ?", postID).Limit(1).Find(&rows).Error; err != nil {
		return nil, storeError(err, "PostTag", postID)
	}
	if len(rows) == 0 {
		return &models.PostTag{PostID: postID, Hashtags: []string{}}, nil
	}
	if rows[0].Hashtags == nil {
		rows[0].Hashtags = []string{}
	}
	return &rows[0], nil
}
