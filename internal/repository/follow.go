package repository

import (
	"context"

	"flymagine/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow graph operations
type FollowRepository interface {
	Create(ctx context.Context, followerID, followedID uint) (*models.Follow, bool, error)
	FollowedIDs(ctx context.Context, followerID uint) ([]uint, error)
	ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error)
	ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error)
}

type followRepository struct {
	store *Store
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(store *Store) FollowRepository {
	return &followRepository{store: store}
}

// Create inserts the edge if absent and reports whether a new row was written.
func (r *followRepository) Create(ctx context.Context, followerID, followedID uint) (*models.Follow, bool, error) {
	var follow models.Follow
	created := false

	err := r.store.lifecycle(ctx, func(tx *gorm.DB) error {
		edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followed_id"}},
			DoNothing: true,
		}).Create(&edge)
		if res.Error != nil {
			return storeError(res.Error, "Follow", followedID)
		}
		created = res.RowsAffected > 0

		return storeError(tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
			First(&follow).Error, "Follow", followedID)
	})
	if err != nil {
		return nil, false, err
	}
	return &follow, created, nil
}

// FollowedIDs returns the distinct ids of active users followed by followerID.
func (r *followRepository) FollowedIDs(ctx context.Context, followerID uint) ([]uint, error) {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	ids := []uint{}
	err := db.Model(&models.Follow{}).
		Joins("JOIN users ON users.id = follows.followed_id AND users.deleted_at IS NULL").
		Where("follows.follower_id = ?", followerID).
		Distinct().
		Pluck("follows.followed_id", &ids).Error
	if err != nil {
		return nil, storeError(err, "Follow", followerID)
	}
	return ids, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	return r.listUsers(ctx, "follows.follower_id", "follows.followed_id", userID, limit, offset)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	return r.listUsers(ctx, "follows.followed_id", "follows.follower_id", userID, limit, offset)
}

// listUsers lists the active users on the joinCol side of edges whose filterCol equals userID.
func (r *followRepository) listUsers(ctx context.Context, joinCol, filterCol string, userID uint, limit, offset int) ([]models.User, int64, error) {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	scope := func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN follows ON users.id = "+joinCol).Where(filterCol+" = ?", userID)
	}

	var total int64
	if err := db.Model(&models.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, storeError(err, "Follow", userID)
	}

	users := []models.User{}
	err := db.Model(&models.User{}).
		Scopes(scope).
		Order("follows.created_at DESC").
		Order("users.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, storeError(err, "Follow", userID)
	}
	return users, total, nil
}
