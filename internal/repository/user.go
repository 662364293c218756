package repository

import (
	"context"
	"strings"

	"flymagine/internal/cache"
	"flymagine/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetWithCredentials(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	store *Store
}

// NewUserRepository creates a new user repository
func NewUserRepository(store *Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	return storeError(db.Create(user).Error, "User", user.Username)
}

// GetByID reads through the user cache. The cached copy never carries the password hash.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		db, cancel := r.store.conn(ctx)
		defer cancel()
		return storeError(db.First(&user, id).Error, "User", id)
	})
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

func (r *userRepository) GetWithCredentials(ctx context.Context, id uint) (*models.User, error) {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, storeError(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	var user models.User
	if err := db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		return nil, storeError(err, "User", username)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, storeError(err, "User", "list")
	}

	users := []models.User{}
	if err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, storeError(err, "User", "list")
	}
	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	res := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return storeError(res.Error, "User", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	db, cancel := r.store.conn(ctx)
	defer cancel()

	res := db.Delete(&models.User{}, id)
	if res.Error != nil {
		return storeError(res.Error, "User", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// countActiveUsers counts how many of ids belong to users that are not soft-deleted.
func countActiveUsers(db *gorm.DB, ids []uint) (int64, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, storeError(err, "User", ids)
	}
	return count, nil
}
