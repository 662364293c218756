package repository

import (
	"fmt"
	"testing"
	"time"

	"flymagine/internal/models"
	"flymagine/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	return NewStore(testutil.NewTestDB(t), opts...)
}

func setupMockStore(t *testing.T, opts ...StoreOption) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return NewStore(db, opts...), mock
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		FirstName: "First " + username,
		LastName:  "Last",
		Email:     fmt.Sprintf("%s@example.com", username),
		Password:  "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedPost creates a post with a deterministic creation time offset from a fixed base.
func seedPost(t *testing.T, db *gorm.DB, authorID uint, title string, minutesAgo int) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:      authorID,
		Title:       title,
		Description: "description of " + title,
		Genre:       "rock",
		Year:        2020,
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Add(-time.Duration(minutesAgo) * time.Minute),
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func follow(t *testing.T, db *gorm.DB, followerID, followedID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Follow{FollowerID: followerID, FollowedID: followedID}).Error)
}
