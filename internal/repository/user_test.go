package repository

import (
	"context"
	"testing"
	"time"

	"flymagine/internal/cache"
	"flymagine/internal/models"
	"flymagine/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateDuplicate(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "dup", Email: "dup@example.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Username: "dup", Email: "other@example.com", Password: "x"})
	assert.True(t, models.IsCode(err, models.CodeConflict))
}

func TestUserRepository_CreateDuplicatePostgres(t *testing.T) {
	t.Parallel()
	store, mock := setupMockStore(t)
	repo := NewUserRepository(store)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Username: "dup", Email: "dup@example.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))
	assert.NotContains(t, models.AsAppError(err).Message, "duplicate key")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDCachesWithoutPassword(t *testing.T) {
	rdb, _ := testutil.NewTestRedis(t)
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	store := setupTestStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	user := seedUser(t, store.DB(), "cached")

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Password)
	assert.Equal(t, int64(1), rdb.Exists(ctx, cache.UserKey(user.ID)).Val())

	withCreds, err := repo.GetWithCredentials(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed", withCreds.Password)

	require.NoError(t, repo.Update(ctx, user.ID, map[string]any{"first_name": "Renamed"}))
	assert.Zero(t, rdb.Exists(ctx, cache.UserKey(user.ID)).Val(), "update invalidates the cache")

	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.FirstName)
}

func TestUserRepository_DeleteAndList(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	a := seedUser(t, store.DB(), "keep")
	b := seedUser(t, store.DB(), "drop")

	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.True(t, models.IsCode(repo.Delete(ctx, b.ID), models.CodeNotFound))

	users, total, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"keep"}, usernames(users))

	_, err = repo.GetByUsername(ctx, "drop")
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	kept, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", kept.Username)
}

func TestUserRepository_Timeout(t *testing.T) {
	t.Parallel()
	store, mock := setupMockStore(t, WithQueryTimeout(time.Millisecond))
	repo := NewUserRepository(store)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillDelayFor(50 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	_, err := repo.GetWithCredentials(context.Background(), 1)
	require.Error(t, err)
	appErr := models.AsAppError(err)
	assert.Equal(t, models.CodeUnexpected, appErr.Code)
	assert.True(t, appErr.Retryable)
}
