package repository

import (
	"context"
	"testing"

	"flymagine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ListOrderingAndPaging(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	db := store.DB()
	repo := NewPostRepository(store)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	older := seedPost(t, db, author.ID, "older", 30)
	tieA := seedPost(t, db, author.ID, "tie-a", 10)
	tieB := seedPost(t, db, author.ID, "tie-b", 10)
	newest := seedPost(t, db, author.ID, "newest", 0)

	posts, total, err := repo.List(ctx, PostFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, posts, 4)
	assert.Equal(t, []uint{newest.ID, tieA.ID, tieB.ID, older.ID}, postIDs(posts))
	assert.Equal(t, "author", posts[0].User.Username)

	page1, _, err := repo.List(ctx, PostFilter{}, 2, 0)
	require.NoError(t, err)
	page2, _, err := repo.List(ctx, PostFilter{}, 2, 2)
	require.NoError(t, err)
	assert.NotContains(t, postIDs(page2), page1[0].ID)
	assert.NotContains(t, postIDs(page2), page1[1].ID)
}

func TestPostRepository_ListExcludesDeleted(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	db := store.DB()
	repo := NewPostRepository(store)
	ctx := context.Background()

	alive := seedUser(t, db, "alive")
	gone := seedUser(t, db, "gone")
	kept := seedPost(t, db, alive.ID, "kept", 0)
	removed := seedPost(t, db, alive.ID, "removed", 1)
	seedPost(t, db, gone.ID, "orphan", 2)

	require.NoError(t, repo.Delete(ctx, removed.ID))
	require.NoError(t, db.Delete(&models.User{}, gone.ID).Error)

	posts, total, err := repo.List(ctx, PostFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []uint{kept.ID}, postIDs(posts))

	_, err = repo.GetByID(ctx, removed.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.True(t, models.IsCode(repo.EnsureActive(ctx, removed.ID), models.CodeNotFound))
	assert.True(t, models.IsCode(repo.Delete(ctx, removed.ID), models.CodeNotFound))
}

func TestPostRepository_ListByAuthors(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	db := store.DB()
	repo := NewPostRepository(store)
	ctx := context.Background()

	a := seedUser(t, db, "usera")
	b := seedUser(t, db, "userb")
	pa := seedPost(t, db, a.ID, "a", 0)
	seedPost(t, db, b.ID, "b", 1)

	posts, total, err := repo.List(ctx, PostFilter{AuthorIDs: []uint{a.ID}}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []uint{pa.ID}, postIDs(posts))

	posts, total, err = repo.List(ctx, PostFilter{AuthorIDs: []uint{}}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostRepository_ListByHashtag(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	db := store.DB()
	repo := NewPostRepository(store)
	tags := NewTagRepository(store)
	ctx := context.Background()

	author := seedUser(t, db, "tagger")
	rock := seedPost(t, db, author.ID, "rock", 0)
	jazz := seedPost(t, db, author.ID, "jazz", 1)
	_, err := tags.SetHashtags(ctx, rock.ID, []string{"rock", "live_set"})
	require.NoError(t, err)
	_, err = tags.SetHashtags(ctx, jazz.ID, []string{"jazz", "liveXset"})
	require.NoError(t, err)

	posts, _, err := repo.List(ctx, PostFilter{Hashtag: "rock"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{rock.ID}, postIDs(posts))

	posts, _, err = repo.List(ctx, PostFilter{Hashtag: "live_set"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{rock.ID}, postIDs(posts), "underscore must not act as a wildcard")

	posts, _, err = repo.List(ctx, PostFilter{Hashtag: "roc"}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_Update(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	db := store.DB()
	repo := NewPostRepository(store)
	ctx := context.Background()

	author := seedUser(t, db, "editor")
	post := seedPost(t, db, author.ID, "draft", 0)

	require.NoError(t, repo.Update(ctx, post.ID, map[string]any{"title": "final"}))
	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)

	assert.True(t, models.IsCode(repo.Update(ctx, 9999, map[string]any{"title": "x"}), models.CodeNotFound))
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
