package seed

import (
	"testing"

	"flymagine/internal/models"
	"flymagine/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_CreatesConnectedCommunity(t *testing.T) {
	db := testutil.NewTestDB(t)

	summary, err := Seed(db, Options{
		NumUsers:         5,
		PostsPerUser:     3,
		FollowsPerUser:   2,
		LikesPerPost:     2,
		FavoritesPerUser: 1,
		SkipBcrypt:       true,
		RandSeed:         42,
	})
	require.NoError(t, err)
	assert.Equal(t, &Summary{Users: 5, Posts: 15, Follows: 10, Likes: 30, Favorites: 5, Hashtags: 15}, summary)

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Equal(t, int64(30), count)

	var self int64
	require.NoError(t, db.Model(&models.Follow{}).Where("follower_id = followed_id").Count(&self).Error)
	assert.Zero(t, self)

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Genre)
		assert.LessOrEqual(t, len(p.Description), 1024)
	}
}

func TestSeed_CleanRemovesPreviousRun(t *testing.T) {
	db := testutil.NewTestDB(t)
	opts := Options{NumUsers: 3, PostsPerUser: 1, SkipBcrypt: true, RandSeed: 7}

	_, err := Seed(db, opts)
	require.NoError(t, err)

	opts.ShouldClean = true
	_, err = Seed(db, opts)
	require.NoError(t, err)

	var users int64
	require.NoError(t, db.Unscoped().Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(3), users)
}

func TestFactory_SampleExcludesAndBounds(t *testing.T) {
	f, err := NewFactory(nil, Options{SkipBcrypt: true, RandSeed: 1})
	require.NoError(t, err)

	got := f.Sample([]uint{1, 2, 3}, 5, 2)
	assert.ElementsMatch(t, []uint{1, 3}, got)

	tags := f.Hashtags()
	assert.NotEmpty(t, tags)
	assert.LessOrEqual(t, len(tags), 3)
}
