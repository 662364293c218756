package seed

import (
	"fmt"

	"flymagine/internal/database"
	"flymagine/internal/middleware"
	"flymagine/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers         int
	PostsPerUser     int
	FollowsPerUser   int
	LikesPerPost     int
	FavoritesPerUser int
	ShouldClean      bool
	SkipBcrypt       bool
	BatchSize        int
	MaxDays          int
	RandSeed         int64
}

// Summary counts what a seeding run created.
type Summary struct {
	Users     int
	Posts     int
	Follows   int
	Likes     int
	Favorites int
	Hashtags  int
}

// Seed populates the database with a connected demo community.
func Seed(db *gorm.DB, opts Options) (*Summary, error) {
	middleware.Logger.Info("starting database seeding", "users", opts.NumUsers, "posts_per_user", opts.PostsPerUser)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	summary := &Summary{}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		users = append(users, f.BuildUser(i+1))
	}
	if len(users) == 0 {
		return summary, nil
	}
	if err := f.CreateInBatches(&users); err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	summary.Users = len(users)

	userIDs := make([]uint, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}

	follows := []models.Follow{}
	for _, u := range users {
		for _, target := range f.Sample(userIDs, opts.FollowsPerUser, u.ID) {
			follows = append(follows, models.Follow{FollowerID: u.ID, FollowedID: target})
		}
	}
	if len(follows) > 0 {
		if err := f.CreateInBatches(&follows); err != nil {
			return nil, fmt.Errorf("failed to create follows: %w", err)
		}
	}
	summary.Follows = len(follows)

	posts := []*models.Post{}
	for _, u := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			posts = append(posts, f.BuildPost(u))
		}
	}
	if len(posts) == 0 {
		return summary, nil
	}
	if err := f.CreateInBatches(&posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	summary.Posts = len(posts)

	tags := make([]models.PostTag, 0, len(posts))
	likes := []models.Like{}
	for _, p := range posts {
		tags = append(tags, models.PostTag{PostID: p.ID, Hashtags: f.Hashtags()})
		for _, liker := range f.Sample(userIDs, opts.LikesPerPost, 0) {
			likes = append(likes, models.Like{PostID: p.ID, UserID: liker})
		}
	}
	if err := f.CreateInBatches(&tags); err != nil {
		return nil, fmt.Errorf("failed to create hashtags: %w", err)
	}
	summary.Hashtags = len(tags)
	if len(likes) > 0 {
		if err := f.CreateInBatches(&likes); err != nil {
			return nil, fmt.Errorf("failed to create likes: %w", err)
		}
	}
	summary.Likes = len(likes)

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	favorites := []models.Favorite{}
	for _, u := range users {
		for _, postID := range f.Sample(postIDs, opts.FavoritesPerUser, 0) {
			favorites = append(favorites, models.Favorite{UserID: u.ID, PostID: postID})
		}
	}
	if len(favorites) > 0 {
		if err := f.CreateInBatches(&favorites); err != nil {
			return nil, fmt.Errorf("failed to create favorites: %w", err)
		}
	}
	summary.Favorites = len(favorites)

	middleware.Logger.Info("database seeding complete",
		"users", summary.Users,
		"posts", summary.Posts,
		"follows", summary.Follows,
		"likes", summary.Likes,
		"favorites", summary.Favorites,
	)
	return summary, nil
}

// clearData hard-deletes every seeded table, children first.
func clearData(db *gorm.DB) error {
	tables := database.PersistentModels()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(tables[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
