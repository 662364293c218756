// Command main runs the database seeder for Flymagine.
package main

import (
	"flag"
	"log"

	"flymagine/internal/config"
	"flymagine/internal/database"
	"flymagine/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	postsPerUser := flag.Int("posts", 4, "Posts per user")
	followsPerUser := flag.Int("follows", 8, "Follows per user")
	likesPerPost := flag.Int("likes", 5, "Likes per post")
	favoritesPerUser := flag.Int("favorites", 3, "Favorites per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("fast", false, "Skip bcrypt and store the plain password (test data only; login will fail)")
	randSeed := flag.Int64("seed", 0, "Random seed; 0 picks one from the clock")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.Seed(db, seed.Options{
		NumUsers:         *numUsers,
		PostsPerUser:     *postsPerUser,
		FollowsPerUser:   *followsPerUser,
		LikesPerPost:     *likesPerPost,
		FavoritesPerUser: *favoritesPerUser,
		ShouldClean:      *shouldClean,
		SkipBcrypt:       *skipBcrypt,
		BatchSize:        500,
		MaxDays:          90,
		RandSeed:         *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d follows, %d likes, %d favorites, %d hashtag sets",
		summary.Users, summary.Posts, summary.Follows, summary.Likes, summary.Favorites, summary.Hashtags)
	if !*skipBcrypt {
		log.Printf("All seeded users share the password: %s", seed.DefaultPassword)
	}
}
