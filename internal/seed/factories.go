// Package seed creates demo data for development databases.
package seed

import (
	"fmt"
	"strings"
	"time"

	"flymagine/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

var (
	genres = []string{
		"rock", "jazz", "blues", "hip-hop", "electronic", "folk", "classical",
		"metal", "pop", "reggae", "soul", "funk", "ambient", "punk",
	}

	hashtagPool = []string{
		"live", "cover", "demo", "acoustic", "remix", "newmusic", "vinyl",
		"studio", "tour", "lofi", "guitar", "synth", "drums", "bass",
	}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  Options
	hash  string
}

// NewFactory creates a Factory. A zero opts.RandSeed seeds from the clock.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	hash := DefaultPassword
	if !opts.SkipBcrypt {
		h, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash default password: %w", err)
		}
		hash = string(h)
	}

	return &Factory{db: db, faker: gofakeit.New(seed), opts: opts, hash: hash}, nil
}

// BuildUser returns an unsaved user. The index keeps usernames and emails unique within a run.
func (f *Factory) BuildUser(index int, overrides ...func(*models.User)) *models.User {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	username := fmt.Sprintf("%s_%d", strings.ToLower(first), index)
	if len(username) > 32 {
		username = username[len(username)-32:]
	}
	birthday := f.faker.DateRange(
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC),
	)

	user := &models.User{
		Username:     username,
		FirstName:    first,
		LastName:     last,
		Gender:       f.faker.Gender(),
		Birthday:     &birthday,
		Phone:        f.faker.Phone(),
		Email:        fmt.Sprintf("%s@%s", username, f.faker.DomainName()),
		Password:     f.hash,
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildPost returns an unsaved post by author with a created_at spread over opts.MaxDays.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	now := time.Now()

	post := &models.Post{
		UserID:      author.ID,
		Title:       strings.TrimSuffix(f.faker.Sentence(f.faker.Number(2, 5)), "."),
		Description: f.faker.Paragraph(1, 3, 12, " "),
		Year:        f.faker.Number(1965, now.Year()),
		Genre:       f.faker.RandomString(genres),
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID()),
		CreatedAt:   f.faker.DateRange(now.AddDate(0, 0, -maxDays), now),
	}
	if len(post.Description) > 1024 {
		post.Description = post.Description[:1024]
	}
	switch f.faker.Number(0, 2) {
	case 0:
		post.LinkSoundcloud = "https://soundcloud.com/" + author.Username + "/" + f.faker.Word()
	case 1:
		post.LinkYoutube = "https://www.youtube.com/watch?v=" + f.faker.LetterN(11)
	default:
		post.LinkSpotify = "https://open.spotify.com/track/" + f.faker.LetterN(22)
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// Hashtags picks between one and three distinct tags.
func (f *Factory) Hashtags() []string {
	n := f.faker.Number(1, 3)
	picked := make([]string, 0, n)
	seen := map[string]bool{}
	for len(picked) < n {
		tag := f.faker.RandomString(hashtagPool)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		picked = append(picked, tag)
	}
	return picked
}

// Sample returns up to n distinct elements of ids, never including exclude.
func (f *Factory) Sample(ids []uint, n int, exclude uint) []uint {
	pool := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			pool = append(pool, id)
		}
	}
	for i := len(pool) - 1; i > 0; i-- {
		j := f.faker.Number(0, i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// CreateInBatches inserts records, skipping rows that violate a unique key.
func (f *Factory) CreateInBatches(records any) error {
	batch := f.opts.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(records, batch).Error
}
