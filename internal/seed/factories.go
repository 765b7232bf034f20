// Package seed provides helpers to create demo and test data. These helpers
// are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"epicfails/internal/models"
	"epicfails/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password every seeded user gets.
const DefaultPassword = "password123"

// Options tune the generated data.
type Options struct {
	// SkipBcrypt stores DefaultPassword unhashed for fast local seeding.
	SkipBcrypt bool
	// MaxDays spreads creation dates over the last MaxDays days.
	MaxDays int
	// Seed makes the generated data reproducible when non-zero.
	Seed int64
}

// Factory builds domain entities and persists them through the store.
type Factory struct {
	store *repository.Store
	opts  Options
	rng   *rand.Rand
	faker *gofakeit.Faker
}

func NewFactory(store *repository.Store, opts Options) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		store: store,
		opts:  opts,
		rng:   rand.New(rand.NewSource(seed)),
		faker: gofakeit.New(seed),
	}
}

func (f *Factory) passwordHash() (string, error) {
	if f.opts.SkipBcrypt {
		return DefaultPassword, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays*24*60)) * time.Minute
	return time.Now().UTC().Add(-back)
}

// CreateUser constructs and persists a sample user. Overrides run before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}
	token, err := models.NewAuthToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     f.faker.Username() + fmt.Sprintf("%d", f.faker.Number(100, 999)),
		Email:        f.faker.Email(),
		PasswordHash: hash,
		AuthToken:    token,
		AvatarURL:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		Interests:    f.randomCategories(2),
		SignupDate:   f.pastTime(),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample fail post by author.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		AuthorID:         author.ID,
		Title:            f.faker.Sentence(5),
		Category:         f.randomCategories(1)[0],
		Description:      f.faker.Paragraph(1, 2, 12, " "),
		ExpectedPhotoURL: fmt.Sprintf("https://picsum.photos/seed/exp-%s/800/800", f.faker.UUID()),
		ActualPhotoURL:   fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID()),
		CreatedAt:        f.pastTime(),
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.store.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a sample comment by user on post.
func (f *Factory) CreateComment(ctx context.Context, user *models.User, post *models.Post, text string) (*models.Comment, error) {
	if text == "" {
		text = f.faker.Sentence(8)
	}
	comment := &models.Comment{UserID: user.ID, PostID: post.ID, Text: text}
	if err := f.store.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) randomCategories(n int) []models.Category {
	perm := f.rng.Perm(len(models.Categories))
	if n > len(perm) {
		n = len(perm)
	}
	out := make([]models.Category, 0, n)
	for _, i := range perm[:n] {
		out = append(out, models.Categories[i])
	}
	return out
}
