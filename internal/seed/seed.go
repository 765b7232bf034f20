package seed

import (
	"context"
	"errors"
	"fmt"

	"epicfails/internal/middleware"
	"epicfails/internal/models"
	"epicfails/internal/repository"
)

// Summary counts what a seeding run created.
type Summary struct {
	Users     int
	Posts     int
	Likes     int
	Bookmarks int
	Comments  int
	Duels     int
}

// Seeder populates a store with random demo activity.
type Seeder struct {
	store   *repository.Store
	factory *Factory
}

func NewSeeder(store *repository.Store, opts Options) *Seeder {
	return &Seeder{store: store, factory: NewFactory(store, opts)}
}

// Factory exposes the seeder's factory for scenario runs.
func (s *Seeder) Factory() *Factory {
	return s.factory
}

// SeedRandom creates numUsers users and numPosts posts, then spreads likes,
// bookmarks, comments and duels across them.
func (s *Seeder) SeedRandom(ctx context.Context, numUsers, numPosts int) (*Summary, error) {
	if numUsers < 2 {
		return nil, errors.New("at least two users are required")
	}
	f := s.factory
	sum := &Summary{}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	posts := make([]*models.Post, 0, numPosts)
	byCategory := make(map[models.Category][]*models.Post)
	for i := 0; i < numPosts; i++ {
		p, err := f.CreatePost(ctx, users[f.rng.Intn(len(users))])
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, p)
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}
	sum.Posts = len(posts)

	for _, p := range posts {
		for _, u := range users {
			if u.ID == p.AuthorID {
				continue
			}
			roll := f.rng.Intn(100)
			if roll < 40 {
				if err := s.insertRelation(ctx, s.store.Likes, u, p); err != nil {
					return nil, err
				}
				sum.Likes++
			}
			if roll < 10 {
				if err := s.insertRelation(ctx, s.store.Bookmarks, u, p); err != nil {
					return nil, err
				}
				sum.Bookmarks++
			}
			if roll >= 80 {
				if _, err := f.CreateComment(ctx, u, p, ""); err != nil {
					return nil, fmt.Errorf("create comment: %w", err)
				}
				sum.Comments++
			}
		}
	}

	for category, contenders := range byCategory {
		if len(contenders) < 2 {
			continue
		}
		for i := 0; i < len(contenders)*2; i++ {
			a := contenders[f.rng.Intn(len(contenders))]
			b := contenders[f.rng.Intn(len(contenders))]
			if a.ID == b.ID {
				continue
			}
			winner := a
			if f.rng.Intn(2) == 1 {
				winner = b
			}
			duel := &models.Duel{
				UserID:       users[f.rng.Intn(len(users))].ID,
				Category:     category,
				Post1ID:      a.ID,
				Post2ID:      b.ID,
				WinnerPostID: winner.ID,
				CreatedAt:    f.pastTime(),
			}
			if err := s.store.Duels.Create(ctx, duel); err != nil {
				return nil, fmt.Errorf("create duel: %w", err)
			}
			sum.Duels++
		}
	}

	middleware.Logger.InfoContext(ctx, "Seeded random data",
		"users", sum.Users,
		"posts", sum.Posts,
		"likes", sum.Likes,
		"bookmarks", sum.Bookmarks,
		"comments", sum.Comments,
		"duels", sum.Duels,
	)
	return sum, nil
}

func (s *Seeder) insertRelation(ctx context.Context, repo repository.RelationRepository, u *models.User, p *models.Post) error {
	if err := repo.Insert(ctx, u.ID, p.ID); err != nil {
		return fmt.Errorf("insert %s: %w", repo.Kind(), err)
	}
	return nil
}
