package service

import (
	"context"
	"sort"
	"time"

	"epicfails/internal/cache"
	"epicfails/internal/models"
	"epicfails/internal/notifications"
	"epicfails/internal/observability"
	"epicfails/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type DuelService struct {
	store     *repository.Store
	cache     *cache.Cache
	podiumTTL time.Duration
	events    EventPublisher
}

type CreateDuelInput struct {
	UserID       uuid.UUID
	Category     string
	Post1ID      uuid.UUID
	Post2ID      uuid.UUID
	WinnerPostID uuid.UUID
}

// NewDuelService returns a DuelService. A podiumTTL of zero disables podium caching.
func NewDuelService(store *repository.Store, c *cache.Cache, podiumTTL time.Duration, events EventPublisher) *DuelService {
	return &DuelService{
		store:     store,
		cache:     c,
		podiumTTL: podiumTTL,
		events:    events,
	}
}

func (s *DuelService) CreateDuel(ctx context.Context, in CreateDuelInput) (*models.Duel, error) {
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		return nil, models.NewValidationError("BadCategory", "Unknown category")
	}
	if in.Post1ID == in.Post2ID {
		return nil, models.NewValidationError("SamePost", "A post cannot duel itself")
	}
	if in.WinnerPostID != in.Post1ID && in.WinnerPostID != in.Post2ID {
		return nil, models.NewValidationError("BadWinner", "The winner must be one of the two contenders")
	}

	if _, err := s.store.Users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	for _, id := range []uuid.UUID{in.Post1ID, in.Post2ID} {
		if _, err := s.store.Posts.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	duel := &models.Duel{
		UserID:       in.UserID,
		Category:     category,
		Post1ID:      in.Post1ID,
		Post2ID:      in.Post2ID,
		WinnerPostID: in.WinnerPostID,
	}
	if err := s.store.Duels.Create(ctx, duel); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.PodiumKey(category))
	publish(ctx, s.events, notifications.EventDuelCreated, duel)
	return duel, nil
}

// Podium ranks the category's posts by duel wins and returns at most
// models.PodiumSize slots.
func (s *DuelService) Podium(ctx context.Context, rawCategory string) (slots []models.PodiumSlot, err error) {
	category, ok := models.ParseCategory(rawCategory)
	if !ok {
		return nil, models.NewValidationError("BadCategory", "Unknown category")
	}

	span, ctx := observability.NewSpan(ctx, "DuelService.Podium",
		attribute.String("duel.category", string(category)),
	)
	defer func() { span.End(err) }()

	if s.podiumTTL <= 0 || !s.cache.Enabled() {
		return s.rankPodium(ctx, category)
	}

	hit, err := s.cache.Aside(ctx, cache.PodiumKey(category), &slots, s.podiumTTL, func() error {
		var fetchErr error
		slots, fetchErr = s.rankPodium(ctx, category)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if hit {
		observability.PodiumCacheLookups.WithLabelValues("hit").Inc()
	} else {
		observability.PodiumCacheLookups.WithLabelValues("miss").Inc()
	}
	return slots, nil
}

func (s *DuelService) rankPodium(ctx context.Context, category models.Category) ([]models.PodiumSlot, error) {
	tallies, err := s.store.Duels.WinTallies(ctx, category)
	if err != nil {
		return nil, err
	}

	sort.Slice(tallies, func(i, j int) bool {
		a, b := tallies[i], tallies[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if !a.FirstWonAt.Equal(b.FirstWonAt) {
			return a.FirstWonAt.Before(b.FirstWonAt)
		}
		return a.PostID.String() < b.PostID.String()
	})
	if len(tallies) > models.PodiumSize {
		tallies = tallies[:models.PodiumSize]
	}

	ids := make([]uuid.UUID, 0, len(tallies))
	for _, t := range tallies {
		ids = append(ids, t.PostID)
	}
	posts, err := s.store.Posts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	slots := make([]models.PodiumSlot, 0, len(tallies))
	for i, t := range tallies {
		slot := models.PodiumSlot{Rank: i + 1, PostID: t.PostID, Wins: t.Wins}
		if post, ok := posts[t.PostID]; ok {
			slot.Post = post
		} else {
			slot.MarkMissing()
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
