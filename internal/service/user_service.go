package service

import (
	"context"

	"epicfails/internal/cache"
	"epicfails/internal/models"
	"epicfails/internal/repository"

	"github.com/google/uuid"
)

type UserService struct {
	store *repository.Store
	cache *cache.Cache
}

func NewUserService(store *repository.Store, c *cache.Cache) *UserService {
	return &UserService{store: store, cache: c}
}

// ResolveToken maps an auth token to its user. The token to user ID mapping
// is cached; the user record itself is always read from the store.
func (s *UserService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("Missing auth token")
	}

	key := cache.TokenKey(token)
	var userID uuid.UUID
	if found, err := s.cache.GetJSON(ctx, key, &userID); err == nil && found {
		user, err := s.store.Users.GetByID(ctx, userID)
		if err == nil && user.AuthToken == token {
			return user, nil
		}
		if err != nil && !models.IsNotFound(err, "User") {
			return nil, err
		}
		s.cache.Invalidate(ctx, key)
	}

	user, err := s.store.Users.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, key, user.ID, cache.TokenTTL)
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.store.Users.GetByID(ctx, userID)
}

func (s *UserService) AcceptGuidelines(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if err := s.store.Users.SetGuidelinesAccepted(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Users.GetByID(ctx, userID)
}
