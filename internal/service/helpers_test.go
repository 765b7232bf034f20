package service

import (
	"context"
	"testing"

	"epicfails/internal/cache"
	"epicfails/internal/models"
	"epicfails/internal/repository"
	"epicfails/internal/seed"
	"epicfails/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	store, _ := testutil.NewSQLiteStore(t)
	return store
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.New(rdb), mr
}

func applyScenario(t *testing.T, store *repository.Store, name string) *seed.Fixture {
	t.Helper()
	sc, err := seed.LoadScenario(name)
	require.NoError(t, err)
	fx, err := seed.ApplyScenario(context.Background(), store, sc)
	require.NoError(t, err)
	return fx
}

func assertAppError(t *testing.T, err error, code, reason string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	if reason != "" {
		assert.Equal(t, reason, appErr.Reason)
	}
}
