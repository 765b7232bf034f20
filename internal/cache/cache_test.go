package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"epicfails/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, New(rdb)
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_NilIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	assert.False(t, c.Enabled())
	found, err := c.GetJSON(ctx, "k", &payload{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.SetJSON(ctx, "k", payload{}, time.Minute))
	c.Invalidate(ctx, "k")

	calls := 0
	var dest payload
	hit, err := New(nil).Aside(ctx, "k", &dest, time.Minute, func() error {
		calls++
		dest = payload{Name: "fresh"}
		return nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fresh", dest.Name)
}

func TestCache_AsideHitsAfterFirstFetch(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()
	calls := 0

	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "podium", Count: calls}
			return nil
		}
	}

	var first payload
	hit, err := c.Aside(ctx, PodiumKey(models.CategoryCooking), &first, time.Minute, fetch(&first))
	require.NoError(t, err)
	assert.False(t, hit)

	var second payload
	hit, err = c.Aside(ctx, PodiumKey(models.CategoryCooking), &second, time.Minute, fetch(&second))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	assert.True(t, mr.Exists("podium:Cooking"))
	c.Invalidate(ctx, PodiumKey(models.CategoryCooking))
	assert.False(t, mr.Exists("podium:Cooking"))
}

func TestCache_AsideFetchErrorNotCached(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	var dest payload
	_, err := c.Aside(ctx, "broken", &dest, time.Minute, func() error {
		return errors.New("store down")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("broken"))
}

func TestCache_AsideFallsBackWhenRedisDown(t *testing.T) {
	mr, c := newTestCache(t)
	mr.Close()

	var dest payload
	hit, err := c.Aside(context.Background(), TokenKey("abc"), &dest, time.Minute, func() error {
		dest.Name = "from-store"
		return nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "from-store", dest.Name)
}

func TestInitRedis_Unreachable(t *testing.T) {
	assert.Nil(t, InitRedis("127.0.0.1:1"))
	assert.Nil(t, InitRedis("redis://%zz"))
}

func TestInitRedis_Connects(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := InitRedis("redis://" + mr.Addr())
	require.NotNil(t, rdb)
	_ = rdb.Close()
}
