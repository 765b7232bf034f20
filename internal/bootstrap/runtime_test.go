package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"epicfails/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLiteRuntime(t *testing.T) *Runtime {
	t.Helper()
	cfg := &config.Config{
		StoreDriver: config.StoreDriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "bootstrap.db"),
	}
	rt, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })
	return rt
}

func TestOpenSQLite(t *testing.T) {
	rt := openSQLiteRuntime(t)

	require.NotNil(t, rt.Store)
	assert.NotNil(t, rt.DB)
	assert.Nil(t, rt.Mongo)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreDriver: "cassandra"})
	assert.Error(t, err)
}

func TestEnsureDevUser(t *testing.T) {
	rt := openSQLiteRuntime(t)
	cfg := &config.Config{Env: "development", DevAuthToken: "dev-token"}

	user, err := EnsureDevUser(context.Background(), cfg, rt.Store)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, DevUsername, user.Username)
	assert.True(t, user.HasAcceptedGuidelines)

	again, err := EnsureDevUser(context.Background(), cfg, rt.Store)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	resolved, err := rt.Store.Users.GetByToken(context.Background(), "dev-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestEnsureDevUserSkipsOutsideDevelopment(t *testing.T) {
	rt := openSQLiteRuntime(t)

	user, err := EnsureDevUser(context.Background(), &config.Config{Env: "production", DevAuthToken: "dev-token"}, rt.Store)
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = EnsureDevUser(context.Background(), &config.Config{Env: "development"}, rt.Store)
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = rt.Store.Users.GetByToken(context.Background(), "dev-token")
	assert.Error(t, err)
}
