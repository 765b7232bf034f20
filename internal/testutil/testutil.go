// Package testutil provides shared test doubles and fixtures.
package testutil

import (
	"context"
	"sync"
	"testing"

	"epicfails/internal/database"
	"epicfails/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLiteStore returns a migrated in-memory SQLite store closed at test cleanup.
func NewSQLiteStore(t testing.TB) (*repository.Store, *gorm.DB) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewStore(db), db
}

// PublishedEvent is one event captured by EventRecorder.
type PublishedEvent struct {
	Type    string
	Payload any
}

// EventRecorder captures published feed events.
type EventRecorder struct {
	mu     sync.Mutex
	events []PublishedEvent
}

func (r *EventRecorder) Publish(_ context.Context, eventType string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, PublishedEvent{Type: eventType, Payload: payload})
	return nil
}

// Types returns the recorded event types in publish order.
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// MockMailer is a testify mock of mail.Sender.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockPhotoStore is a testify mock of photos.Store.
type MockPhotoStore struct {
	mock.Mock
}

func (m *MockPhotoStore) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	args := m.Called(ctx, data, folder)
	return args.String(0), args.Error(1)
}
