// Package service holds the engagement engines: toggles, comments, the post
// cascade, scoring, duel ranking and moderation reports.
package service

import (
	"context"

	"epicfails/internal/middleware"
)

// EventPublisher delivers engagement events to the live feed.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// publish is best-effort: a feed failure never fails the engine call.
func publish(ctx context.Context, events EventPublisher, eventType string, payload any) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, eventType, payload); err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to publish feed event",
			"event", eventType,
			"error", err,
		)
	}
}
