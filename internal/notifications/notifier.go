// Package notifications fans engagement events out to live-feed websocket clients.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"epicfails/internal/middleware"
	"epicfails/internal/observability"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the Redis channel every engagement event is published on.
const FeedChannel = "engagement:feed"

// Event types carried on the feed.
const (
	EventRelationToggled = "relation_toggled"
	EventCommentAdded    = "comment_added"
	EventCommentDeleted  = "comment_deleted"
	EventPostCreated     = "post_created"
	EventPostDeleted     = "post_deleted"
	EventDuelCreated     = "duel_created"
)

// Event is the envelope written to feed subscribers.
type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Notifier publishes engagement events. With Redis it publishes on FeedChannel
// so every instance's hub receives them; without Redis it hands events
// straight to the locally wired hub.
type Notifier struct {
	rdb *redis.Client

	mu    sync.RWMutex
	local func(data []byte)
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Publish encodes an event of eventType and delivers it to the feed.
func (n *Notifier) Publish(ctx context.Context, eventType string, payload any) error {
	if n == nil {
		return nil
	}
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, At: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if n.rdb == nil {
		n.mu.RLock()
		local := n.local
		n.mu.RUnlock()
		if local != nil {
			local(data)
		}
		return nil
	}

	if err := n.rdb.Publish(ctx, FeedChannel, data).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("publish").Inc()
		return err
	}
	return nil
}

func (n *Notifier) setLocal(fn func(data []byte)) {
	n.mu.Lock()
	n.local = fn
	n.mu.Unlock()
}

// StartFeedSubscriber subscribes to FeedChannel and calls onMessage for each
// payload until ctx is cancelled. It is a no-op without Redis.
func (n *Notifier) StartFeedSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		observability.RedisErrorRate.WithLabelValues("subscribe").Inc()
		return fmt.Errorf("subscribe %s: %w", FeedChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("Panic in feed subscriber",
								"panic", r,
								"stack", string(debug.Stack()),
							)
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
