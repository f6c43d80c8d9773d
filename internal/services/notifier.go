package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// FeedChannel is the Redis channel carrying feed events between instances
const FeedChannel = "thoughts:feed"

// Notifier publishes feed events through Redis so every instance's hub
// sees them. Without a Redis client it hands events straight to the hub.
type Notifier struct {
	rdb *redis.Client
	hub *FeedHub
}

// NewNotifier creates a notifier. rdb may be nil.
func NewNotifier(rdb *redis.Client, hub *FeedHub) *Notifier {
	return &Notifier{rdb: rdb, hub: hub}
}

// Publish sends event to FeedChannel, or to the local hub when Redis is off
func (n *Notifier) Publish(ctx context.Context, event FeedEvent) error {
	if n.rdb == nil {
		return n.hub.Publish(ctx, event)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.rdb.Publish(ctx, FeedChannel, payload).Err()
}

// Start subscribes to FeedChannel and forwards messages to the local hub
// until ctx is cancelled. It is a no-op without Redis.
func (n *Notifier) Start(ctx context.Context) error {
	if n.rdb == nil {
		return nil
	}

	sub := n.rdb.Subscribe(ctx, FeedChannel)
	// Wait for the subscription confirmation so publishes right after Start are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
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
				n.hub.Broadcast([]byte(msg.Payload))
			}
		}
	}()

	log.Info().Str("channel", FeedChannel).Msg("Feed subscriber started")
	return nil
}
