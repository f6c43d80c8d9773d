package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 32

// Subscriber receives encoded feed events on Send until it is unregistered
type Subscriber struct {
	send chan []byte
	once sync.Once
}

// Send returns the channel events are delivered on. It is closed on unregister.
func (s *Subscriber) Send() <-chan []byte {
	return s.send
}

func (s *Subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// FeedHub fans feed events out to live WebSocket subscribers of this process
type FeedHub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
}

// NewFeedHub creates a new feed hub
func NewFeedHub() *FeedHub {
	return &FeedHub{
		subscribers: make(map[*Subscriber]struct{}),
	}
}

// Register adds a subscriber
func (h *FeedHub) Register() *Subscriber {
	sub := &Subscriber{send: make(chan []byte, subscriberBuffer)}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	log.Debug().Int("subscribers", count).Msg("Feed subscriber registered")
	return sub
}

// Unregister removes a subscriber and closes its channel. Safe to call twice.
func (h *FeedHub) Unregister(sub *Subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
	sub.close()
}

// Count returns the number of live subscribers
func (h *FeedHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Broadcast delivers an encoded event to every subscriber. Subscribers whose
// buffer is full are dropped rather than blocking the caller.
func (h *FeedHub) Broadcast(data []byte) {
	var slow []*Subscriber

	h.mu.RLock()
	for sub := range h.subscribers {
		select {
		case sub.send <- data:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		log.Warn().Msg("Dropping slow feed subscriber")
		h.Unregister(sub)
	}
}

// Publish encodes event and broadcasts it locally
func (h *FeedHub) Publish(_ context.Context, event FeedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	h.Broadcast(data)
	return nil
}
