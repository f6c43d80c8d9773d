package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"happy-thoughts-backend/internal/models"
	"happy-thoughts-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// RecentLimit is the maximum number of thoughts returned by List
const RecentLimit = 20

// Feed event types
const (
	EventThoughtCreated = "thought_created"
	EventThoughtUpdated = "thought_updated"
	EventThoughtLiked   = "thought_liked"
	EventThoughtDeleted = "thought_deleted"
)

// FeedEvent is pushed to live feed subscribers after a thought changes
type FeedEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publisher delivers feed events
type Publisher interface {
	Publish(ctx context.Context, event FeedEvent) error
}

// ThoughtService handles thought-related business logic
type ThoughtService struct {
	thoughtRepo repository.ThoughtRepository
	publisher   Publisher
	now         func() time.Time
}

// NewThoughtService creates a new thought service. publisher may be nil.
func NewThoughtService(thoughtRepo repository.ThoughtRepository, publisher Publisher) *ThoughtService {
	return &ThoughtService{
		thoughtRepo: thoughtRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// CanModify reports whether requesterID may edit or delete thought.
// Thoughts without an owner cannot be modified.
func CanModify(thought *models.Thought, requesterID string) bool {
	return thought.UserID != "" && thought.UserID == requesterID
}

// ValidateMessage trims message and checks its length
func ValidateMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	n := utf8.RuneCountInString(message)
	switch {
	case n == 0:
		return "", invalid("message", "message is required")
	case n < models.MessageMinLength:
		return "", invalid("message", fmt.Sprintf("message must be at least %d characters", models.MessageMinLength))
	case n > models.MessageMaxLength:
		return "", invalid("message", fmt.Sprintf("message must be at most %d characters", models.MessageMaxLength))
	}
	return message, nil
}

// List returns the most recent thoughts, newest first
func (s *ThoughtService) List(ctx context.Context) ([]*models.Thought, error) {
	return s.thoughtRepo.ListRecent(ctx, RecentLimit)
}

// Get returns a single thought
func (s *ThoughtService) Get(ctx context.Context, id string) (*models.Thought, error) {
	return s.thoughtRepo.GetByID(ctx, id)
}

// Create stores a new thought owned by ownerID (empty for anonymous)
func (s *ThoughtService) Create(ctx context.Context, message, ownerID string) (*models.Thought, error) {
	message, err := ValidateMessage(message)
	if err != nil {
		return nil, err
	}

	thought := &models.Thought{
		Message:   message,
		Hearts:    0,
		CreatedAt: s.now().UTC(),
		UserID:    ownerID,
	}
	if err := s.thoughtRepo.Create(ctx, thought); err != nil {
		return nil, fmt.Errorf("failed to create thought: %w", err)
	}

	s.publish(ctx, EventThoughtCreated, thought)
	return thought, nil
}

// Update replaces the message of a thought owned by requesterID
func (s *ThoughtService) Update(ctx context.Context, id, message, requesterID string) (*models.Thought, error) {
	if _, err := s.authorize(ctx, id, requesterID); err != nil {
		return nil, err
	}

	message, err := ValidateMessage(message)
	if err != nil {
		return nil, err
	}

	thought, err := s.thoughtRepo.UpdateMessage(ctx, id, message)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventThoughtUpdated, thought)
	return thought, nil
}

// Like adds one heart. Anyone may like any thought.
func (s *ThoughtService) Like(ctx context.Context, id string) (*models.Thought, error) {
	thought, err := s.thoughtRepo.IncrementHearts(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventThoughtLiked, thought)
	return thought, nil
}

// Delete removes a thought owned by requesterID
func (s *ThoughtService) Delete(ctx context.Context, id, requesterID string) error {
	if _, err := s.authorize(ctx, id, requesterID); err != nil {
		return err
	}

	if err := s.thoughtRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, EventThoughtDeleted, map[string]string{"_id": id})
	return nil
}

func (s *ThoughtService) authorize(ctx context.Context, id, requesterID string) (*models.Thought, error) {
	thought, err := s.thoughtRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModify(thought, requesterID) {
		return nil, ErrForbidden
	}
	return thought, nil
}

// publish is best effort; the write already succeeded.
func (s *ThoughtService) publish(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, FeedEvent{Type: eventType, Data: data}); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to publish feed event")
	}
}
