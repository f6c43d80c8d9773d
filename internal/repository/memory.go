package repository

import (
	"context"
	"sort"
	"sync"

	"happy-thoughts-backend/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps users and thoughts in process memory. It backs the
// "memory" driver for local runs and the handler tests.
type MemoryStore struct {
	mu       sync.RWMutex
	seq      int64
	thoughts map[string]*memoryThought
	users    map[string]*models.User
	byName   map[string]string
}

type memoryThought struct {
	thought models.Thought
	seq     int64
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		thoughts: make(map[string]*memoryThought),
		users:    make(map[string]*models.User),
		byName:   make(map[string]string),
	}
}

// Thoughts returns the store as a ThoughtRepository
func (s *MemoryStore) Thoughts() ThoughtRepository { return memoryThoughts{s} }

// Users returns the store as a UserRepository
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

type memoryThoughts struct{ s *MemoryStore }

func (m memoryThoughts) ListRecent(_ context.Context, limit int) ([]*models.Thought, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	entries := make([]*memoryThought, 0, len(m.s.thoughts))
	for _, e := range m.s.thoughts {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.thought.CreatedAt.Equal(b.thought.CreatedAt) {
			return a.thought.CreatedAt.After(b.thought.CreatedAt)
		}
		return a.seq > b.seq
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	thoughts := make([]*models.Thought, 0, len(entries))
	for _, e := range entries {
		t := e.thought
		thoughts = append(thoughts, &t)
	}
	return thoughts, nil
}

func (m memoryThoughts) GetByID(_ context.Context, id string) (*models.Thought, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	e, ok := m.s.thoughts[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := e.thought
	return &t, nil
}

func (m memoryThoughts) Create(_ context.Context, thought *models.Thought) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	thought.ID = uuid.New().String()
	m.s.seq++
	m.s.thoughts[thought.ID] = &memoryThought{thought: *thought, seq: m.s.seq}
	return nil
}

func (m memoryThoughts) UpdateMessage(_ context.Context, id, message string) (*models.Thought, error) {
	return m.mutate(id, func(t *models.Thought) { t.Message = message })
}

func (m memoryThoughts) IncrementHearts(_ context.Context, id string) (*models.Thought, error) {
	return m.mutate(id, func(t *models.Thought) { t.Hearts++ })
}

func (m memoryThoughts) Delete(_ context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.thoughts[id]; !ok {
		return ErrNotFound
	}
	delete(m.s.thoughts, id)
	return nil
}

func (m memoryThoughts) mutate(id string, fn func(*models.Thought)) (*models.Thought, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.thoughts[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(&e.thought)
	t := e.thought
	return &t, nil
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(_ context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, taken := m.s.byName[user.Username]; taken {
		return ErrDuplicateUsername
	}
	user.ID = uuid.New().String()
	u := *user
	m.s.users[u.ID] = &u
	m.s.byName[u.Username] = u.ID
	return nil
}

func (m memoryUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m memoryUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	id, ok := m.s.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m.s.users[id]
	return &cp, nil
}
