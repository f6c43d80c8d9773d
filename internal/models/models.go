package models

import "time"

// Thought message length bounds, counted in runes
const (
	MessageMinLength = 5
	MessageMaxLength = 140
)

// User represents a registered account
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Thought represents a short post with a like counter
type Thought struct {
	ID        string    `json:"_id"`
	Message   string    `json:"message"`
	Hearts    int       `json:"hearts"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `json:"user,omitempty"`
}
