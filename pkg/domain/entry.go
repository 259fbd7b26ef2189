package domain

import "time"

// Entry is a stored document produced by storage links. Entries live in named
// collections and carry free-form data shaped by the recipe's schemas.
type Entry struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Data       map[string]any `json:"data"`
	Tags       []string       `json:"tags,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
