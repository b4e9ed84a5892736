package models

import "time"

// Thought is a short private note.
type Thought struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Thought   string    `json:"thought"`
	CreatedAt time.Time `json:"createdAt"`
}

type ThoughtUpdate struct {
	Name    *string `json:"name" validate:"omitnil,notblank,max=100"`
	Email   *string `json:"email" validate:"omitnil,email"`
	Thought *string `json:"thought" validate:"omitnil,notblank,max=5000"`
}
