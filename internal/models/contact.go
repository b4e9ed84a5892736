package models

import "time"

// Contact is a message sent through the contact form.
type Contact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type ContactUpdate struct {
	Name    *string `json:"name" validate:"omitnil,notblank,max=100"`
	Email   *string `json:"email" validate:"omitnil,email"`
	Message *string `json:"message" validate:"omitnil,notblank,max=5000"`
}
