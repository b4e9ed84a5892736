package models

import "time"

// Blog is a published post. Blogs are readable by anyone.
type Blog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	PublishedBy string    `json:"publishedBy"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BlogUpdate carries the editable blog fields. Nil fields are left unchanged.
type BlogUpdate struct {
	Title    *string   `json:"title" validate:"omitnil,notblank,max=200"`
	Content  *string   `json:"content" validate:"omitnil,notblank"`
	Category *string   `json:"category" validate:"omitnil,max=100"`
	Tags     *[]string `json:"tags" validate:"omitnil,max=20,dive,max=40"`
}
