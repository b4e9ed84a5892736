package websocket

import "time"

// Message is a single feed notification, e.g. {"action":"blog.created","payload":{...}}.
type Message struct {
	Action  string    `json:"action"`
	Payload any       `json:"payload"`
	SentAt  time.Time `json:"sentAt"`
}
