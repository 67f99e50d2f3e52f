package domain

import "time"

type Stall struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	EventID       uint       `json:"event_id"`
	Token         string     `json:"-"`
	TokenIssuedAt *time.Time `json:"token_issued_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
