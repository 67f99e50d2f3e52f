package domain

import "time"

// Event is the unit every token, scan and eligibility check is scoped to.
// At most one event is active at a time.
type Event struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Active        bool       `json:"active"`
	AllowFeedback bool       `json:"allow_feedback"`
	AllowVoting   bool       `json:"allow_voting"`
	RetiredAt     *time.Time `json:"retired_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (e Event) Retired() bool {
	return e.RetiredAt != nil
}
