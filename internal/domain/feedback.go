package domain

import "time"

type Feedback struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	StudentID uint      `json:"student_id"`
	StallID   uint      `json:"stall_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Vote struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	StudentID uint      `json:"student_id"`
	StallID   uint      `json:"stall_id"`
	CreatedAt time.Time `json:"created_at"`
}
