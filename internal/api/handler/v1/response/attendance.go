package response

import "github.com/vietanh2810/event-attendance-api/internal/domain"

type AttendanceResponse struct {
	EventID   uint                      `json:"event_id"`
	StudentID uint                      `json:"student_id"`
	Presence  domain.Presence           `json:"presence"`
	History   []domain.AttendanceRecord `json:"history"`
}
