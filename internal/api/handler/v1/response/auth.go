package response

import "github.com/vietanh2810/event-attendance-api/internal/domain"

type LoginResponse struct {
	Token string       `json:"token"`
	Actor domain.Actor `json:"actor"`
}
