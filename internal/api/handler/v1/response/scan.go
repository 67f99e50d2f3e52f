package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
)

type ScanResponse struct {
	OK bool `json:"ok"`
	domain.ScanResult
}

type RejectionDetails struct {
	ClaimedEventID uint `json:"claimed_event_id,omitempty"`
	ActiveEventID  uint `json:"active_event_id,omitempty"`
}

type RejectionResponse struct {
	OK      bool                `json:"ok"`
	Reason  domain.RejectReason `json:"reason"`
	Message string              `json:"message"`
	Details *RejectionDetails   `json:"details,omitempty"`
}

var rejectionMessages = map[domain.RejectReason]string{
	domain.ReasonBadSignature:    "This QR code is not valid.",
	domain.ReasonExpired:         "This QR code has expired.",
	domain.ReasonUnknownSubject:  "This QR code refers to an unknown stall or student.",
	domain.ReasonNoActiveEvent:   "No event is active right now.",
	domain.ReasonStaleEventScope: "This QR code belongs to a previous event; regenerate it.",
	domain.ReasonUnknownActor:    "The scanner account is not allowed to record scans.",
}

func NewScanResponse(result domain.ScanResult) ScanResponse {
	return ScanResponse{OK: true, ScanResult: result}
}

// RenderRejection answers a refused scan with 422 and the typed reason.
func RenderRejection(ctx *gin.Context, r *domain.ScanRejection) {
	resp := RejectionResponse{
		Reason:  r.Reason,
		Message: rejectionMessages[r.Reason],
	}
	if r.Reason == domain.ReasonStaleEventScope {
		resp.Details = &RejectionDetails{
			ClaimedEventID: r.ClaimedEventID,
			ActiveEventID:  r.ActiveEventID,
		}
	}

	ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, resp)
}
