package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
)

type ScanService interface {
	Submit(ctx context.Context, raw string, actorID uint, actorKind domain.ActorKind) (domain.ScanResult, error)
}

type ScanHandler struct {
	svc ScanService
}

func NewScanHandler(svc ScanService) *ScanHandler {
	return &ScanHandler{
		svc: svc,
	}
}

// HandleSubmitScan godoc
// @Summary      Submit a scanned QR code
// @Description  The body carries only the scanned token. The scanning actor (actor id and kind, volunteer or user) is taken from the caller's bearer session and cannot be supplied in the body. Student codes toggle attendance; stall codes are only verified.
// @Tags         scans
// @Accept       json
// @Produce      json
// @Param        request  body      request.ScanRequest  true  "scanned token"
// @Success      200      {object}  response.ScanResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      422      {object}  response.RejectionResponse
// @Failure      503      {object}  response.Err
// @Router       /scans [post]
// @Security     BearerAuth
func (h *ScanHandler) HandleSubmitScan(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.Submit(ctx.Request.Context(), req.Token, principal.ID, domain.ActorKind(principal.Kind))
	if err != nil {
		renderDomainErr(ctx, "v1.HandleSubmitScan -> h.svc.Submit", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewScanResponse(result))
}
