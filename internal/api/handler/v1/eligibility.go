package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/service"
)

type EligibilityService interface {
	CanSubmitFeedback(ctx context.Context, eventID, studentID, stallID uint) (domain.Verdict, error)
	CanVote(ctx context.Context, eventID, studentID uint) (domain.Verdict, error)
}

type EligibilityHandler struct {
	svc EligibilityService
}

func NewEligibilityHandler(svc EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{
		svc: svc,
	}
}

// HandleFeedbackEligibility godoc
// @Summary      Check whether the calling student may leave feedback for a stall
// @Tags         eligibility
// @Produce      json
// @Param        eventID   path      int  true  "Event ID"
// @Param        stall_id  query     int  true  "Stall ID"
// @Success      200       {object}  domain.Verdict
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      503       {object}  response.Err
// @Router       /events/{eventID}/eligibility/feedback [get]
// @Security     BearerAuth
func (h *EligibilityHandler) HandleFeedbackEligibility(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := uintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stallID, err := strconv.ParseUint(ctx.Query("stall_id"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid stall_id: %w", err)))
		return
	}

	verdict, err := h.svc.CanSubmitFeedback(ctx.Request.Context(), eventID, principal.ID, uint(stallID))
	if err != nil {
		renderVerdictErr(ctx, "v1.HandleFeedbackEligibility -> h.svc.CanSubmitFeedback", eventID, err)
		return
	}

	ctx.JSON(http.StatusOK, verdict)
}

// HandleVoteEligibility godoc
// @Summary      Check whether the calling student may vote
// @Tags         eligibility
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Verdict
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      503      {object}  response.Err
// @Router       /events/{eventID}/eligibility/vote [get]
// @Security     BearerAuth
func (h *EligibilityHandler) HandleVoteEligibility(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := uintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	verdict, err := h.svc.CanVote(ctx.Request.Context(), eventID, principal.ID)
	if err != nil {
		renderVerdictErr(ctx, "v1.HandleVoteEligibility -> h.svc.CanVote", eventID, err)
		return
	}

	ctx.JSON(http.StatusOK, verdict)
}

func renderVerdictErr(ctx *gin.Context, op string, eventID uint, err error) {
	if errors.Is(err, service.ErrEventNotFound) {
		response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
		return
	}

	renderDomainErr(ctx, op, err)
}
