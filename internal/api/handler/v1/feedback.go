package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/service"
)

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, studentID uint, stallToken string, rating int, comment string) (domain.Feedback, error)
	CastVote(ctx context.Context, studentID, stallID uint) (domain.Vote, error)
}

type FeedbackHandler struct {
	svc FeedbackService
}

func NewFeedbackHandler(svc FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		svc: svc,
	}
}

// HandleSubmitFeedback godoc
// @Summary      Leave feedback for the stall whose QR code was scanned
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        request  body      request.FeedbackRequest  true  "feedback"
// @Success      201      {object}  domain.Feedback
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      422      {object}  response.RejectionResponse
// @Failure      503      {object}  response.Err
// @Router       /feedback [post]
// @Security     BearerAuth
func (h *FeedbackHandler) HandleSubmitFeedback(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	feedback, err := h.svc.SubmitFeedback(ctx.Request.Context(), principal.ID, req.StallToken, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		renderDomainErr(ctx, "v1.HandleSubmitFeedback -> h.svc.SubmitFeedback", err)
		return
	}

	ctx.JSON(http.StatusCreated, feedback)
}

// HandleCastVote godoc
// @Summary      Vote for a stall of the active event
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        request  body      request.VoteRequest  true  "vote"
// @Success      201      {object}  domain.Vote
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      503      {object}  response.Err
// @Router       /votes [post]
// @Security     BearerAuth
func (h *FeedbackHandler) HandleCastVote(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.VoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	vote, err := h.svc.CastVote(ctx.Request.Context(), principal.ID, req.StallID)
	if err != nil {
		if errors.Is(err, service.ErrStallNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("stall", "id", req.StallID))
			return
		}

		renderDomainErr(ctx, "v1.HandleCastVote -> h.svc.CastVote", err)
		return
	}

	ctx.JSON(http.StatusCreated, vote)
}
