package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/service"
)

type IssuanceService interface {
	RegenerateStallToken(ctx context.Context, stallID uint) (domain.IssuedToken, error)
	IssueStudentToken(ctx context.Context, studentID uint) (domain.IssuedToken, error)
}

type TokenHandler struct {
	svc IssuanceService
}

func NewTokenHandler(svc IssuanceService) *TokenHandler {
	return &TokenHandler{
		svc: svc,
	}
}

// HandleRegenerateStallToken godoc
// @Summary      Regenerate a stall QR token
// @Description  Mints a new token scoped to the active event. Codes printed before the regeneration keep decoding but fail scope checks once the event changes.
// @Tags         tokens
// @Produce      json
// @Param        stallID  path      int  true  "Stall ID"
// @Success      201      {object}  domain.IssuedToken
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      503      {object}  response.Err
// @Router       /stalls/{stallID}/token [post]
// @Security     BearerAuth
func (h *TokenHandler) HandleRegenerateStallToken(ctx *gin.Context) {
	stallID, respErr := uintParam(ctx, "stallID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	issued, err := h.svc.RegenerateStallToken(ctx.Request.Context(), stallID)
	if err != nil {
		renderIssuanceErr(ctx, "v1.HandleRegenerateStallToken -> h.svc.RegenerateStallToken", "stall", stallID, err)
		return
	}

	ctx.JSON(http.StatusCreated, issued)
}

// HandleIssueStudentToken godoc
// @Summary      Issue a verification token for the calling student
// @Tags         tokens
// @Produce      json
// @Success      201  {object}  domain.IssuedToken
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /students/me/token [post]
// @Security     BearerAuth
func (h *TokenHandler) HandleIssueStudentToken(ctx *gin.Context) {
	principal, respErr := principalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	issued, err := h.svc.IssueStudentToken(ctx.Request.Context(), principal.ID)
	if err != nil {
		renderIssuanceErr(ctx, "v1.HandleIssueStudentToken -> h.svc.IssueStudentToken", "student", principal.ID, err)
		return
	}

	ctx.JSON(http.StatusCreated, issued)
}

func renderIssuanceErr(ctx *gin.Context, op, subject string, id uint, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveEvent), errors.Is(err, service.ErrStallNotInActiveEvent):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrStallNotFound), errors.Is(err, service.ErrStudentNotFound):
		response.RenderErr(ctx, response.ErrNotFound(subject, "id", id))
	default:
		renderDomainErr(ctx, op, err)
	}
}
