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

type RegistryService interface {
	GetActive(ctx context.Context) (domain.Event, error)
	Activate(ctx context.Context, id uint) (domain.Event, error)
}

type EventHandler struct {
	svc RegistryService
}

func NewEventHandler(svc RegistryService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleGetActive godoc
// @Summary      Get the active event
// @Tags         events
// @Produce      json
// @Success      200  {object}  domain.Event
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /events/active [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetActive(ctx *gin.Context) {
	event, err := h.svc.GetActive(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoActiveEvent) {
			response.RenderErr(ctx, response.ErrNotFound("event", "active", true))
			return
		}

		renderDomainErr(ctx, "v1.HandleGetActive -> h.svc.GetActive", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleActivate godoc
// @Summary      Activate an event
// @Description  Makes the event the single active one. Every other event is deactivated in the same transaction.
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      503      {object}  response.Err
// @Router       /events/{eventID}/activate [post]
// @Security     BearerAuth
func (h *EventHandler) HandleActivate(ctx *gin.Context) {
	eventID, respErr := uintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.Activate(ctx.Request.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
		case errors.Is(err, service.ErrEventRetired):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			renderDomainErr(ctx, "v1.HandleActivate -> h.svc.Activate", err)
		}

		return
	}

	ctx.JSON(http.StatusOK, event)
}
