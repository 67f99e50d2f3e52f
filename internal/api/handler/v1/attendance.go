package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
)

type LedgerService interface {
	CurrentStatus(ctx context.Context, eventID, studentID uint) (domain.Presence, error)
	History(ctx context.Context, eventID, studentID uint) ([]domain.AttendanceRecord, error)
}

type AttendanceHandler struct {
	svc LedgerService
}

func NewAttendanceHandler(svc LedgerService) *AttendanceHandler {
	return &AttendanceHandler{
		svc: svc,
	}
}

// HandleGetAttendance godoc
// @Summary      Get a student's attendance for an event
// @Tags         attendance
// @Produce      json
// @Param        eventID    path      int  true  "Event ID"
// @Param        studentID  path      int  true  "Student ID"
// @Success      200        {object}  response.AttendanceResponse
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      503        {object}  response.Err
// @Router       /events/{eventID}/students/{studentID}/attendance [get]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleGetAttendance(ctx *gin.Context) {
	eventID, respErr := uintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	studentID, respErr := uintParam(ctx, "studentID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	presence, err := h.svc.CurrentStatus(ctx.Request.Context(), eventID, studentID)
	if err != nil {
		renderDomainErr(ctx, "v1.HandleGetAttendance -> h.svc.CurrentStatus", err)
		return
	}

	history, err := h.svc.History(ctx.Request.Context(), eventID, studentID)
	if err != nil {
		renderDomainErr(ctx, "v1.HandleGetAttendance -> h.svc.History", err)
		return
	}

	ctx.JSON(http.StatusOK, response.AttendanceResponse{
		EventID:   eventID,
		StudentID: studentID,
		Presence:  presence,
		History:   history,
	})
}
