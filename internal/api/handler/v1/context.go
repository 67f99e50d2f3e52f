package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-attendance-api/internal/api/middleware"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/pkg/jwthelper"
)

var errNoPrincipal = errors.New("no authenticated caller")

func principalFromContext(ctx *gin.Context) (jwthelper.Principal, *response.Err) {
	p, ok := middleware.Principal(ctx)
	if !ok {
		return jwthelper.Principal{}, response.ErrUnauthorized(errNoPrincipal)
	}

	return p, nil
}

func uintParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s: %w", name, err))
	}

	return uint(id), nil
}

// renderDomainErr renders the typed rejections the engine returns and falls
// back to a retryable 503 for store failures.
func renderDomainErr(ctx *gin.Context, op string, err error) {
	var rejection *domain.ScanRejection
	if errors.As(err, &rejection) {
		response.RenderRejection(ctx, rejection)
		return
	}

	var denial *domain.EligibilityError
	if errors.As(err, &denial) {
		response.RenderErr(ctx, response.ErrNotEligible(denial))
		return
	}

	response.RenderErr(ctx, response.ErrServiceUnavailable(fmt.Errorf("%s -> %w", op, err)))
}
