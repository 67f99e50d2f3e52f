package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-attendance-api/internal/config"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/event-attendance-api/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, email, password string, kind domain.ActorKind) (domain.Actor, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleLogin godoc
// @Summary      Login a volunteer or a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      503      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	actor, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password, domain.ActorKind(req.Kind))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrWrongPassword):
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
		case errors.Is(err, service.ErrAccountDisabled):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
			response.RenderErr(ctx, response.ErrServiceUnavailable(err))
		}

		return
	}

	principal := jwthelper.Principal{ID: actor.ID, Kind: string(actor.Kind), Role: string(actor.Role)}
	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), principal, ctx.Request.UserAgent(), h.conf.SessionTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken() -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		Actor: actor,
	})
}
