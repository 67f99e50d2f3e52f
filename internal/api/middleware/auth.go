package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/event-attendance-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/pkg/jwthelper"
)

const principalKey = "principal"

var (
	errMissingToken = errors.New("missing bearer token")
	errForbidden    = errors.New("this account may not use this endpoint")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT reads the session token from the Authorization header, or from
// the access_token query parameter for websocket upgrades.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = ctx.Query("access_token")
		}
		if token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		principal, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(jwthelper.ErrInvalidToken))
			return
		}

		ctx.Set(principalKey, principal)
		ctx.Next()
	}
}

// Principal returns the caller set by VerifyJWT.
func Principal(ctx *gin.Context) (jwthelper.Principal, bool) {
	v, ok := ctx.Get(principalKey)
	if !ok {
		return jwthelper.Principal{}, false
	}

	p, ok := v.(jwthelper.Principal)
	return p, ok
}

// Require lets the request through only when allow accepts the caller.
func Require(allow func(p jwthelper.Principal) bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, ok := Principal(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}
		if !allow(p) {
			response.RenderErr(ctx, response.ErrPermissionDenied(errForbidden))
			return
		}

		ctx.Next()
	}
}

func IsAdmin(p jwthelper.Principal) bool {
	return p.Kind == string(domain.ActorUser) && p.Role == string(domain.RoleAdmin)
}

func IsStudent(p jwthelper.Principal) bool {
	return p.Kind == string(domain.ActorUser) && p.Role == string(domain.RoleStudent)
}

// IsScanner accepts volunteers and admins.
func IsScanner(p jwthelper.Principal) bool {
	return p.Kind == string(domain.ActorVolunteer) || IsAdmin(p)
}
