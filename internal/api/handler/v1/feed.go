package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FeedHub interface {
	Serve(w http.ResponseWriter, r *http.Request) error
}

type FeedHandler struct {
	hub FeedHub
}

func NewFeedHandler(hub FeedHub) *FeedHandler {
	return &FeedHandler{
		hub: hub,
	}
}

// HandleScanFeed godoc
// @Summary      Stream ledger and activation notices
// @Description  Upgrades to a websocket that receives every attendance and activation notice as JSON. Browsers pass the session token as access_token.
// @Tags         scans
// @Param        access_token  query     string  false  "session token"
// @Success      101           {string}  string  "Switching Protocols to WebSocket"
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Router       /scans/feed [get]
// @Security     BearerAuth
func (h *FeedHandler) HandleScanFeed(ctx *gin.Context) {
	// The upgrader has already answered the request when Serve fails.
	if err := h.hub.Serve(ctx.Writer, ctx.Request); err != nil {
		zap.L().Info("scan feed closed", zap.Error(err))
	}
}
