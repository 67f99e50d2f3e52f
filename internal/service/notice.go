package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/event-attendance-api/internal/broadcast"
)

// noticeTimeout bounds how long a scan or an activation waits on publishers.
const noticeTimeout = 250 * time.Millisecond

// publish hands n to the publisher once the write it describes is committed.
// A failed publish is logged and never reported to the caller.
func publish(ctx context.Context, publisher broadcast.Publisher, n broadcast.Notice) {
	if publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), noticeTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, n); err != nil {
		zap.L().Warn("failed to publish notice",
			zap.String("type", string(n.Type)),
			zap.Uint("event_id", n.EventID),
			zap.Error(err),
		)
	}
}
