package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const heartbeatInterval = 30 * time.Second

// Events streams change notifications for the current user as Server-Sent
// Events. Clients re-fetch on every event; the payload is only a hint.
func (h *Handler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	uid := currentUserID(c)

	changes, err := h.notifier.Subscribe(ctx)
	if err != nil {
		h.log(c).Error("failed to subscribe to changes", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "change stream unavailable")
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", h.now().Unix())
			return true
		case ch, ok := <-changes:
			if !ok {
				return false
			}
			if ch.UserID != 0 && ch.UserID != uid {
				return true
			}
			c.SSEvent("change", ch)
			return true
		}
	})
}
