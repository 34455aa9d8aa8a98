package handlers

import (
	"net/http"

	"service-scheduler/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Index tells a client whether its session cookie is still good.
func (h *Handler) Index(c *gin.Context) {
	sess := sessions.Default(c)
	_, ok := sess.Get(middleware.SessionUserID).(uint)

	c.JSON(http.StatusOK, gin.H{
		"service":       "scheduler",
		"authenticated": ok,
	})
}
