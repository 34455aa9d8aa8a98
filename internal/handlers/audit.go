package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const auditLimit = 200

func (h *Handler) ListAuditLogs(c *gin.Context) {
	logs, err := h.store.ListAudit(c.Request.Context(), currentUserID(c), auditLimit)
	if err != nil {
		h.fail(c, err, "failed to load audit log")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
