package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"service-scheduler/internal/calendar"
	"service-scheduler/internal/database"
	"service-scheduler/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// fail maps store and engine errors to a status; anything unknown is logged
// and reported with msg.
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrDuplicate):
		respondError(c, http.StatusConflict, "already exists")
	case errors.Is(err, calendar.ErrInvalidTime):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		h.log(c).Error(msg, zap.Error(err))
		respondError(c, http.StatusInternalServerError, msg)
	}
}

func (h *Handler) log(c *gin.Context) *zap.Logger {
	return middleware.Logger(c, h.logger)
}

func currentUserID(c *gin.Context) uint {
	return middleware.UserID(c)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// parseRange reads the optional from/to query parameters.
func parseRange(c *gin.Context) (from, to *time.Time, ok bool) {
	for _, p := range []struct {
		key string
		dst **time.Time
	}{{"from", &from}, {"to", &to}} {
		v := c.Query(p.key)
		if v == "" {
			continue
		}
		t, err := parseDate(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid "+p.key+" date, expected YYYY-MM-DD")
			return nil, nil, false
		}
		*p.dst = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		respondError(c, http.StatusBadRequest, "to must not be before from")
		return nil, nil, false
	}
	return from, to, true
}
