package middleware

import (
	"context"
	"net/http"

	"service-scheduler/internal/models"

	"github.com/gin-gonic/gin"
)

type UserGetter interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// InjectUser loads the authenticated user. A token or session pointing to a
// user that no longer exists is rejected.
func InjectUser(users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := UserID(c)
		if uid == 0 {
			c.Next()
			return
		}

		user, err := users.GetUser(c.Request.Context(), uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		c.Set(ContextUser, user)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}
