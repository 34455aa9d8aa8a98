package handlers

import (
	"errors"
	"net/http"
	"strings"

	"service-scheduler/internal/auth"
	"service-scheduler/internal/database"
	"service-scheduler/internal/middleware"
	"service-scheduler/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *Handler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 || len(req.Password) < 6 {
		respondError(c, http.StatusBadRequest, "username must be at least 3 and password at least 6 characters")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetUserByName(ctx, req.Username); err == nil {
		respondError(c, http.StatusConflict, "user already exists")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		h.fail(c, err, "failed to check user")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(c, err, "failed to hash password")
		return
	}

	// через API регистрируются только владельцы расписаний
	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         models.RoleOwner,
	}
	if err := h.store.CreateUser(ctx, &user); err != nil {
		// параллельная регистрация с тем же именем
		if errors.Is(err, database.ErrDuplicate) {
			respondError(c, http.StatusConflict, "user already exists")
			return
		}
		h.fail(c, err, "failed to create user")
		return
	}

	if err := h.store.WriteAudit(ctx, user.ID, "users", user.ID, "create", "registered "+user.Username); err != nil {
		h.log(c).Warn("failed to write audit log", zap.Error(err))
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.GetUserByName(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		h.fail(c, err, "failed to load user")
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := auth.GenerateToken(user.ID, h.jwtSecret, h.now())
	if err != nil {
		h.fail(c, err, "failed to issue token")
		return
	}

	sess := sessions.Default(c)
	sess.Set(middleware.SessionUserID, user.ID)
	if err := sess.Save(); err != nil {
		h.fail(c, err, "failed to save session")
		return
	}

	h.log(c).Info("user logged in", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, user)
}
