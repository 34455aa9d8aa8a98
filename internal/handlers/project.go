package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"service-scheduler/internal/database"
	"service-scheduler/internal/models"
	"service-scheduler/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

//
// КАТАЛОГ ПРОЕКТОВ
//

type projectRequest struct {
	Title                string          `json:"title"`
	Address              string          `json:"address"`
	Price                decimal.Decimal `json:"price"`
	Type                 string          `json:"type"`
	Notes                string          `json:"notes"`
	Color                string          `json:"color"`
	WindowCleaningMonths []int           `json:"window_cleaning_months"`
}

// validate normalizes the request and returns a message for the first problem.
func (r *projectRequest) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	r.Address = strings.TrimSpace(r.Address)
	r.Notes = strings.TrimSpace(r.Notes)

	if len([]rune(r.Title)) < 2 {
		return "title must be at least 2 characters"
	}
	if r.Price.IsNegative() {
		return "price must not be negative"
	}
	if !models.ProjectType(r.Type).Valid() {
		return "type must be recurring or one-off"
	}
	if !models.Color(r.Color).Valid() {
		return "unknown color"
	}

	seen := make(map[int]bool, len(r.WindowCleaningMonths))
	for _, m := range r.WindowCleaningMonths {
		if m < 1 || m > 12 {
			return fmt.Sprintf("window cleaning month %d out of range 1-12", m)
		}
		if seen[m] {
			return fmt.Sprintf("window cleaning month %d repeated", m)
		}
		seen[m] = true
	}
	return ""
}

func (r *projectRequest) apply(p *models.Project) {
	p.Title = r.Title
	p.Address = r.Address
	p.Price = r.Price
	p.Type = models.ProjectType(r.Type)
	p.Notes = r.Notes
	p.Color = models.Color(r.Color)
	p.WindowCleaningMonths = datatypes.JSONSlice[int](append([]int{}, r.WindowCleaningMonths...))
}

func (h *Handler) ListProjects(c *gin.Context) {
	filter := database.ProjectFilter{
		Type:   models.ProjectType(c.Query("type")),
		Color:  models.Color(c.Query("color")),
		Search: c.Query("q"),
		Sort:   c.Query("sort"),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		respondError(c, http.StatusBadRequest, "unknown project type")
		return
	}
	if filter.Color != "" && !filter.Color.Valid() {
		respondError(c, http.StatusBadRequest, "unknown color")
		return
	}
	if _, err := database.OrderClause(filter.Sort); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	projects, err := h.store.ListProjects(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		h.fail(c, err, "failed to load projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.store.GetProject(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.fail(c, err, "failed to load project")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	p := models.Project{UserID: currentUserID(c)}
	req.apply(&p)
	if err := h.store.CreateProject(c.Request.Context(), &p); err != nil {
		h.fail(c, err, "failed to create project")
		return
	}

	h.changed(c, notify.TableProjects, p.ID, "create", "created project "+p.Title)
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	ctx := c.Request.Context()
	uid := currentUserID(c)
	p, err := h.store.GetProject(ctx, uid, id)
	if err != nil {
		h.fail(c, err, "failed to load project")
		return
	}
	req.apply(p)
	if err := h.store.UpdateProject(ctx, p); err != nil {
		h.fail(c, err, "failed to update project")
		return
	}

	h.changed(c, notify.TableProjects, p.ID, "update", "updated project "+p.Title)
	c.JSON(http.StatusOK, p)
}

// DeleteProject removes the catalog entry only. Its placements stay in the
// store and drop out of the calendar because their project no longer resolves.
func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteProject(c.Request.Context(), currentUserID(c), id); err != nil {
		h.fail(c, err, "failed to delete project")
		return
	}

	h.changed(c, notify.TableProjects, id, "delete", fmt.Sprintf("deleted project %d", id))
	c.Status(http.StatusNoContent)
}
