package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"service-scheduler/internal/calendar"
	"service-scheduler/internal/database"
	"service-scheduler/internal/models"
	"service-scheduler/internal/notify"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//
// РАСПИСАНИЕ
//

// maxRecurrenceDays bounds a single bulk placement.
const maxRecurrenceDays = 366

type scheduledItem struct {
	ID             uint            `json:"id"`
	ProjectID      uint            `json:"project_id"`
	Date           string          `json:"date"`
	Time           string          `json:"time,omitempty"`
	Section        models.Section  `json:"section,omitempty"`
	Completed      bool            `json:"completed"`
	WindowCleaning bool            `json:"window_cleaning"`
	Project        *models.Project `json:"project,omitempty"`
}

func toItem(sp models.ScheduledProject) scheduledItem {
	day := sp.Day()
	return scheduledItem{
		ID:             sp.ID,
		ProjectID:      sp.ProjectID,
		Date:           day.Format(dateLayout),
		Time:           sp.Time,
		Section:        sp.Section,
		Completed:      sp.Completed,
		WindowCleaning: sp.Project != nil && sp.Project.HasWindowCleaning(int(day.Month())),
		Project:        sp.Project,
	}
}

func toItems(list []models.ScheduledProject) []scheduledItem {
	out := make([]scheduledItem, 0, len(list))
	for _, sp := range list {
		out = append(out, toItem(sp))
	}
	return out
}

// resolveSection picks the stored section: an explicit one must be valid,
// otherwise it follows the time when there is one.
func resolveSection(section, tm string) (models.Section, error) {
	if section != "" {
		s := models.Section(section)
		if !s.Valid() {
			return "", errors.New("section must be morning or afternoon")
		}
		return s, nil
	}
	if tm != "" {
		return calendar.DeriveSectionFromTime(tm), nil
	}
	return "", nil
}

func (h *Handler) ListSchedule(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	list, err := h.store.ListScheduled(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		h.fail(c, err, "failed to load schedule")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toItems(list)})
}

type placeRequest struct {
	ProjectID uint   `json:"project_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time"`
	Section   string `json:"section"`
}

// PlaceProject puts a catalog project onto a day.
func (h *Handler) PlaceProject(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	day, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if err := calendar.ValidateTime(req.Time); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	section, err := resolveSection(req.Section, req.Time)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	uid := currentUserID(c)
	project, err := h.store.GetProject(ctx, uid, req.ProjectID)
	if err != nil {
		h.fail(c, err, "failed to load project")
		return
	}

	sp := models.ScheduledProject{
		UserID:    uid,
		ProjectID: project.ID,
		Date:      models.DateOf(day),
		Time:      req.Time,
		Section:   section,
	}
	if err := h.store.CreateScheduled(ctx, &sp); err != nil {
		h.fail(c, err, "failed to schedule project")
		return
	}
	sp.Project = project

	h.changed(c, notify.TableScheduledProjects, sp.ID, "create",
		fmt.Sprintf("placed %q on %s", project.Title, day.Format(dateLayout)))
	c.JSON(http.StatusCreated, toItem(sp))
}

type patchRequest struct {
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Section   *string `json:"section"`
	Completed *bool   `json:"completed"`
}

func (r patchRequest) toPatch() (database.ScheduledPatch, error) {
	var patch database.ScheduledPatch

	if r.Date != nil {
		day, err := parseDate(*r.Date)
		if err != nil {
			return patch, errors.New("invalid date, expected YYYY-MM-DD")
		}
		patch.Date = &day
	}
	if r.Time != nil {
		if err := calendar.ValidateTime(*r.Time); err != nil {
			return patch, err
		}
		patch.Time = r.Time
	}

	switch {
	case r.Section != nil:
		s, err := resolveSection(*r.Section, "")
		if err != nil {
			return patch, err
		}
		patch.Section = &s
	case r.Time != nil && *r.Time != "":
		// время без секции: секция следует за временем
		s := calendar.DeriveSectionFromTime(*r.Time)
		patch.Section = &s
	}

	patch.Completed = r.Completed
	return patch, nil
}

func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if patch.Empty() {
		respondError(c, http.StatusBadRequest, "nothing to update")
		return
	}

	h.applyPatch(c, id, patch, updateAction(patch))
}

func updateAction(p database.ScheduledPatch) string {
	switch {
	case p.Completed != nil && p.Date == nil && p.Time == nil && p.Section == nil:
		if *p.Completed {
			return "complete"
		}
		return "reopen"
	case p.Date != nil && p.Time == nil && p.Section == nil && p.Completed == nil:
		return "move"
	default:
		return "update"
	}
}

type moveRequest struct {
	Date string `json:"date" binding:"required"`
}

// MoveSchedule reassigns an entry to another day; time and section stay.
func (h *Handler) MoveSchedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	day, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	h.applyPatch(c, id, database.ScheduledPatch{Date: &day}, "move")
}

func (h *Handler) applyPatch(c *gin.Context, id uint, patch database.ScheduledPatch, action string) {
	sp, err := h.store.UpdateScheduled(c.Request.Context(), currentUserID(c), id, patch)
	if err != nil {
		h.fail(c, err, "failed to update schedule entry")
		return
	}

	h.changed(c, notify.TableScheduledProjects, sp.ID, action,
		fmt.Sprintf("%s entry on %s", action, sp.Day().Format(dateLayout)))
	c.JSON(http.StatusOK, toItem(*sp))
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteScheduled(c.Request.Context(), currentUserID(c), id); err != nil {
		h.fail(c, err, "failed to delete schedule entry")
		return
	}

	h.changed(c, notify.TableScheduledProjects, id, "delete", fmt.Sprintf("removed entry %d", id))
	c.Status(http.StatusNoContent)
}

type recurrenceRequest struct {
	ProjectID uint   `json:"project_id" binding:"required"`
	Start     string `json:"start" binding:"required"`
	End       string `json:"end" binding:"required"`
	// 0 = воскресенье ... 6 = суббота
	Weekdays []int  `json:"weekdays" binding:"required"`
	Time     string `json:"time"`
	Section  string `json:"section"`
}

// PlaceRecurrence places a project on every matching weekday of a date range.
func (h *Handler) PlaceRecurrence(c *gin.Context) {
	var req recurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := parseDate(req.Start)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.End)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		respondError(c, http.StatusBadRequest, "end must not be before start")
		return
	}
	if end.Sub(start) > maxRecurrenceDays*24*time.Hour {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("range longer than %d days", maxRecurrenceDays))
		return
	}

	weekdays := make([]time.Weekday, 0, len(req.Weekdays))
	for _, wd := range req.Weekdays {
		if wd < 0 || wd > 6 {
			respondError(c, http.StatusBadRequest, "weekday must be 0 (Sunday) to 6 (Saturday)")
			return
		}
		weekdays = append(weekdays, time.Weekday(wd))
	}
	if err := calendar.ValidateTime(req.Time); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	section, err := resolveSection(req.Section, req.Time)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	uid := currentUserID(c)
	project, err := h.store.GetProject(ctx, uid, req.ProjectID)
	if err != nil {
		h.fail(c, err, "failed to load project")
		return
	}

	dates := calendar.RecurrenceDates(start, end, weekdays)
	batch := make([]models.ScheduledProject, 0, len(dates))
	for _, d := range dates {
		batch = append(batch, models.ScheduledProject{
			UserID:    uid,
			ProjectID: project.ID,
			Date:      models.DateOf(d),
			Time:      req.Time,
			Section:   section,
		})
	}
	if len(batch) == 0 {
		c.JSON(http.StatusOK, gin.H{"items": []scheduledItem{}})
		return
	}
	if err := h.store.CreateScheduledBatch(ctx, batch); err != nil {
		h.fail(c, err, "failed to schedule recurrence")
		return
	}
	for i := range batch {
		batch[i].Project = project
	}

	ids := make([]string, 0, len(batch))
	for _, sp := range batch {
		ids = append(ids, strconv.FormatUint(uint64(sp.ID), 10))
	}
	// запись аудита относится к проекту, созданные записи перечислены в details
	h.changedAs(c, notify.TableScheduledProjects, notify.TableProjects, project.ID, "recurrence",
		fmt.Sprintf("placed %q %d times between %s and %s: entries %s",
			project.Title, len(batch), req.Start, req.End, strings.Join(ids, ",")))
	c.JSON(http.StatusCreated, gin.H{"items": toItems(batch)})
}

var exportHeader = []string{"date", "time", "section", "title", "address", "price", "completed"}

// ExportSchedule writes the schedule as CSV. Entries whose project is gone are skipped.
func (h *Handler) ExportSchedule(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	list, err := h.store.ListScheduled(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		h.fail(c, err, "failed to load schedule")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="schedule.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeader)
	for _, sp := range list {
		if sp.Project == nil {
			continue
		}
		section := sp.Section
		if section == "" {
			section = calendar.DeriveSectionFromTime(sp.Time)
		}
		_ = w.Write([]string{
			sp.Day().Format(dateLayout),
			sp.Time,
			string(section),
			sp.Project.Title,
			sp.Project.Address,
			sp.Project.Price.StringFixed(2),
			strconv.FormatBool(sp.Completed),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.log(c).Error("failed to write csv export", zap.Error(err))
	}
}
