package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/weekend-shifts/pkg/core/allocator"
	"github.com/jakechorley/weekend-shifts/pkg/core/services"
	"github.com/jakechorley/weekend-shifts/pkg/db"
)

// SettingsResponse is the round settings plus derived state
type SettingsResponse struct {
	db.Settings
	Locked            bool   `json:"locked"`
	DeadlineFormatted string `json:"deadlineFormatted,omitempty"`
}

// DeadlineRequest is the body of POST /api/settings/deadline
type DeadlineRequest struct {
	Deadline *time.Time `json:"deadline" binding:"required"`
}

// AllocateResponse is the body returned by POST /api/allocate
type AllocateResponse struct {
	RunID       string                `json:"runId,omitempty"`
	Committed   bool                  `json:"committed"`
	Assignments allocator.Assignments `json:"assignments"`
	Occupancy   allocator.Occupancy   `json:"occupancy"`
	Warnings    []string              `json:"warnings"`
	Violations  []allocator.Violation `json:"violations"`
	Summary     allocator.Summary     `json:"summary"`
}

// ListShifts returns the shift catalog for the round
func (h *Handler) ListShifts(c *gin.Context) {
	catalog, err := h.Cfg.Catalog()
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shifts": catalog.Shifts()})
}

// ListEmployees returns the roster
func (h *Handler) ListEmployees(c *gin.Context) {
	employees, err := services.ListEmployees(c.Request.Context(), h.Store, h.Logger)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// AddEmployee adds an employee to the roster
func (h *Handler) AddEmployee(c *gin.Context) {
	var input services.NewEmployee
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee, err := services.AddEmployee(c.Request.Context(), h.Store, h.Logger, input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// RemoveEmployee removes an employee and their preferences
func (h *Handler) RemoveEmployee(c *gin.Context) {
	if err := services.RemoveEmployee(c.Request.Context(), h.Store, h.Logger, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPreferences returns every submitted preference set
func (h *Handler) ListPreferences(c *gin.Context) {
	preferences, err := services.ListPreferences(c.Request.Context(), h.Store, h.Logger)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": preferences})
}

// SubmitPreferences stores the preferences of the employee named in the path.
// ?override=true bypasses the lock and deadline. The API has no authentication,
// so any caller can set it.
func (h *Handler) SubmitPreferences(c *gin.Context) {
	override, err := strconv.ParseBool(c.DefaultQuery("override", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "override must be a boolean"})
		return
	}

	var submission services.PreferenceSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preference, err := services.SubmitPreferences(
		c.Request.Context(), h.Store, h.Cfg, h.Logger,
		c.Param("id"), submission, h.Now(), override,
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, preference)
}

// GetSettings returns the round settings
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := services.GetSettings(c.Request.Context(), h.Store, h.Logger)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.settingsResponse(settings))
}

// SetDeadline changes the submission deadline
func (h *Handler) SetDeadline(c *gin.Context) {
	var req DeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := services.SetDeadline(c.Request.Context(), h.Store, h.Logger, *req.Deadline)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.settingsResponse(settings))
}

// LockPreferences closes submissions
func (h *Handler) LockPreferences(c *gin.Context) {
	settings, err := services.LockPreferences(c.Request.Context(), h.Store, h.Logger)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.settingsResponse(settings))
}

// UnlockPreferences reopens submissions with an extended deadline
func (h *Handler) UnlockPreferences(c *gin.Context) {
	settings, err := services.UnlockPreferences(c.Request.Context(), h.Store, h.Cfg, h.Logger, h.Now())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.settingsResponse(settings))
}

// Allocate runs the allocation. Only one run is processed at a time.
func (h *Handler) Allocate(c *gin.Context) {
	force, err := strconv.ParseBool(c.DefaultQuery("force", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "force must be a boolean"})
		return
	}
	dryRun, err := strconv.ParseBool(c.DefaultQuery("dryRun", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dryRun must be a boolean"})
		return
	}

	h.allocateMu.Lock()
	defer h.allocateMu.Unlock()

	result, err := services.AllocateShifts(c.Request.Context(), h.Store, h.Cfg, h.Logger, services.AllocateOptions{
		DryRun: dryRun,
		Force:  force,
		Now:    h.Now(),
	})
	if err != nil {
		h.writeAllocateError(c, err, result)
		return
	}

	c.JSON(http.StatusOK, AllocateResponse{
		RunID:       result.RunID,
		Committed:   result.Committed,
		Assignments: result.Outcome.Assignments,
		Occupancy:   result.Outcome.Occupancy,
		Warnings:    result.Outcome.Warnings,
		Violations:  result.Violations,
		Summary:     result.Summary,
	})
}

// writeAllocateError reports a rejected outcome with its violations so the
// caller can decide whether to retry with ?force=true
func (h *Handler) writeAllocateError(c *gin.Context, err error, result *services.AllocateResult) {
	if errors.Is(err, services.ErrInvalidAllocation) && result != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      err.Error(),
			"violations": result.Violations,
		})
		return
	}
	h.writeError(c, err)
}

// ViewAssignments returns the latest committed allocation
func (h *Handler) ViewAssignments(c *gin.Context) {
	view, err := services.ViewAssignments(c.Request.Context(), h.Store, h.Cfg, h.Logger)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) settingsResponse(settings *db.Settings) SettingsResponse {
	resp := SettingsResponse{
		Settings: *settings,
		Locked:   services.PreferencesLocked(settings, h.Now()),
	}
	if settings.Deadline != nil {
		// Timezone is validated when config loads
		loc, err := h.Cfg.Location()
		if err != nil {
			loc = time.UTC
		}
		resp.DeadlineFormatted = services.FormatDeadline(*settings.Deadline, loc)
	}
	return resp
}

// writeError maps service errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrPreferencesLocked):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrAlreadyAllocated), errors.Is(err, services.ErrEmployeeExists):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidPreferences), errors.Is(err, services.ErrInvalidEmployee):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidAllocation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrEmployeeNotFound), errors.Is(err, services.ErrNotAllocated):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error("Service error", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
