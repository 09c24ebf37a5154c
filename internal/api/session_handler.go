package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/session"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/storage"
)

// SessionHandler exposes the session controller's transitions. Every
// endpoint resolves the caller's controller and returns the fresh
// snapshot, so the client always renders from the post-transition state.
type SessionHandler struct {
	sessions *SessionManager
	covers   storage.CoverStorage // may be nil when no bucket is configured
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *SessionManager, covers storage.CoverStorage) *SessionHandler {
	return &SessionHandler{sessions: sessions, covers: covers}
}

// --- Request Structs ---

type SwitchViewRequest struct {
	View string `json:"view" binding:"required,oneof=home configure history"`
}

type OpenDayRequest struct {
	Day string `json:"day" binding:"required"`
}

type StartExerciseRequest struct {
	Name  string `json:"name" binding:"required"`
	Index *int   `json:"index" binding:"required"`
}

type UpdateExecutionRequest struct {
	Sets  []domain.ExecutionSet `json:"sets"`
	Notes string                `json:"notes"`
}

type SwapExerciseRequest struct {
	Index  *int   `json:"index" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type OpenReportRequest struct {
	Analysis string `json:"analysis" binding:"required"`
}

// controller resolves the caller's session controller, or aborts.
func (h *SessionHandler) controller(c *gin.Context) (*session.Controller, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return nil, false
	}
	return h.sessions.Get(c.Request.Context(), userID), true
}

// GetSession returns the current session snapshot.
func (h *SessionHandler) GetSession(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// SwitchView changes the top-level view.
func (h *SessionHandler) SwitchView(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req SwitchViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	ctrl.SwitchView(session.View(req.View))
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// OpenDay opens the day sheet for one weekday of the confirmed plan and
// recomputes today's completed exercises.
func (h *SessionHandler) OpenDay(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req OpenDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	day, err := domain.ParseWeekday(req.Day)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown weekday: %s", req.Day))
		return
	}

	if err := ctrl.OpenDay(c.Request.Context(), day); err != nil {
		switch {
		case errors.Is(err, session.ErrNoPlanOnProfile), errors.Is(err, session.ErrNoDaySelected):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, session.ErrWrongSheet):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not open day")
		}
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// GeneratePlan runs the generator over the current profile and opens
// the review sheet. A generator failure leaves the session unchanged so
// the user can retry.
func (h *SessionHandler) GeneratePlan(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.GeneratePlan(c.Request.Context()); err != nil {
		if errors.Is(err, session.ErrWrongSheet) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusBadGateway, "Plan generation failed. Try again.")
		}
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// ConfirmPlan persists the reviewed plan as the live plan.
func (h *SessionHandler) ConfirmPlan(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.ConfirmPlan(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// SelectReviewDay changes which day of the reviewed plan is shown.
func (h *SessionHandler) SelectReviewDay(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req OpenDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	day, err := domain.ParseWeekday(req.Day)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown weekday: %s", req.Day))
		return
	}
	if err := ctrl.SelectReviewDay(day); err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// SwapExercise requests a single-exercise substitution in the reviewed
// plan. Only the addressed slot ever changes.
func (h *SessionHandler) SwapExercise(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req SwapExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := ctrl.RequestSwap(c.Request.Context(), *req.Index, req.Reason); err != nil {
		switch {
		case errors.Is(err, session.ErrGenerationFailed):
			abortWithError(c, http.StatusBadGateway, "Exercise swap failed. Try again.")
		case errors.Is(err, session.ErrInvalidSwapIndex):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusConflict, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// StartExercise opens the execution sheet with a zeroed buffer and a
// running timer.
func (h *SessionHandler) StartExercise(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req StartExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if err := ctrl.StartExercise(req.Name, *req.Index); err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// UpdateExecution replaces the transient sets buffer and notes.
func (h *SessionHandler) UpdateExecution(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req UpdateExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if err := ctrl.UpdateExecution(req.Sets, req.Notes); err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// SaveExecution logs the active exercise and returns to the day sheet.
func (h *SessionHandler) SaveExecution(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.SaveExecution(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// FinishDay produces the daily debrief over today's logs.
func (h *SessionHandler) FinishDay(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	report, err := ctrl.FinishDay(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNothingLogged):
			abortWithError(c, http.StatusConflict, "Nenhum exercício registrado hoje.")
		case errors.Is(err, session.ErrWrongSheet):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not finish day")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "session": ctrl.Snapshot()})
}

// OpenReport shows a stored debrief on the debrief sheet.
func (h *SessionHandler) OpenReport(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req OpenReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	ctrl.OpenReport(req.Analysis)
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// CloseSheet dismisses the active sheet.
func (h *SessionHandler) CloseSheet(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.CloseSheet()
	c.JSON(http.StatusOK, ctrl.Snapshot())
}

// CoverURL returns a temporary URL for the cover image matching a focus
// label. Without a configured bucket there simply is no cover.
func (h *SessionHandler) CoverURL(c *gin.Context) {
	if h.covers == nil {
		c.JSON(http.StatusOK, gin.H{"url": ""})
		return
	}
	focus := c.Param("focus")
	url, err := h.covers.CoverURL(c.Request.Context(), focus)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not generate cover URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
