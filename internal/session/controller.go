// Package session implements the controller at the center of the
// application: it owns the current navigation view, the active modal
// sheet and the in-progress execution state, and mediates between the
// persistence backend, the plan generator and the presentation layer.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/backend"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/generator"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/repository"
)

// View is the top-level navigation selector.
type View string

const (
	ViewHome      View = "home"
	ViewConfigure View = "configure"
	ViewHistory   View = "history"
)

// Sheet is the active modal surface. Sheets and views are orthogonal:
// a sheet overlays whatever view is active.
type Sheet string

const (
	SheetNone      Sheet = "none"
	SheetDay       Sheet = "day"
	SheetReview    Sheet = "review"
	SheetExecution Sheet = "execution"
	SheetDebrief   Sheet = "debrief"
)

var (
	ErrNoReviewedPlan   = errors.New("no plan under review")
	ErrNoDaySelected    = errors.New("no day selected")
	ErrNoActiveExercise = errors.New("no active exercise")
	ErrNothingLogged    = errors.New("nothing logged today")
	ErrInvalidSwapIndex = errors.New("swap index out of range")
	ErrWrongSheet       = errors.New("operation not valid for the active sheet")
	ErrGenerationFailed = generator.ErrGenerationFailed
	ErrNoPlanOnProfile  = errors.New("profile has no confirmed plan")
	ErrControllerClosed = errors.New("session controller is closed")
)

// activeExercise identifies the exercise being executed and its slot in
// the day's ordered list.
type activeExercise struct {
	Name  string
	Index int
}

// executionBuffer is the transient, unsaved execution state. It is
// discarded on cancel and reset on every start.
type executionBuffer struct {
	Sets  []domain.ExecutionSet
	Notes string
}

// Controller is the session state machine for one user. All state is
// exclusively owned here and mutated only under the controller's lock;
// store and generator calls run outside the lock so a close or cancel
// is always accepted while one is pending.
type Controller struct {
	mu sync.Mutex

	userID  string
	backend *backend.Context
	gen     generator.PlanGenerator

	view    View
	sheet   Sheet
	profile *domain.Profile

	selectedDay    domain.Weekday
	tempPlan       domain.Plan
	tempAnalysis   string
	active         *activeExercise
	buffer         executionBuffer
	completedToday map[string]struct{}

	elapsed      int
	timerRunning bool
	timerStop    chan struct{}
	tickInterval time.Duration

	closed bool
	now    func() time.Time
}

// NewController builds a controller for the given user and loads the
// stored profile. Load failures degrade to client-side defaults; the
// application must render either way.
func NewController(ctx context.Context, userID string, be *backend.Context, gen generator.PlanGenerator) *Controller {
	c := &Controller{
		userID:         userID,
		backend:        be,
		gen:            gen,
		view:           ViewHome,
		sheet:          SheetNone,
		completedToday: map[string]struct{}{},
		tickInterval:   time.Second,
		now:            time.Now,
	}

	profile, err := be.Profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("WARN: profile load failed for user %s: %v", userID, err)
		}
		profile = domain.DefaultProfile()
	}
	c.profile = profile
	return c
}

// today returns the current calendar-day key.
func (c *Controller) today() string {
	return domain.Today(c.now())
}

// SwitchView changes the top-level view. Sheets are untouched.
func (c *Controller) SwitchView(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
}

// Profile returns a copy of the current profile.
func (c *Controller) Profile() domain.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := *c.profile
	p.Plan = c.profile.Plan.Clone()
	return p
}

// UpdateProfile replaces the in-memory profile and persists it with
// merge semantics. The state is updated optimistically; a failed write
// is logged, not rolled back.
func (c *Controller) UpdateProfile(ctx context.Context, profile *domain.Profile) {
	c.mu.Lock()
	updated := *profile
	c.profile = &updated
	c.mu.Unlock()

	if err := c.backend.Profiles.Save(ctx, c.userID, &updated); err != nil {
		log.Printf("ERROR: profile save failed for user %s: %v", c.userID, err)
	}
}

// OpenDay selects a weekday of the confirmed plan and opens the day
// sheet. Switching days while the day sheet is already open is allowed;
// an in-progress execution is not, it must be saved or cancelled first.
// The completed-exercise set is recomputed from today's logs on every
// entry; it is never carried over from a previous selection.
func (c *Controller) OpenDay(ctx context.Context, day domain.Weekday) error {
	c.mu.Lock()
	if c.sheet == SheetExecution {
		c.mu.Unlock()
		return ErrWrongSheet
	}
	if c.profile.Plan == nil {
		c.mu.Unlock()
		return ErrNoPlanOnProfile
	}
	if _, ok := c.profile.Plan[day]; !ok {
		c.mu.Unlock()
		return ErrNoDaySelected
	}
	c.selectedDay = day
	c.sheet = SheetDay
	c.mu.Unlock()

	c.refreshCompleted(ctx)
	return nil
}

// refreshCompleted recomputes today's completed-exercise set from the
// log store. Read errors degrade to an empty set so the day sheet still
// renders.
func (c *Controller) refreshCompleted(ctx context.Context) {
	logs, err := c.backend.Logs.ListExecutionLogsByDate(ctx, c.userID, c.today())
	if err != nil {
		log.Printf("WARN: completed-exercise check failed for user %s: %v", c.userID, err)
		logs = nil
	}

	done := make(map[string]struct{}, len(logs))
	for _, entry := range logs {
		done[entry.Exercise] = struct{}{}
	}

	c.mu.Lock()
	c.completedToday = done
	c.mu.Unlock()
}

// GeneratePlan invokes the generator with the current profile and, on
// success, holds the result as the plan under review. Nothing is
// persisted and no state changes on failure, so the user can retry.
func (c *Controller) GeneratePlan(ctx context.Context) error {
	c.mu.Lock()
	if c.sheet == SheetExecution {
		c.mu.Unlock()
		return ErrWrongSheet
	}
	profile := *c.profile
	c.mu.Unlock()

	generated, err := c.gen.GeneratePlan(ctx, &profile)
	if err != nil {
		return ErrGenerationFailed
	}

	c.PlanGenerated(generated.Plan, generated.Analysis)
	return nil
}

// PlanGenerated holds a freshly generated plan in transient state and
// opens the review sheet.
func (c *Controller) PlanGenerated(plan domain.Plan, analysis string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A result landing while an execution is in progress is dropped.
	if c.sheet == SheetExecution {
		return
	}
	c.tempPlan = plan.Clone()
	c.tempAnalysis = analysis
	c.sheet = SheetReview
	if len(c.tempPlan) > 0 && c.selectedDay == "" {
		c.selectedDay = c.tempPlan.Days()[0]
	}
}

// SelectReviewDay changes which day of the reviewed plan is displayed.
func (c *Controller) SelectReviewDay(day domain.Weekday) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tempPlan == nil {
		return ErrNoReviewedPlan
	}
	if _, ok := c.tempPlan[day]; !ok {
		return ErrNoDaySelected
	}
	c.selectedDay = day
	return nil
}

// ConfirmPlan persists the profile with the reviewed plan as the live
// plan and returns to the home view. Confirming again with an unchanged
// reviewed plan writes the same document, so the effect is idempotent.
func (c *Controller) ConfirmPlan(ctx context.Context) error {
	c.mu.Lock()
	if c.tempPlan == nil {
		c.mu.Unlock()
		return ErrNoReviewedPlan
	}
	c.profile.Plan = c.tempPlan.Clone()
	profile := *c.profile
	c.sheet = SheetNone
	c.view = ViewHome
	c.mu.Unlock()

	if err := c.backend.Profiles.Save(ctx, c.userID, &profile); err != nil {
		log.Printf("ERROR: plan confirm save failed for user %s: %v", c.userID, err)
	}
	return nil
}

// RequestSwap asks the generator for a substitute for the exercise at
// the given index of the reviewed plan's selected day. Only that one
// slot is ever mutated; a failed swap leaves the reviewed plan
// untouched. The reason text arrives as an explicit argument collected
// by the review sheet's modal sub-state.
func (c *Controller) RequestSwap(ctx context.Context, index int, reason string) error {
	c.mu.Lock()
	if c.sheet != SheetReview || c.tempPlan == nil {
		c.mu.Unlock()
		return ErrNoReviewedPlan
	}
	day := c.selectedDay
	current, ok := c.tempPlan[day]
	if !ok {
		c.mu.Unlock()
		return ErrNoDaySelected
	}
	if index < 0 || index >= len(current.Exercises) {
		c.mu.Unlock()
		return ErrInvalidSwapIndex
	}
	exercise := current.Exercises[index]
	c.mu.Unlock()

	replacement, err := c.gen.SwapExercise(ctx, exercise, reason)
	if err != nil || replacement == "" {
		return ErrGenerationFailed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// The sheet may have moved on while the request was in flight; a
	// late result for a gone review is simply dropped.
	if c.sheet != SheetReview || c.tempPlan == nil {
		return ErrNoReviewedPlan
	}
	d, ok := c.tempPlan[day]
	if !ok || index >= len(d.Exercises) {
		return ErrInvalidSwapIndex
	}
	d.Exercises[index] = replacement
	return nil
}

// StartExercise opens the execution sheet for one exercise of the
// selected day. The sets buffer, notes and timer always start from
// zero, regardless of any prior execution's leftover state.
func (c *Controller) StartExercise(name string, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrControllerClosed
	}
	if c.sheet != SheetDay {
		return ErrWrongSheet
	}
	c.active = &activeExercise{Name: name, Index: index}
	c.buffer = executionBuffer{}
	c.elapsed = 0
	c.sheet = SheetExecution
	c.startTimerLocked()
	return nil
}

// UpdateExecution replaces the transient sets buffer and notes while
// the execution sheet is open.
func (c *Controller) UpdateExecution(sets []domain.ExecutionSet, notes string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sheet != SheetExecution {
		return ErrWrongSheet
	}
	c.buffer = executionBuffer{Sets: sets, Notes: notes}
	return nil
}

// SaveExecution appends one immutable ExecutionLog for the active
// exercise, marks it completed for today, stops the timer and returns
// to the day sheet. The completed set is updated optimistically; a
// failed write is logged for diagnosis, not rolled back.
func (c *Controller) SaveExecution(ctx context.Context) error {
	c.mu.Lock()
	if c.sheet != SheetExecution || c.active == nil {
		c.mu.Unlock()
		return ErrNoActiveExercise
	}
	entry := domain.ExecutionLog{
		ID:        uuid.NewString(),
		Date:      c.today(),
		Exercise:  c.active.Name,
		Sets:      c.buffer.Sets,
		Notes:     c.buffer.Notes,
		Timestamp: c.now().UnixMilli(),
	}
	c.completedToday[entry.Exercise] = struct{}{}
	c.stopTimerLocked()
	c.sheet = SheetDay
	c.mu.Unlock()

	if err := c.backend.Logs.AppendExecutionLog(ctx, c.userID, &entry); err != nil {
		log.Printf("ERROR: execution log append failed for user %s: %v", c.userID, err)
	}
	return nil
}

// FinishDay reads all of today's logs and produces the daily report.
// Only valid from the day sheet: an in-progress execution must be saved
// or cancelled first. With zero logs nothing is created and the day
// sheet stays open so the user sees the "nothing logged" notice.
func (c *Controller) FinishDay(ctx context.Context) (*domain.DailyReport, error) {
	c.mu.Lock()
	if c.sheet != SheetDay {
		c.mu.Unlock()
		return nil, ErrWrongSheet
	}
	name := c.profile.Name
	c.mu.Unlock()

	logs, err := c.backend.Logs.ListExecutionLogsByDate(ctx, c.userID, c.today())
	if err != nil {
		log.Printf("WARN: finish-day log read failed for user %s: %v", c.userID, err)
		logs = nil
	}
	if len(logs) == 0 {
		return nil, ErrNothingLogged
	}

	analysis := c.gen.SummarizeDay(ctx, logs, name)
	report := domain.DailyReport{
		ID:        uuid.NewString(),
		Date:      c.today(),
		Analysis:  analysis,
		Timestamp: c.now().UnixMilli(),
	}

	if err := c.backend.Logs.AppendDailyReport(ctx, c.userID, &report); err != nil {
		log.Printf("ERROR: daily report append failed for user %s: %v", c.userID, err)
	}

	c.mu.Lock()
	c.sheet = SheetNone
	c.mu.Unlock()
	return &report, nil
}

// OpenReport shows a stored debrief on the debrief sheet.
func (c *Controller) OpenReport(analysis string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tempAnalysis = analysis
	c.sheet = SheetDebrief
}

// CloseSheet dismisses the active sheet. Closing the execution sheet
// stops the timer, discards the unsaved buffer and falls back to the
// day sheet; closing anything else returns to no sheet.
func (c *Controller) CloseSheet() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sheet == SheetExecution {
		c.stopTimerLocked()
		c.buffer = executionBuffer{}
		c.active = nil
		c.sheet = SheetDay
		return
	}
	c.sheet = SheetNone
}

// Close tears the controller down, stopping any running timer. No tick
// fires after Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.closed = true
}
