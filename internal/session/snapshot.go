package session

import (
	"sort"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
)

// ActiveExercise is the exercise currently on the execution sheet.
type ActiveExercise struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Snapshot is a consistent copy of the controller state for rendering
// or serialization. Mutating a snapshot never touches the controller.
type Snapshot struct {
	View           View                  `json:"view"`
	Sheet          Sheet                 `json:"sheet"`
	SelectedDay    domain.Weekday        `json:"selectedDay,omitempty"`
	ReviewPlan     domain.Plan           `json:"reviewPlan,omitempty"`
	ReviewAnalysis string                `json:"reviewAnalysis,omitempty"`
	Active         *ActiveExercise       `json:"activeExercise,omitempty"`
	Sets           []domain.ExecutionSet `json:"sets,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Elapsed        int                   `json:"elapsedSeconds"`
	TimerRunning   bool                  `json:"timerRunning"`
	CompletedToday []string              `json:"completedToday"`
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		View:           c.view,
		Sheet:          c.sheet,
		SelectedDay:    c.selectedDay,
		ReviewPlan:     c.tempPlan.Clone(),
		ReviewAnalysis: c.tempAnalysis,
		Notes:          c.buffer.Notes,
		Elapsed:        c.elapsed,
		TimerRunning:   c.timerRunning,
	}
	if c.active != nil {
		snap.Active = &ActiveExercise{Name: c.active.Name, Index: c.active.Index}
	}
	if len(c.buffer.Sets) > 0 {
		snap.Sets = make([]domain.ExecutionSet, len(c.buffer.Sets))
		copy(snap.Sets, c.buffer.Sets)
	}
	completed := make([]string, 0, len(c.completedToday))
	for name := range c.completedToday {
		completed = append(completed, name)
	}
	sort.Strings(completed)
	snap.CompletedToday = completed
	return snap
}

// CompletedToday reports whether the exercise has a log dated today.
func (c *Controller) CompletedToday(exercise string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.completedToday[exercise]
	return ok
}
