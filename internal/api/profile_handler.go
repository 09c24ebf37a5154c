package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/domain"
)

// ProfileHandler serves the preferences record through the session
// controller, so the in-memory state and the stored record never drift.
type ProfileHandler struct {
	sessions *SessionManager
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(sessions *SessionManager) *ProfileHandler {
	return &ProfileHandler{sessions: sessions}
}

// UpdateProfileRequest carries a partial profile update. Nil fields are
// left unchanged, matching the merge semantics of the store.
type UpdateProfileRequest struct {
	Name       *string                `json:"name"`
	Weight     *float64               `json:"weight"`
	Height     *float64               `json:"height"`
	Age        *int                   `json:"age"`
	Activity   *float64               `json:"activity"`
	Maturity   *domain.ExperienceTier `json:"maturity"`
	Days       *[]string              `json:"days"`
	Modules    *[]string              `json:"modules"`
	Priorities *[]string              `json:"priorities"`
	CustomGoal *string                `json:"customGoal"`
}

// GetProfile returns the current profile, including the confirmed plan.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	ctrl := h.sessions.Get(c.Request.Context(), userID)
	c.JSON(http.StatusOK, ctrl.Profile())
}

// UpdateProfile merges the given fields into the profile and persists it.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ctrl := h.sessions.Get(c.Request.Context(), userID)
	profile := ctrl.Profile()

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Weight != nil {
		profile.Weight = *req.Weight
	}
	if req.Height != nil {
		profile.Height = *req.Height
	}
	if req.Age != nil {
		profile.Age = *req.Age
	}
	if req.Activity != nil {
		profile.Activity = *req.Activity
	}
	if req.Maturity != nil {
		profile.Maturity = *req.Maturity
	}
	if req.Days != nil {
		days := make([]domain.Weekday, 0, len(*req.Days))
		for _, raw := range *req.Days {
			day, err := domain.ParseWeekday(raw)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown weekday: %s", raw))
				return
			}
			days = append(days, day)
		}
		profile.Days = domain.SortWeekdays(days)
	}
	if req.Modules != nil {
		profile.Modules = *req.Modules
	}
	if req.Priorities != nil {
		profile.Priorities = *req.Priorities
	}
	if req.CustomGoal != nil {
		profile.CustomGoal = *req.CustomGoal
	}

	ctrl.UpdateProfile(c.Request.Context(), &profile)
	c.JSON(http.StatusOK, ctrl.Profile())
}
